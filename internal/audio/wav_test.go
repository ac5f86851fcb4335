package audio

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestWAVHeader(t *testing.T) {
	rec := &Recording{
		Samples:    []int16{0, 100, -100, 32767},
		SampleRate: 16000,
		Channels:   1,
	}

	wav := rec.WAV()

	if len(wav) != 44+8 {
		t.Fatalf("expected 52 bytes, got %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatal("missing fmt/data chunks")
	}

	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 36+8 {
		t.Errorf("RIFF size: expected %d, got %d", 36+8, got)
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("audio format: expected PCM (1), got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels: expected 1, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate: expected 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate: expected 32000, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample: expected 16, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 8 {
		t.Errorf("data size: expected 8, got %d", got)
	}
}

func TestWAVPayloadLittleEndian(t *testing.T) {
	rec := &Recording{
		Samples:    []int16{0x0102, -2},
		SampleRate: 16000,
		Channels:   1,
	}

	wav := rec.WAV()
	data := wav[44:]

	expected := []byte{0x02, 0x01, 0xFE, 0xFF}
	for i := range expected {
		if data[i] != expected[i] {
			t.Fatalf("payload byte %d: expected %#x, got %#x", i, expected[i], data[i])
		}
	}
}

func TestRecordingDuration(t *testing.T) {
	rec := &Recording{
		Samples:    make([]int16, 48000),
		SampleRate: 16000,
		Channels:   1,
	}
	if got := rec.Duration(); got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}

	empty := &Recording{SampleRate: 16000, Channels: 1}
	if !empty.Empty() {
		t.Error("expected empty recording")
	}
	if empty.Duration() != 0 {
		t.Error("empty recording should have zero duration")
	}
}
