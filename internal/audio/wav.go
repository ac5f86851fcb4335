package audio

import (
	"bytes"
	"encoding/binary"
)

// WAV serializes the recording as a RIFF/PCM16 file for transport to the
// transcription service.
func (r *Recording) WAV() []byte {
	channels := r.Channels
	if channels == 0 {
		channels = 1
	}

	dataLen := len(r.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(r.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(r.SampleRate*channels*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))              // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))                      // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(buf, binary.LittleEndian, r.Samples)

	return buf.Bytes()
}
