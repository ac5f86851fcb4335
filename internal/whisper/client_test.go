package whisper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/audio"
	"github.com/petems/voicenotes/internal/config"
)

func testRecording() *audio.Recording {
	return &audio.Recording{
		Samples:    []int16{0, 1, -1, 100},
		SampleRate: 16000,
		Channels:   1,
	}
}

func newTestClient(url string, timeout time.Duration) *Client {
	cfg := &config.Config{WhisperURL: url, WhisperTimeout: timeout}
	return NewClient(cfg, zerolog.Nop())
}

func TestTranscribeSuccess(t *testing.T) {
	rec := testRecording()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("missing audio form file: %v", err)
		}
		defer file.Close()

		if header.Filename != "recording.wav" {
			t.Errorf("expected filename recording.wav, got %s", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "audio/wav" {
			t.Errorf("expected audio/wav part, got %s", ct)
		}

		payload, _ := io.ReadAll(file)
		if !bytes.Equal(payload, rec.WAV()) {
			t.Error("uploaded payload does not match WAV serialization")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "discuss budget", "language": "en", "duration": 2.5}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	result, err := client.Transcribe(context.Background(), rec)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Text != "discuss budget" {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if result.Language != "en" || result.Duration != 2.5 {
		t.Errorf("metadata not decoded: %+v", result)
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "", "language": "en", "duration": 3.0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	result, err := client.Transcribe(context.Background(), testRecording())
	if err != nil {
		t.Fatalf("empty transcript should not be an error: %v", err)
	}
	if result.Text != "" {
		t.Errorf("expected empty text, got %q", result.Text)
	}
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Transcribe(context.Background(), testRecording())

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", serverErr.Status)
	}
	if !strings.Contains(serverErr.Body, "model not loaded") {
		t.Errorf("expected body in error, got %q", serverErr.Body)
	}
}

func TestTranscribeUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Transcribe(context.Background(), testRecording())

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := client.Transcribe(context.Background(), testRecording())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("blocked well past the configured timeout: %s", elapsed)
	}
}
