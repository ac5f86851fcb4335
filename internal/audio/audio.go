package audio

import (
	"errors"
	"time"
)

var (
	// ErrDeviceUnavailable means no usable input device could be opened.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	// ErrAlreadyRecording means a capture is in flight; the device is exclusive.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording means Stop was called without a prior Start.
	ErrNotRecording = errors.New("not recording")
)

// Capture defines the interface for microphone capture. Start begins
// accumulating samples into a fresh buffer; Stop seals the buffer and
// returns it. At most one capture may be in flight.
type Capture interface {
	Start() error
	Stop() (*Recording, error)
	ListDevices() ([]Device, error)
	Close() error
}

// Device represents an audio input device
type Device struct {
	ID      string
	Name    string
	Default bool
}

// Recording is a sealed buffer of PCM16 samples. It is created by Stop and
// never mutated afterwards.
type Recording struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Duration returns the spoken length of the recording.
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	frames := len(r.Samples)
	if r.Channels > 1 {
		frames /= r.Channels
	}
	return time.Duration(frames) * time.Second / time.Duration(r.SampleRate)
}

// Empty reports whether no samples were captured.
func (r *Recording) Empty() bool {
	return len(r.Samples) == 0
}
