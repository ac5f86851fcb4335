package whisper

import (
	"context"
	"errors"
	"fmt"

	"github.com/petems/voicenotes/internal/audio"
)

var (
	// ErrUnavailable means the transcription service could not be reached.
	ErrUnavailable = errors.New("transcription service unavailable")
	// ErrTimeout means the request exceeded the configured timeout.
	ErrTimeout = errors.New("transcription request timed out")
)

// ServerError is a non-success response from the transcription service.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("transcription server returned %d: %s", e.Status, e.Body)
}

// Transcriber interface for speech-to-text
type Transcriber interface {
	Transcribe(ctx context.Context, rec *audio.Recording) (Result, error)
}

// Result is the transcription of one recording. Text may be empty; an empty
// transcript is a valid terminal value.
type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}
