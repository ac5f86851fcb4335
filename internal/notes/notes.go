package notes

import "errors"

// ErrStorage means the notes directory could not be created or written to.
var ErrStorage = errors.New("notes storage unavailable")

// Note is everything the writer needs to render and persist one document.
type Note struct {
	Formatted  string
	Transcript string
	// Spoken is the audio duration the transcription server reported.
	Spoken float64
	Model  string
}

// Writer persists a formatted note and returns the final path. Files are
// created once and never mutated.
type Writer interface {
	Write(note Note) (string, error)
}
