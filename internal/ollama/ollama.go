package ollama

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the formatting service could not be reached.
	ErrUnavailable = errors.New("formatting service unavailable")
	// ErrTimeout means the request exceeded the configured timeout.
	ErrTimeout = errors.New("formatting request timed out")
)

// ServerError is a non-success response from the formatting service.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("formatting server returned %d: %s", e.Status, e.Body)
}

// Formatter turns a raw transcript into structured meeting notes. An empty
// transcript is still sent; short-circuiting is the pipeline's decision.
type Formatter interface {
	Format(ctx context.Context, transcript string) (string, error)
}
