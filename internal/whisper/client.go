package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"

	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/audio"
	"github.com/petems/voicenotes/internal/config"
)

// Client posts recordings to a Whisper-style HTTP transcription server.
// The server is stateless per request; no retry happens here.
type Client struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a transcription client for the configured endpoint.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		url: cfg.WhisperURL,
		client: &http.Client{
			Timeout: cfg.WhisperTimeout,
		},
		log: log,
	}
}

// Transcribe uploads the recording as a multipart WAV file and blocks until
// the server responds or the timeout expires.
func (c *Client) Transcribe(ctx context.Context, rec *audio.Recording) (Result, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio"; filename="recording.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := mw.CreatePart(header)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(rec.WAV()); err != nil {
		return Result{}, fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.log.Debug().Str("url", c.url).Dur("audio", rec.Duration()).Msg("Sending transcription request")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, classify(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &ServerError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse transcription response: %w", err)
	}

	c.log.Debug().Str("language", result.Language).Float64("duration", result.Duration).Msg("Transcription received")
	return result, nil
}

// classify maps transport errors onto the client's error kinds: deadline
// expiry is a timeout, everything else means the service is unreachable.
func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
