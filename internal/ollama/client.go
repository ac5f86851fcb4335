package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/config"
)

// Client posts generation requests to an Ollama-style HTTP server and waits
// for the fully materialized response; streaming is disabled.
type Client struct {
	url    string
	model  string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a formatting client for the configured endpoint.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		url:   cfg.OllamaURL,
		model: cfg.OllamaModel,
		client: &http.Client{
			Timeout: cfg.OllamaTimeout,
		},
		log: log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Format sends the transcript plus the meeting-notes instruction and blocks
// until the full generation arrives or the timeout expires.
func (c *Client) Format(ctx context.Context, transcript string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(transcript),
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("url", c.url).Str("model", c.model).Int("transcript_len", len(transcript)).Msg("Sending formatting request")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServerError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse generation response: %w", err)
	}

	return result.Response, nil
}

func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
