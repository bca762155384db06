package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 90 * time.Second

// HTTPEngine calls a remote extraction service over HTTP. The service owns
// the language-model interaction; this client only ships the report text plus
// extraction settings and decodes the extraction list that comes back.
type HTTPEngine struct {
	url    string
	opts   Options
	client *http.Client
}

// NewHTTPEngine creates a client for the extraction service at url.
func NewHTTPEngine(url string, opts Options) *HTTPEngine {
	if opts.ModelID == "" {
		opts.ModelID = DefaultModelID
	}
	return &HTTPEngine{
		url:    url,
		opts:   opts,
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// extractRequest is the wire format sent to the extraction service.
type extractRequest struct {
	Text              string  `json:"text"`
	ModelID           string  `json:"model_id"`
	Prompt            string  `json:"prompt,omitempty"`
	Temperature       float64 `json:"temperature"`
	MaxCharBuffer     int     `json:"max_char_buffer,omitempty"`
	AcceptLesserMatch bool    `json:"accept_lesser_match"`
	FuzzyThreshold    float64 `json:"fuzzy_alignment_threshold,omitempty"`
}

// extractResponse is the wire format returned by the extraction service.
type extractResponse struct {
	Extractions []Extraction `json:"extractions"`
	Error       string       `json:"error,omitempty"`
}

// Extract sends the report text to the extraction service and returns the
// extractions it produced. Zero extractions is a valid outcome.
func (e *HTTPEngine) Extract(ctx context.Context, text string) ([]Extraction, error) {
	payload, err := json.Marshal(extractRequest{
		Text:              text,
		ModelID:           e.opts.ModelID,
		Prompt:            Instruction,
		Temperature:       e.opts.Temperature,
		MaxCharBuffer:     e.opts.MaxCharBuffer,
		AcceptLesserMatch: e.opts.AcceptLesserMatch,
		FuzzyThreshold:    e.opts.FuzzyThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.opts.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded extractResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("extraction service error: %s", decoded.Error)
	}
	return decoded.Extractions, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
