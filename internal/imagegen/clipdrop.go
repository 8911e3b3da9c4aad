package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultClipdropURL = "https://clipdrop-api.co/text-to-image/v1"

// StatusError is returned when an image API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("image API returned status %d: %s", e.StatusCode, e.Body)
}

// ClipdropRenderer calls the Clipdrop text-to-image endpoint.
type ClipdropRenderer struct {
	apiKey string
	url    string
	client *http.Client
}

// NewClipdropRenderer creates a ClipdropRenderer. An empty url selects DefaultClipdropURL.
func NewClipdropRenderer(apiKey, url string, timeout time.Duration) *ClipdropRenderer {
	if url == "" {
		url = DefaultClipdropURL
	}
	return &ClipdropRenderer{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *ClipdropRenderer) Name() string { return "clipdrop" }

// Render posts prompt as a multipart form field and returns the image bytes.
func (r *ClipdropRenderer) Render(ctx context.Context, prompt string) (*Image, error) {
	if r.apiKey == "" {
		return nil, errors.New("clipdrop API key not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clipdrop request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read clipdrop response: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("clipdrop returned an empty image")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	log.Debug().
		Str("caller", "Clipdrop").
		Int("image_size_bytes", len(data)).
		Str("mime_type", mimeType).
		Msg("Clipdrop response")

	return &Image{Data: data, MimeType: mimeType}, nil
}
