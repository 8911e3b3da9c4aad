package imagegen

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiRenderer generates images with a Gemini image model using IMAGE response modality.
type GeminiRenderer struct {
	client *genai.Client
	model  string
}

// NewGeminiRenderer creates a GeminiRenderer. apiEndpoint may be empty.
func NewGeminiRenderer(ctx context.Context, apiKey, model, apiEndpoint string) (*GeminiRenderer, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(apiEndpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiRenderer{client: client, model: model}, nil
}

func (r *GeminiRenderer) Name() string { return "gemini" }

// Close releases the underlying client.
func (r *GeminiRenderer) Close() error {
	return r.client.Close()
}

// Render returns the first image blob in the model response.
func (r *GeminiRenderer) Render(ctx context.Context, prompt string) (*Image, error) {
	model := r.client.GenerativeModel(r.model)
	setResponseModality(model, []string{"IMAGE"})

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	for i, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for j, part := range cand.Content.Parts {
			blob, ok := part.(genai.Blob)
			if !ok || len(blob.Data) == 0 {
				continue
			}
			mimeType := blob.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			log.Debug().
				Str("caller", "GeminiImage").
				Int("image_size_bytes", len(blob.Data)).
				Str("mime_type", mimeType).
				Int("candidate", i).
				Int("part", j).
				Msg("Gemini response (image blob)")
			return &Image{Data: blob.Data, MimeType: mimeType}, nil
		}
	}

	return nil, fmt.Errorf("no image blob in response (candidates=%d)", len(resp.Candidates))
}

// setResponseModality sets model.ResponseModality when the SDK exposes it; a no-op otherwise.
func setResponseModality(model *genai.GenerativeModel, modalities []string) {
	v := reflect.ValueOf(model).Elem()
	f := v.FieldByName("ResponseModality")
	if !f.IsValid() || !f.CanSet() {
		log.Debug().Msg("ResponseModality not available on GenerativeModel")
		return
	}
	if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
		f.Set(reflect.ValueOf(modalities))
	}
}
