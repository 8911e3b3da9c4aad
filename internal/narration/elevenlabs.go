package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultElevenLabsURL   = "https://api.elevenlabs.io"
	DefaultElevenLabsModel = "eleven_multilingual_v2"
)

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// multilingualVoice is the fixed voice-quality configuration sent with every request.
var multilingualVoice = elevenLabsVoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
	Style:           0.5,
	UseSpeakerBoost: true,
}

// StatusError is returned when the speech API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("speech API returned status %d: %s", e.StatusCode, e.Body)
}

// ElevenLabs synthesizes speech with the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewElevenLabs creates an ElevenLabs synthesizer. Empty baseURL and model select the defaults.
func NewElevenLabs(apiKey, baseURL, model string, timeout time.Duration) *ElevenLabs {
	if baseURL == "" {
		baseURL = DefaultElevenLabsURL
	}
	if model == "" {
		model = DefaultElevenLabsModel
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

// Synthesize posts text to /v1/text-to-speech/{voiceID} and returns the MP3 body.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID string) (*Audio, error) {
	if voiceID == "" {
		return nil, errors.New("no voice id")
	}
	payload, err := json.Marshal(elevenLabsRequest{
		Text:          text,
		ModelID:       e.model,
		VoiceSettings: multilingualVoice,
	})
	if err != nil {
		return nil, err
	}

	endpoint := e.baseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read elevenlabs response: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("elevenlabs returned no audio")
	}
	return &Audio{Data: data, MimeType: "audio/mpeg"}, nil
}
