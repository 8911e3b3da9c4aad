package narration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/storage"
)

// secondsPerWord is the rough speaking pace used for placeholder duration estimates.
const secondsPerWord = 0.5

// Audio is synthesized speech returned by a Synthesizer.
type Audio struct {
	Data     []byte
	MimeType string
}

// Synthesizer turns text into speech with the given voice.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, voiceID string) (*Audio, error)
}

// Result is the outcome of narrating a story. Placeholder is set when a
// metadata file was written instead of audio; Cause records why.
type Result struct {
	Path        string
	Placeholder bool
	Cause       error
}

// VoiceSettings is the speech configuration recorded in placeholder metadata.
type VoiceSettings struct {
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// PlaceholderMetadata is the JSON document written when no audio could be produced.
type PlaceholderMetadata struct {
	Type             string        `json:"type"`
	Text             string        `json:"text"`
	Language         string        `json:"language"`
	VoiceSettings    VoiceSettings `json:"voice_settings"`
	DurationEstimate float64       `json:"duration_estimate"`
}

// Generator narrates a whole story with one synthesis call.
type Generator struct {
	synth  Synthesizer
	voices map[string]string
	store  storage.Store
}

// NewGenerator creates a Generator. A nil synth means no speech credential is
// configured and every call yields a placeholder.
func NewGenerator(synth Synthesizer, voices map[string]string, store storage.Store) *Generator {
	return &Generator{synth: synth, voices: voices, store: store}
}

// VoiceID returns the voice for lang, falling back to the English voice.
func (g *Generator) VoiceID(lang models.Language) string {
	if id, ok := g.voices[string(lang)]; ok && id != "" {
		return id
	}
	return g.voices[string(models.LanguageEnglish)]
}

// EstimateDuration returns the placeholder duration estimate in seconds.
func EstimateDuration(text string) float64 {
	return float64(len(strings.Fields(text))) * secondsPerWord
}

// Generate narrates text. Synthesis failures degrade to a placeholder; an
// error is returned only when the placeholder cannot be written either.
func (g *Generator) Generate(ctx context.Context, text string, lang models.Language) (Result, error) {
	if g.synth == nil {
		log.Info().Str("language", string(lang)).Msg("No speech credential, writing audio placeholder")
		return g.Placeholder(ctx, text, lang, nil)
	}

	voiceID := g.VoiceID(lang)
	log.Info().
		Str("language", string(lang)).
		Str("voice_id", voiceID).
		Str("synthesizer", g.synth.Name()).
		Int("text_length", len(text)).
		Msg("Generating narration")

	audio, err := g.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		log.Warn().Err(err).Str("language", string(lang)).Msg("Speech synthesis failed, writing placeholder")
		return g.Placeholder(ctx, text, lang, err)
	}

	key := fmt.Sprintf("audio/professional_audio_%s%s", uuid.NewString(), extensionFor(audio.MimeType))
	path, err := g.store.Save(ctx, key, audio.Data, audio.MimeType)
	if err != nil {
		err = fmt.Errorf("save audio: %w", err)
		log.Warn().Err(err).Msg("Saving narration failed, writing placeholder")
		return g.Placeholder(ctx, text, lang, err)
	}

	log.Info().Str("path", path).Int("audio_size_bytes", len(audio.Data)).Msg("Narration generated")
	return Result{Path: path}, nil
}

// Placeholder writes the metadata file used in place of audio. cause is
// recorded on the result and may be nil.
func (g *Generator) Placeholder(ctx context.Context, text string, lang models.Language, cause error) (Result, error) {
	meta := PlaceholderMetadata{
		Type:             "tts_placeholder",
		Text:             text,
		Language:         string(lang),
		VoiceSettings:    VoiceSettings{Rate: 0.8, Pitch: 1.0, Volume: 1.0},
		DurationEstimate: EstimateDuration(text),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Result{Cause: cause}, fmt.Errorf("encode audio placeholder: %w", err)
	}

	key := fmt.Sprintf("audio/audio_placeholder_%s.json", uuid.NewString())
	path, err := g.store.Save(ctx, key, data, "application/json")
	if err != nil {
		return Result{Cause: cause}, fmt.Errorf("save audio placeholder: %w", err)
	}
	return Result{Path: path, Placeholder: true, Cause: cause}, nil
}

func extensionFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/wav"), strings.HasPrefix(mimeType, "audio/x-wav"):
		return ".wav"
	case strings.HasPrefix(mimeType, "audio/ogg"):
		return ".ogg"
	default:
		return ".mp3"
	}
}
