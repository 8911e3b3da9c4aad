package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/tmc/langchaingo/llms"
)

var (
	errNoModel  = errors.New("text model not configured")
	errNoJSON   = errors.New("no JSON object in response")
	errNoChunks = errors.New("response has no usable chunks")
)

// StoryText is the outcome of one story generation. Fallback is set when the
// canned story was used; Cause records why.
type StoryText struct {
	Title    string
	Chunks   []string
	Fallback bool
	Cause    error
}

// StoryGenerator writes a titled six-chunk story in the requested language.
type StoryGenerator struct {
	model llms.Model
}

// NewStoryGenerator creates a StoryGenerator. A nil model always yields the canned story.
func NewStoryGenerator(model llms.Model) *StoryGenerator {
	return &StoryGenerator{model: model}
}

// Generate never fails: API, network and parse errors resolve to the canned
// story for lang. The result always has exactly models.ChunksPerStory chunks.
func (g *StoryGenerator) Generate(ctx context.Context, theme string, lang models.Language, ageGroup string) StoryText {
	log.Info().
		Str("theme", theme).
		Str("language", string(lang)).
		Str("age_group", ageGroup).
		Msg("Generating story text")

	title, chunks, err := g.generate(ctx, theme, lang, ageGroup)
	if err != nil {
		log.Warn().Err(err).Str("language", string(lang)).Msg("Story generation failed, using canned story")
		title, chunks = FallbackStory(theme, lang)
		return StoryText{Title: title, Chunks: chunks, Fallback: true, Cause: err}
	}

	log.Info().
		Str("title", title).
		Int("chunks", len(chunks)).
		Msg("Story text generated")

	return StoryText{Title: title, Chunks: chunks}
}

func (g *StoryGenerator) generate(ctx context.Context, theme string, lang models.Language, ageGroup string) (string, []string, error) {
	if g.model == nil {
		return "", nil, errNoModel
	}

	response, err := generate(ctx, g.model, "GenerateStory", storyPrompt(theme, lang, ageGroup))
	if err != nil {
		return "", nil, fmt.Errorf("gemini call: %w", err)
	}

	title, chunks, err := parseStoryResponse(response)
	if err != nil {
		return "", nil, err
	}
	if title == "" {
		title = theme + " Story"
	}
	return title, normalizeChunks(chunks, theme, lang), nil
}

// parseStoryResponse decodes the text between the first '{' and the last '}'.
func parseStoryResponse(response string) (string, []string, error) {
	text := strings.TrimSpace(response)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", nil, errNoJSON
	}

	var payload struct {
		Title  string   `json:"title"`
		Chunks []string `json:"chunks"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return "", nil, fmt.Errorf("decode story JSON: %w", err)
	}

	chunks := make([]string, 0, len(payload.Chunks))
	for _, c := range payload.Chunks {
		if c = strings.TrimSpace(c); c != "" {
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return "", nil, errNoChunks
	}
	return strings.TrimSpace(payload.Title), chunks, nil
}

// normalizeChunks pads with filler chapters or truncates to models.ChunksPerStory.
func normalizeChunks(chunks []string, theme string, lang models.Language) []string {
	for len(chunks) < models.ChunksPerStory {
		chunks = append(chunks, fillerChunk(theme, lang, len(chunks)+1))
	}
	return chunks[:models.ChunksPerStory]
}
