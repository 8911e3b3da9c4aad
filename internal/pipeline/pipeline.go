package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/metrics"
	"github.com/snappy-loop/storybook/internal/models"
)

// ErrMissingField is returned when theme, language or age group is empty.
var ErrMissingField = errors.New("missing required field")

// Pipeline runs text, image and narration generation for one request, in order.
type Pipeline struct {
	writer      StoryWriter
	illustrator Illustrator
	narrator    Narrator
	recorder    Recorder
}

// New creates a Pipeline. recorder may be nil.
func New(writer StoryWriter, illustrator Illustrator, narrator Narrator, recorder Recorder) *Pipeline {
	return &Pipeline{
		writer:      writer,
		illustrator: illustrator,
		narrator:    narrator,
		recorder:    recorder,
	}
}

// Run generates a story for req. It fails only when a required request field
// is missing; every generation step has its own fallback.
func (p *Pipeline) Run(ctx context.Context, req models.GenerateRequest) (*models.GenerationResult, error) {
	req.Theme = strings.TrimSpace(req.Theme)
	req.AgeGroup = strings.TrimSpace(req.AgeGroup)
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.ImageStyle == "" {
		req.ImageStyle = models.DefaultImageStyle
	}

	start := time.Now()
	log.Info().
		Str("theme", req.Theme).
		Str("language", string(req.Language)).
		Str("age_group", req.AgeGroup).
		Str("image_style", string(req.ImageStyle)).
		Msg("Starting story generation")

	// Step 1: story text
	log.Info().Msg("Step 1: Generating story text")
	text := p.writer.Generate(ctx, req.Theme, req.Language, req.AgeGroup)
	if text.Fallback {
		p.fallback(metrics.ComponentText)
		log.Warn().Err(text.Cause).Msg("Using fallback story text")
	}

	// Step 2: one image per chunk
	log.Info().Int("chunks", len(text.Chunks)).Msg("Step 2: Generating images")
	imagePaths := make([]string, 0, len(text.Chunks))
	for i, chunk := range text.Chunks {
		res, err := p.illustrator.Generate(ctx, chunk, req.ImageStyle, i, req.Theme)
		if err != nil {
			log.Error().Err(err).Int("image", i+1).Msg("Image generation failed, retrying placeholder")
			if res, err = p.illustrator.Placeholder(ctx, i); err != nil {
				log.Error().Err(err).Int("image", i+1).Msg("Placeholder generation failed, leaving image empty")
			}
		}
		if err != nil || res.Placeholder {
			p.fallback(metrics.ComponentImage)
		}
		imagePaths = append(imagePaths, res.Path)
	}

	// Step 3: narration of the whole story
	log.Info().Msg("Step 3: Generating narration")
	var audioPath string
	audio, err := p.narrator.Generate(ctx, strings.Join(text.Chunks, " "), req.Language)
	if err != nil {
		log.Error().Err(err).Msg("Narration generation failed, continuing without audio")
		p.fallback(metrics.ComponentAudio)
	} else {
		if audio.Placeholder {
			p.fallback(metrics.ComponentAudio)
		}
		audioPath = audio.Path
	}

	elapsed := time.Since(start)
	if p.recorder != nil {
		p.recorder.GenerationCompleted(elapsed)
	}
	log.Info().
		Str("title", text.Title).
		Int("images", len(imagePaths)).
		Bool("has_audio", audioPath != "").
		Dur("elapsed", elapsed).
		Msg("Story generation completed")

	return &models.GenerationResult{
		Title:      text.Title,
		Theme:      req.Theme,
		Language:   req.Language,
		AgeGroup:   req.AgeGroup,
		ImageStyle: req.ImageStyle,
		Chunks:     text.Chunks,
		ImagePaths: imagePaths,
		AudioPath:  audioPath,
	}, nil
}

func (p *Pipeline) fallback(component string) {
	if p.recorder != nil {
		p.recorder.Fallback(component)
	}
}

func validate(req models.GenerateRequest) error {
	var missing []string
	if req.Theme == "" {
		missing = append(missing, "theme")
	}
	if req.Language == "" {
		missing = append(missing, "language")
	}
	if req.AgeGroup == "" {
		missing = append(missing, "age_group")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
