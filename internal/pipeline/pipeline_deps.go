package pipeline

import (
	"context"
	"time"

	"github.com/snappy-loop/storybook/internal/imagegen"
	"github.com/snappy-loop/storybook/internal/llm"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/narration"
)

// StoryWriter produces a title and the story chunks. It never fails.
type StoryWriter interface {
	Generate(ctx context.Context, theme string, lang models.Language, ageGroup string) llm.StoryText
}

// Illustrator produces one illustration per chunk, or a placeholder for it.
type Illustrator interface {
	Generate(ctx context.Context, chunk string, style models.ImageStyle, index int, theme string) (imagegen.Result, error)
	Placeholder(ctx context.Context, index int) (imagegen.Result, error)
}

// Narrator produces the narration for the whole story.
type Narrator interface {
	Generate(ctx context.Context, text string, lang models.Language) (narration.Result, error)
}

// Recorder receives pipeline outcome counts. *metrics.Metrics implements it.
type Recorder interface {
	Fallback(component string)
	GenerationCompleted(d time.Duration)
}
