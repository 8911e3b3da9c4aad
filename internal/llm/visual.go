package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

var errEmptyDescription = errors.New("empty visual description")

// VisualDescriber turns a story chunk in any language into a short English
// scene description. The image API only understands English prompts.
type VisualDescriber struct {
	model llms.Model
}

// NewVisualDescriber creates a VisualDescriber on model.
func NewVisualDescriber(model llms.Model) *VisualDescriber {
	return &VisualDescriber{model: model}
}

// Describe returns a single-line English description of chunk.
func (d *VisualDescriber) Describe(ctx context.Context, chunk string) (string, error) {
	if d.model == nil {
		return "", errNoModel
	}

	response, err := generate(ctx, d.model, "DescribeScene", fmt.Sprintf(visualPromptTemplate, chunk))
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}

	description := strings.Join(strings.Fields(response), " ")
	if description == "" {
		return "", errEmptyDescription
	}
	return description, nil
}
