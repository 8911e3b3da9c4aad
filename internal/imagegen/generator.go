package imagegen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/storage"
)

// maxPromptRunes caps the final prompt sent to the image API.
const maxPromptRunes = 300

const qualitySuffix = "High quality illustration."

var styleDescriptors = map[models.ImageStyle]string{
	models.StyleCartoon:     "Disney Pixar style, vibrant colors, cute and expressive characters",
	models.StyleComic:       "comic book style, dynamic action, bold colors, strong outlines",
	models.StyleAnime:       "anime style, expressive faces, beautiful backgrounds",
	models.StyleRealistic:   "photorealistic, detailed textures, natural lighting",
	models.StyleWatercolor:  "soft watercolor style, gentle colors, artistic feel",
	models.StyleOilPainting: "oil painting style, rich colors, classical look",
}

// Describer produces an English scene description for a story chunk.
type Describer interface {
	Describe(ctx context.Context, chunk string) (string, error)
}

// Image is a rendered image returned by a Renderer.
type Image struct {
	Data     []byte
	MimeType string
}

// Renderer turns an English prompt into an image.
type Renderer interface {
	Name() string
	Render(ctx context.Context, prompt string) (*Image, error)
}

// Result is the outcome of generating one illustration. Placeholder is set
// when the locally drawn image was used; Cause records why.
type Result struct {
	Path        string
	Placeholder bool
	Cause       error
}

// Generator produces one illustration per story chunk.
type Generator struct {
	describer Describer
	renderer  Renderer
	store     storage.Store
}

// NewGenerator creates a Generator.
func NewGenerator(describer Describer, renderer Renderer, store storage.Store) *Generator {
	return &Generator{describer: describer, renderer: renderer, store: store}
}

// StyleDescriptor returns the English style phrase for style, cartoon for unknown styles.
func StyleDescriptor(style models.ImageStyle) string {
	if d, ok := styleDescriptors[style]; ok {
		return d
	}
	return styleDescriptors[models.StyleCartoon]
}

// BuildPrompt joins description, style phrase and quality suffix, capped at maxPromptRunes.
func BuildPrompt(description string, style models.ImageStyle) string {
	prompt := fmt.Sprintf("%s. %s. %s", description, StyleDescriptor(style), qualitySuffix)
	if r := []rune(prompt); len(r) > maxPromptRunes {
		prompt = string(r[:maxPromptRunes])
	}
	return prompt
}

// Generate illustrates chunk number index (0-based). Any failure of the
// description, rendering or save step yields a placeholder image; an error is
// returned only when the placeholder itself cannot be produced.
func (g *Generator) Generate(ctx context.Context, chunk string, style models.ImageStyle, index int, theme string) (Result, error) {
	log.Info().
		Int("image", index+1).
		Str("style", string(style)).
		Str("theme", theme).
		Str("renderer", g.renderer.Name()).
		Msg("Generating image")

	path, err := g.render(ctx, chunk, style, index)
	if err != nil {
		log.Warn().Err(err).Int("image", index+1).Msg("Image generation failed, using placeholder")
		res, perr := g.Placeholder(ctx, index)
		if perr != nil {
			return Result{Cause: err}, perr
		}
		res.Cause = err
		return res, nil
	}

	log.Info().Int("image", index+1).Str("path", path).Msg("Image generated")
	return Result{Path: path}, nil
}

func (g *Generator) render(ctx context.Context, chunk string, style models.ImageStyle, index int) (string, error) {
	description, err := g.describer.Describe(ctx, chunk)
	if err != nil {
		return "", fmt.Errorf("visual description: %w", err)
	}

	img, err := g.renderer.Render(ctx, BuildPrompt(description, style))
	if err != nil {
		return "", fmt.Errorf("%s render: %w", g.renderer.Name(), err)
	}

	key := fmt.Sprintf("images/%s_%s_%d%s", g.renderer.Name(), uuid.NewString(), index, extensionFor(img.MimeType))
	path, err := g.store.Save(ctx, key, img.Data, img.MimeType)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

// Placeholder draws and stores the "Chapter N" placeholder for chunk index.
func (g *Generator) Placeholder(ctx context.Context, index int) (Result, error) {
	data, err := RenderPlaceholder(index)
	if err != nil {
		return Result{}, fmt.Errorf("render placeholder: %w", err)
	}
	key := fmt.Sprintf("images/placeholder_%d_%s.png", index, uuid.NewString())
	path, err := g.store.Save(ctx, key, data, "image/png")
	if err != nil {
		return Result{}, fmt.Errorf("save placeholder: %w", err)
	}
	return Result{Path: path, Placeholder: true}, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
