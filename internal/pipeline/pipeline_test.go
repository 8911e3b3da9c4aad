package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/snappy-loop/storybook/internal/imagegen"
	"github.com/snappy-loop/storybook/internal/llm"
	"github.com/snappy-loop/storybook/internal/metrics"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/narration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	text  llm.StoryText
	calls int
}

func (f *fakeWriter) Generate(_ context.Context, theme string, _ models.Language, _ string) llm.StoryText {
	f.calls++
	return f.text
}

type fakeIllustrator struct {
	failAt          map[int]bool
	placeholder     map[int]bool
	placeholderErr  error
	placeholderUsed []int
	styles          []models.ImageStyle
	order           []int
}

func (f *fakeIllustrator) Placeholder(_ context.Context, index int) (imagegen.Result, error) {
	f.placeholderUsed = append(f.placeholderUsed, index)
	if f.placeholderErr != nil {
		return imagegen.Result{}, f.placeholderErr
	}
	return imagegen.Result{Path: fmt.Sprintf("retry_%d.png", index), Placeholder: true}, nil
}

func (f *fakeIllustrator) Generate(_ context.Context, _ string, style models.ImageStyle, index int, _ string) (imagegen.Result, error) {
	f.styles = append(f.styles, style)
	f.order = append(f.order, index)
	if f.failAt[index] {
		return imagegen.Result{}, errors.New("disk full")
	}
	if f.placeholder[index] {
		return imagegen.Result{Path: fmt.Sprintf("placeholder_%d.png", index), Placeholder: true}, nil
	}
	return imagegen.Result{Path: fmt.Sprintf("img_%d.png", index)}, nil
}

type fakeNarrator struct {
	text string
	res  narration.Result
	err  error
}

func (f *fakeNarrator) Generate(_ context.Context, text string, _ models.Language) (narration.Result, error) {
	f.text = text
	return f.res, f.err
}

type countingRecorder map[string]int

func (c countingRecorder) Fallback(component string) { c[component]++ }

func (c countingRecorder) GenerationCompleted(time.Duration) { c["completed"]++ }

func sixChunks() []string {
	return []string{"one", "two", "three", "four", "five", "six"}
}

func TestRun(t *testing.T) {
	writer := &fakeWriter{text: llm.StoryText{Title: "Fox", Chunks: sixChunks()}}
	ill := &fakeIllustrator{}
	nar := &fakeNarrator{res: narration.Result{Path: "audio.mp3"}}
	rec := countingRecorder{}

	res, err := New(writer, ill, nar, rec).Run(context.Background(), models.GenerateRequest{
		Theme: " fox ", Language: models.LanguageEnglish, AgeGroup: "5-8",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ill.order)
	assert.Equal(t, models.StyleCartoon, ill.styles[0])
	assert.Equal(t, "one two three four five six", nar.text)

	assert.Equal(t, "Fox", res.Title)
	assert.Equal(t, "fox", res.Theme)
	assert.Equal(t, models.StyleCartoon, res.ImageStyle)
	assert.Equal(t, sixChunks(), res.Chunks)
	assert.Equal(t, []string{"img_0.png", "img_1.png", "img_2.png", "img_3.png", "img_4.png", "img_5.png"}, res.ImagePaths)
	assert.Equal(t, "audio.mp3", res.AudioPath)
	assert.Equal(t, countingRecorder{"completed": 1}, rec)
}

func TestRun_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  models.GenerateRequest
	}{
		{"theme", models.GenerateRequest{Language: models.LanguageHindi, AgeGroup: "5-8"}},
		{"blank theme", models.GenerateRequest{Theme: "  ", Language: models.LanguageHindi, AgeGroup: "5-8"}},
		{"language", models.GenerateRequest{Theme: "fox", AgeGroup: "5-8"}},
		{"age_group", models.GenerateRequest{Theme: "fox", Language: models.LanguageHindi}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			_, err := New(writer, &fakeIllustrator{}, &fakeNarrator{}, nil).Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Zero(t, writer.calls)
		})
	}
}

func TestRun_FailuresDoNotAbort(t *testing.T) {
	writer := &fakeWriter{text: llm.StoryText{Title: "T", Chunks: sixChunks(), Fallback: true}}
	ill := &fakeIllustrator{failAt: map[int]bool{1: true}, placeholder: map[int]bool{3: true}}
	nar := &fakeNarrator{err: errors.New("no space left")}
	rec := countingRecorder{}

	res, err := New(writer, ill, nar, rec).Run(context.Background(), models.GenerateRequest{
		Theme: "fox", Language: models.LanguageTamil, AgeGroup: "25+", ImageStyle: models.StyleAnime,
	})
	require.NoError(t, err)

	require.Len(t, res.ImagePaths, models.ChunksPerStory)
	assert.Equal(t, "retry_1.png", res.ImagePaths[1])
	assert.Equal(t, []int{1}, ill.placeholderUsed)
	assert.Equal(t, "placeholder_3.png", res.ImagePaths[3])
	assert.Equal(t, "img_5.png", res.ImagePaths[5])
	assert.Empty(t, res.AudioPath)
	assert.Equal(t, models.StyleAnime, res.ImageStyle)

	assert.Equal(t, 1, rec[metrics.ComponentText])
	assert.Equal(t, 2, rec[metrics.ComponentImage])
	assert.Equal(t, 1, rec[metrics.ComponentAudio])
}

func TestRun_PlaceholderAudioCounted(t *testing.T) {
	writer := &fakeWriter{text: llm.StoryText{Title: "T", Chunks: sixChunks()}}
	nar := &fakeNarrator{res: narration.Result{Path: "audio_placeholder.json", Placeholder: true}}
	rec := countingRecorder{}

	res, err := New(writer, &fakeIllustrator{}, nar, rec).Run(context.Background(), models.GenerateRequest{
		Theme: "fox", Language: models.LanguageEnglish, AgeGroup: "25+",
	})
	require.NoError(t, err)
	assert.Equal(t, "audio_placeholder.json", res.AudioPath)
	assert.Equal(t, 1, rec[metrics.ComponentAudio])
}

func TestRun_PlaceholderRetryFailureLeavesEmptyPath(t *testing.T) {
	writer := &fakeWriter{text: llm.StoryText{Title: "T", Chunks: sixChunks()}}
	ill := &fakeIllustrator{failAt: map[int]bool{0: true}, placeholderErr: errors.New("read-only fs")}
	rec := countingRecorder{}

	res, err := New(writer, ill, &fakeNarrator{}, rec).Run(context.Background(), models.GenerateRequest{
		Theme: "fox", Language: models.LanguageEnglish, AgeGroup: "25+",
	})
	require.NoError(t, err)
	assert.Equal(t, "", res.ImagePaths[0])
	assert.Equal(t, "img_1.png", res.ImagePaths[1])
	assert.Equal(t, 1, rec[metrics.ComponentImage])
}
