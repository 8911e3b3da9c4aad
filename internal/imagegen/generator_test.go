package imagegen

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDescriber struct {
	desc string
	err  error
}

func (f fakeDescriber) Describe(context.Context, string) (string, error) {
	return f.desc, f.err
}

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	l, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return l
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("A fox in a forest", models.StyleWatercolor)
	assert.Equal(t, "A fox in a forest. soft watercolor style, gentle colors, artistic feel. High quality illustration.", p)

	unknown := BuildPrompt("A fox", models.ImageStyle("pixel"))
	assert.Contains(t, unknown, StyleDescriptor(models.StyleCartoon))

	long := BuildPrompt(strings.Repeat("ब", 400), models.StyleAnime)
	assert.Len(t, []rune(long), maxPromptRunes)
}

func TestGenerate_Clipdrop(t *testing.T) {
	var gotPrompt, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPrompt = r.FormValue("prompt")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	store := newLocal(t)
	g := NewGenerator(fakeDescriber{desc: "A fox"}, NewClipdropRenderer("k", srv.URL, 5*time.Second), store)

	res, err := g.Generate(context.Background(), "chunk", models.StyleComic, 2, "fox")
	require.NoError(t, err)
	assert.False(t, res.Placeholder)
	assert.NoError(t, res.Cause)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, BuildPrompt("A fox", models.StyleComic), gotPrompt)

	base := filepath.Base(res.Path)
	assert.True(t, strings.HasPrefix(base, "clipdrop_"), base)
	assert.True(t, strings.HasSuffix(base, "_2.png"), base)
	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestGenerate_NonOKStatusUsesPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	g := NewGenerator(fakeDescriber{desc: "A fox"}, NewClipdropRenderer("k", srv.URL, 5*time.Second), newLocal(t))

	for i := 0; i < models.ChunksPerStory; i++ {
		res, err := g.Generate(context.Background(), "chunk", models.StyleCartoon, i, "")
		require.NoError(t, err)
		assert.True(t, res.Placeholder)

		var se *StatusError
		require.True(t, errors.As(res.Cause, &se))
		assert.Equal(t, http.StatusPaymentRequired, se.StatusCode)
		assert.True(t, strings.HasPrefix(filepath.Base(res.Path), "placeholder_"))
		assert.FileExists(t, res.Path)
	}
}

func TestGenerate_DescriptionFailureUsesPlaceholder(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := NewGenerator(fakeDescriber{err: errors.New("boom")}, NewClipdropRenderer("k", srv.URL, time.Second), newLocal(t))
	res, err := g.Generate(context.Background(), "chunk", models.StyleCartoon, 0, "")
	require.NoError(t, err)
	assert.True(t, res.Placeholder)
	assert.ErrorContains(t, res.Cause, "boom")
	assert.False(t, called)
}

func TestGenerate_MissingKeyUsesPlaceholder(t *testing.T) {
	g := NewGenerator(fakeDescriber{desc: "x"}, NewClipdropRenderer("", "http://127.0.0.1:0", time.Second), newLocal(t))
	res, err := g.Generate(context.Background(), "chunk", models.StyleCartoon, 0, "")
	require.NoError(t, err)
	assert.True(t, res.Placeholder)
}

func TestRenderPlaceholder(t *testing.T) {
	data, err := RenderPlaceholder(3)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, placeholderSize, img.Bounds().Dx())
	assert.Equal(t, placeholderSize, img.Bounds().Dy())

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xf0f0), r)
	assert.Equal(t, uint32(0xf0f0), g)
	assert.Equal(t, uint32(0xf0f0), b)

	// some label pixel in the text band is dark
	dark := false
	for y := placeholderTopY; y < placeholderTopY+13*labelScale && !dark; y++ {
		for x := 0; x < placeholderSize; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark)
}
