package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Save(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "images"))
	assert.DirExists(t, filepath.Join(dir, "audio"))

	ref, err := l.Save(context.Background(), "images/a.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "images", "a.png")), ref)

	data, err := os.ReadFile(filepath.FromSlash(ref))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestClient_PublicURL(t *testing.T) {
	c := &Client{bucket: "b", publicURL: "https://cdn.example.com/assets/"}
	assert.Equal(t, "https://cdn.example.com/assets/images/x.png", c.PublicURL("images/x.png"))

	c.publicURL = "https://cdn.example.com/assets"
	assert.Equal(t, "https://cdn.example.com/assets/images/x.png", c.PublicURL("images/x.png"))

	c.publicURL = ""
	assert.Empty(t, c.PublicURL("images/x.png"))
}

func TestClient_Save(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		path, body = r.URL.Path, string(b)
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "us-east-1", "tales", "key", "secret", "")
	require.NoError(t, err)

	ref, err := c.Save(context.Background(), "audio/n.mp3", []byte("mp3-bytes"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "s3://tales/audio/n.mp3", ref)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/tales/audio/n.mp3", path)
	assert.Equal(t, "mp3-bytes", body)
}
