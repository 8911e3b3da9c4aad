package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store persists a generated asset under key (e.g. "images/x.png") and returns
// the reference recorded on the story: a file path or a URL.
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Local writes assets below a root directory on the local filesystem.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir, creating images/ and audio/ below it.
func NewLocal(dir string) (*Local, error) {
	for _, sub := range []string{"images", "audio"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s dir: %w", sub, err)
		}
	}
	return &Local{root: dir}, nil
}

// Root returns the directory assets are written under.
func (l *Local) Root() string {
	return l.root
}

// Save writes data to root/key and returns that path.
func (l *Local) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}

	log.Debug().Str("path", path).Int("size_bytes", len(data)).Msg("Asset written")

	return filepath.ToSlash(path), nil
}
