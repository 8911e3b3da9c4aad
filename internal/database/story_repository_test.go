package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*StoryRepository, *DB) {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "data", "stories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db.SQLDB()))
	return NewStoryRepository(db), db
}

func sixChunks() []string {
	return []string{"one", "two", "three", "four", "five", "six"}
}

func TestStoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	paths := []string{"static/images/a.png", "static/images/b.png"}
	id, err := repo.Create(ctx, &models.NewStory{
		Title:      "The Fox",
		Theme:      "fox",
		Language:   models.LanguageEnglish,
		AgeGroup:   "5-8",
		Chunks:     sixChunks(),
		ImagePaths: paths,
		AudioPath:  "static/audio/x.mp3",
		ImageStyle: models.StyleAnime,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "The Fox", got.Title)
	assert.Equal(t, models.LanguageEnglish, got.Language)
	assert.Equal(t, "5-8", got.AgeGroup)
	assert.Equal(t, sixChunks(), got.Chunks)
	assert.Equal(t, paths, got.ImagePaths)
	assert.Equal(t, "static/audio/x.mp3", got.AudioPath)
	assert.Equal(t, models.StyleAnime, got.ImageStyle)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStoryRepository_Defaults(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	id, err := repo.Create(ctx, &models.NewStory{Theme: "moon", Language: models.LanguageHindi, Chunks: sixChunks()})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgeGroup, got.AgeGroup)
	assert.Equal(t, models.DefaultImageStyle, got.ImageStyle)
	assert.Equal(t, []string{}, got.ImagePaths)
	assert.Empty(t, got.AudioPath)
}

func TestStoryRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestStoryRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	idA, err := repo.Create(ctx, &models.NewStory{Theme: "A", Language: models.LanguageEnglish, Chunks: sixChunks()})
	require.NoError(t, err)
	idB, err := repo.Create(ctx, &models.NewStory{Theme: "B", Language: models.LanguageEnglish, Chunks: sixChunks()})
	require.NoError(t, err)
	assert.Greater(t, idB, idA)

	stories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "B", stories[0].Theme)
	assert.Equal(t, "A", stories[1].Theme)
}

func TestStoryRepository_CorruptListsDecodeEmpty(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO stories (theme, language, chunks, image_paths) VALUES ('x', 'English', 'not json', '{"a":1}')`)
	require.NoError(t, err)

	stories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, []string{}, stories[0].Chunks)
	assert.Equal(t, []string{}, stories[0].ImagePaths)
}
