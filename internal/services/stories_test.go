package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/snappy-loop/storybook/internal/database"
	"github.com/snappy-loop/storybook/internal/kafka"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	events []kafka.StoryEvent
	err    error
}

func (f *fakePublisher) PublishStorySaved(_ context.Context, ev kafka.StoryEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeRecorder struct {
	saved, rejected int
}

func (f *fakeRecorder) StorySaved()   { f.saved++ }
func (f *fakeRecorder) SaveRejected() { f.rejected++ }

func newTestStore(t *testing.T) *database.StoryRepository {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "stories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db.SQLDB()))
	return database.NewStoryRepository(db)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func sixChunks() []string {
	return []string{
		"Once upon a time",
		"a fox found a key",
		"under the old oak,",
		"\"what does it open?\" she asked",
		"एक दरवाज़ा",
		"and the door opened.",
	}
}

func validForm(t *testing.T, title string) models.SaveStoryForm {
	return models.SaveStoryForm{
		Title:      title,
		Theme:      "fox",
		Language:   "English",
		AgeGroup:   "5-8",
		Chunks:     mustJSON(t, sixChunks()),
		ImagePaths: mustJSON(t, []string{"static/images/a.png", "static/images/b.png"}),
		AudioPath:  "static/audio/n.mp3",
		ImageStyle: "watercolor",
	}
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	svc := NewStoryService(newTestStore(t), pub, rec)

	id, err := svc.Save(ctx, validForm(t, "  The Fox  "))
	require.NoError(t, err)

	story, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "The Fox", story.Title)
	assert.Equal(t, sixChunks(), story.Chunks)
	assert.Equal(t, []string{"static/images/a.png", "static/images/b.png"}, story.ImagePaths)
	assert.Equal(t, models.StyleWatercolor, story.ImageStyle)
	assert.Equal(t, "static/audio/n.mp3", story.AudioPath)

	assert.Equal(t, 1, rec.saved)
	require.Len(t, pub.events, 1)
	assert.Equal(t, id, pub.events[0].StoryID)
	assert.Equal(t, "fox", pub.events[0].Theme)
	assert.Equal(t, "watercolor", pub.events[0].ImageStyle)
}

func TestSave_EmptyChunksRejected(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	svc := NewStoryService(newTestStore(t), nil, rec)

	form := validForm(t, "The Fox")
	form.Chunks = "[]"
	_, err := svc.Save(ctx, form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"Story chunks missing or empty"}, verr.Problems)
	assert.Equal(t, "Validation failed: Story chunks missing or empty", err.Error())
	assert.Equal(t, 1, rec.rejected)

	stories, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestSave_ReportsEveryProblem(t *testing.T) {
	svc := NewStoryService(newTestStore(t), nil, nil)

	_, err := svc.Save(context.Background(), models.SaveStoryForm{
		Title:    " ",
		Language: "Hindi",
		Chunks:   "not json",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Story title missing", "Theme missing", "Story chunks missing or empty"}, verr.Problems)
}

func TestSave_DefaultsAndLenientLists(t *testing.T) {
	ctx := context.Background()
	svc := NewStoryService(newTestStore(t), nil, nil)

	form := validForm(t, "Single")
	form.Chunks = `"just one chunk"`
	form.ImagePaths = "undefined"
	form.ImageStyle = ""
	form.AgeGroup = ""

	id, err := svc.Save(ctx, form)
	require.NoError(t, err)

	story, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"just one chunk"}, story.Chunks)
	assert.Empty(t, story.ImagePaths)
	assert.Equal(t, models.DefaultImageStyle, story.ImageStyle)
	assert.Equal(t, models.DefaultAgeGroup, story.AgeGroup)
}

func TestSave_PublishFailureDoesNotFailSave(t *testing.T) {
	svc := NewStoryService(newTestStore(t), &fakePublisher{err: errors.New("broker down")}, nil)
	id, err := svc.Save(context.Background(), validForm(t, "The Fox"))
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewStoryService(newTestStore(t), nil, nil)

	idA, err := svc.Save(ctx, validForm(t, "A"))
	require.NoError(t, err)
	idB, err := svc.Save(ctx, validForm(t, "B"))
	require.NoError(t, err)

	stories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, idB, stories[0].ID)
	assert.Equal(t, idA, stories[1].ID)
}

func TestGet_NotFound(t *testing.T) {
	_, err := NewStoryService(newTestStore(t), nil, nil).Get(context.Background(), 999)
	assert.ErrorIs(t, err, database.ErrStoryNotFound)
}
