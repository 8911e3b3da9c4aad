package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/kafka"
	"github.com/snappy-loop/storybook/internal/models"
)

// StoryService handles saving and reading stories
type StoryService struct {
	store     StoryStore
	publisher StoryPublisher
	recorder  SaveRecorder
}

// NewStoryService creates a new StoryService. publisher and recorder may be nil.
func NewStoryService(store StoryStore, publisher StoryPublisher, recorder SaveRecorder) *StoryService {
	return &StoryService{
		store:     store,
		publisher: publisher,
		recorder:  recorder,
	}
}

// Save validates a submitted story form and persists it. Validation problems
// are returned together as a *ValidationError; nothing is written in that case.
func (s *StoryService) Save(ctx context.Context, form models.SaveStoryForm) (int64, error) {
	story, err := s.parseForm(form)
	if err != nil {
		if s.recorder != nil {
			s.recorder.SaveRejected()
		}
		log.Warn().Err(err).Msg("Story save rejected")
		return 0, err
	}

	id, err := s.store.Create(ctx, story)
	if err != nil {
		return 0, fmt.Errorf("failed to save story: %w", err)
	}
	if s.recorder != nil {
		s.recorder.StorySaved()
	}

	log.Info().
		Int64("story_id", id).
		Str("theme", story.Theme).
		Str("language", string(story.Language)).
		Int("chunks", len(story.Chunks)).
		Int("images", len(story.ImagePaths)).
		Msg("Story saved")

	s.publishSaved(ctx, id, story)
	return id, nil
}

// List returns all stories, newest first.
func (s *StoryService) List(ctx context.Context) ([]*models.Story, error) {
	return s.store.List(ctx)
}

// Get returns one story; database.ErrStoryNotFound when it does not exist.
func (s *StoryService) Get(ctx context.Context, id int64) (*models.Story, error) {
	return s.store.GetByID(ctx, id)
}

func (s *StoryService) parseForm(form models.SaveStoryForm) (*models.NewStory, error) {
	title := strings.TrimSpace(form.Title)
	theme := strings.TrimSpace(form.Theme)
	language := strings.TrimSpace(form.Language)

	chunks := DecodeList(form.Chunks)
	if !chunks.OK {
		log.Warn().Int("length", len(form.Chunks)).Msg("Could not decode chunks field")
	}
	images := DecodeList(form.ImagePaths)
	if !images.OK {
		log.Warn().Int("length", len(form.ImagePaths)).Msg("Could not decode image_paths field")
	}

	var problems []string
	if title == "" {
		problems = append(problems, "Story title missing")
	}
	if theme == "" {
		problems = append(problems, "Theme missing")
	}
	if language == "" {
		problems = append(problems, "Language missing")
	}
	if len(chunks.Items) == 0 {
		problems = append(problems, "Story chunks missing or empty")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	style := models.ImageStyle(strings.TrimSpace(form.ImageStyle))
	if style == "" {
		style = models.DefaultImageStyle
	}

	return &models.NewStory{
		Title:      title,
		Theme:      theme,
		Language:   models.Language(language),
		AgeGroup:   strings.TrimSpace(form.AgeGroup),
		Chunks:     chunks.Items,
		ImagePaths: images.Items,
		AudioPath:  strings.TrimSpace(form.AudioPath),
		ImageStyle: style,
	}, nil
}

// publishSaved emits a story.saved event. Failures are logged only.
func (s *StoryService) publishSaved(ctx context.Context, id int64, story *models.NewStory) {
	if s.publisher == nil {
		return
	}
	ev := kafka.StoryEvent{
		StoryID:    id,
		Theme:      story.Theme,
		Language:   string(story.Language),
		ImageStyle: string(story.ImageStyle),
		SavedAt:    time.Now().UTC(),
	}
	if err := s.publisher.PublishStorySaved(ctx, ev); err != nil {
		log.Error().Err(err).Int64("story_id", id).Msg("Failed to publish story event")
	}
}
