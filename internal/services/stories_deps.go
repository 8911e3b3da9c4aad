package services

import (
	"context"

	"github.com/snappy-loop/storybook/internal/kafka"
	"github.com/snappy-loop/storybook/internal/models"
)

// StoryStore is the subset of story DB operations used by StoryService.
type StoryStore interface {
	Create(ctx context.Context, story *models.NewStory) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	List(ctx context.Context) ([]*models.Story, error)
}

// StoryPublisher publishes story events (e.g. to Kafka). May be nil to skip publishing.
type StoryPublisher interface {
	PublishStorySaved(ctx context.Context, ev kafka.StoryEvent) error
}

// SaveRecorder counts save outcomes. May be nil.
type SaveRecorder interface {
	StorySaved()
	SaveRejected()
}
