package handlers

import (
	"context"

	"github.com/snappy-loop/storybook/internal/models"
)

// storyGenerator runs the generation pipeline for one request.
type storyGenerator interface {
	Run(ctx context.Context, req models.GenerateRequest) (*models.GenerationResult, error)
}

// storyService is the subset of services.StoryService used by Handler.
type storyService interface {
	Save(ctx context.Context, form models.SaveStoryForm) (int64, error)
	List(ctx context.Context) ([]*models.Story, error)
	Get(ctx context.Context, id int64) (*models.Story, error)
}

// healthChecker reports whether the story database is reachable.
type healthChecker interface {
	Health() error
}
