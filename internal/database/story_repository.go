package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/models"
)

// ErrStoryNotFound is returned by GetByID when no row has the requested id.
var ErrStoryNotFound = errors.New("story not found")

// createdAtLayout is the text form created_at is selected in.
const createdAtLayout = "2006-01-02T15:04:05Z"

const storyColumns = `
	id, COALESCE(title, ''), theme, language, COALESCE(age_group, '25+'),
	chunks, image_paths, COALESCE(audio_path, ''), COALESCE(image_style, 'cartoon'),
	strftime('%Y-%m-%dT%H:%M:%SZ', created_at)`

// StoryRepository handles story-related database operations
type StoryRepository struct {
	db *DB
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create inserts a story and returns its assigned id. Chunks and image paths
// are stored as JSON-encoded arrays.
func (r *StoryRepository) Create(ctx context.Context, s *models.NewStory) (int64, error) {
	chunksJSON, err := encodeList(s.Chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to encode chunks: %w", err)
	}
	pathsJSON, err := encodeList(s.ImagePaths)
	if err != nil {
		return 0, fmt.Errorf("failed to encode image paths: %w", err)
	}

	ageGroup := s.AgeGroup
	if ageGroup == "" {
		ageGroup = models.DefaultAgeGroup
	}
	style := s.ImageStyle
	if style == "" {
		style = models.DefaultImageStyle
	}

	query := `
		INSERT INTO stories (title, theme, language, age_group, chunks, image_paths, audio_path, image_style)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		s.Title, s.Theme, string(s.Language), ageGroup,
		chunksJSON, pathsJSON, s.AudioPath, string(style),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID retrieves a story by ID
func (r *StoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = ?`

	story, err := scanStory(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return story, nil
}

// List retrieves all stories, newest first.
func (r *StoryRepository) List(ctx context.Context) ([]*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.Story, error) {
	var (
		story      models.Story
		language   string
		style      string
		chunksJSON string
		pathsJSON  string
		createdAt  sql.NullString
	)
	err := row.Scan(
		&story.ID, &story.Title, &story.Theme, &language, &story.AgeGroup,
		&chunksJSON, &pathsJSON, &story.AudioPath, &style, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	story.Language = models.Language(language)
	story.ImageStyle = models.ImageStyle(style)

	// A corrupt blob in either column empties both lists rather than failing the read.
	chunks, errChunks := decodeList(chunksJSON)
	paths, errPaths := decodeList(pathsJSON)
	if errChunks != nil || errPaths != nil {
		log.Warn().Int64("story_id", story.ID).Msg("Stored story lists are not valid JSON arrays")
		chunks, paths = []string{}, []string{}
	}
	story.Chunks = chunks
	story.ImagePaths = paths

	if createdAt.Valid {
		if t, err := time.Parse(createdAtLayout, createdAt.String); err == nil {
			story.CreatedAt = t
		}
	}
	return &story, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func decodeList(raw string) ([]string, error) {
	items := []string{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
