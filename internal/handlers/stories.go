package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/database"
	"github.com/snappy-loop/storybook/internal/models"
	"github.com/snappy-loop/storybook/internal/pipeline"
	"github.com/snappy-loop/storybook/internal/services"
)

// AgeGroups lists the age groups offered on the entry form.
var AgeGroups = []string{"3-5", "6-8", "9-12", "13-17", "18-24", "25+"}

// Handler serves the story web pages and JSON API
type Handler struct {
	generator storyGenerator
	stories   storyService
	health    healthChecker
	flash     *Flasher
	staticDir string
}

// NewHandler creates a new Handler. staticDir is the directory served under
// /static/ and the local asset root.
func NewHandler(generator storyGenerator, stories storyService, health healthChecker, flash *Flasher, staticDir string) *Handler {
	return &Handler{
		generator: generator,
		stories:   stories,
		health:    health,
		flash:     flash,
		staticDir: staticDir,
	}
}

type chapterView struct {
	Label    string
	Text     string
	ImageURL string
}

type storyView struct {
	ID               int64
	Title            string
	Theme            string
	Language         models.Language
	AgeGroup         string
	ImageStyle       models.ImageStyle
	CreatedAt        time.Time
	Chapters         []chapterView
	CoverURL         string
	AudioURL         string
	AudioPlaceholder bool
}

type pageData struct {
	Flashes     []Flash
	Languages   []models.Language
	ImageStyles []models.ImageStyle
	AgeGroups   []string
	Result      *models.GenerationResult
	Story       *storyView
	Stories     []storyView
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) pageData {
	return pageData{
		Flashes:     h.flash.Pop(w, r),
		Languages:   models.Languages,
		ImageStyles: models.ImageStyles,
		AgeGroups:   AgeGroups,
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, category, message string) {
	h.flash.Add(w, r, category, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Index renders the entry form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "index", h.page(w, r))
}

// Generate runs the pipeline and renders the result page with a save form.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, "/", FlashError, "Invalid form submission.")
		return
	}
	req := models.GenerateRequest{
		Theme:      r.PostFormValue("theme"),
		Language:   models.Language(strings.TrimSpace(r.PostFormValue("language"))),
		AgeGroup:   r.PostFormValue("age_group"),
		ImageStyle: models.ImageStyle(strings.TrimSpace(r.PostFormValue("image_style"))),
	}

	result, err := h.generator.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingField) {
			h.redirectWithFlash(w, r, "/", FlashError, "Please fill all fields.")
			return
		}
		log.Error().Err(err).Msg("Story generation failed")
		h.redirectWithFlash(w, r, "/", FlashError, "Error generating story: "+err.Error())
		return
	}

	data := h.page(w, r)
	data.Result = result
	data.Story = h.viewOf(&models.Story{
		Title:      result.Title,
		Theme:      result.Theme,
		Language:   result.Language,
		AgeGroup:   result.AgeGroup,
		ImageStyle: result.ImageStyle,
		Chunks:     result.Chunks,
		ImagePaths: result.ImagePaths,
		AudioPath:  result.AudioPath,
	})
	renderPage(w, "result", data)
}

// SaveStory persists a re-submitted generation result.
func (h *Handler) SaveStory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, "/", FlashError, "Invalid form submission.")
		return
	}
	form := models.SaveStoryForm{
		Title:      r.PostFormValue("story_title"),
		Theme:      r.PostFormValue("theme"),
		Language:   r.PostFormValue("language"),
		AgeGroup:   r.PostFormValue("age_group"),
		Chunks:     r.PostFormValue("chunks"),
		ImagePaths: r.PostFormValue("image_paths"),
		AudioPath:  r.PostFormValue("audio_path"),
		ImageStyle: r.PostFormValue("image_style"),
	}

	id, err := h.stories.Save(r.Context(), form)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.redirectWithFlash(w, r, "/", FlashError, verr.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to save story")
		h.redirectWithFlash(w, r, "/", FlashError, "Error saving story: "+err.Error())
		return
	}

	h.redirectWithFlash(w, r, "/story/"+strconv.FormatInt(id, 10), FlashSuccess, "Story saved successfully! 🎉")
}

// ListStories renders all saved stories, newest first.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.stories.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stories")
		h.redirectWithFlash(w, r, "/", FlashError, "Error loading stories")
		return
	}

	data := h.page(w, r)
	data.Stories = make([]storyView, 0, len(stories))
	for _, s := range stories {
		data.Stories = append(data.Stories, *h.viewOf(s))
	}
	renderPage(w, "stories", data)
}

// ViewStory renders one saved story.
func (h *Handler) ViewStory(w http.ResponseWriter, r *http.Request) {
	story, ok := h.lookup(w, r)
	if !ok {
		h.redirectWithFlash(w, r, "/stories", FlashError, "Story not found.")
		return
	}
	data := h.page(w, r)
	data.Story = h.viewOf(story)
	renderPage(w, "story", data)
}

// lookup loads the story named by the {id} route variable.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.Story, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, false
	}
	story, err := h.stories.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, database.ErrStoryNotFound) {
			log.Error().Err(err).Int64("story_id", id).Msg("Failed to load story")
		}
		return nil, false
	}
	return story, true
}

// APIListStories returns all saved stories as JSON.
func (h *Handler) APIListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.stories.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stories")
		writeJSONError(w, http.StatusInternalServerError, "failed to list stories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stories": stories,
		"count":   len(stories),
	})
}

// APIGetStory returns one saved story as JSON.
func (h *Handler) APIGetStory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	story, err := h.stories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrStoryNotFound) {
			writeJSONError(w, http.StatusNotFound, "story not found")
			return
		}
		log.Error().Err(err).Int64("story_id", id).Msg("Failed to load story")
		writeJSONError(w, http.StatusInternalServerError, "failed to load story")
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// Health reports database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) viewOf(s *models.Story) *storyView {
	v := &storyView{
		ID:         s.ID,
		Title:      s.Title,
		Theme:      s.Theme,
		Language:   s.Language,
		AgeGroup:   s.AgeGroup,
		ImageStyle: s.ImageStyle,
		CreatedAt:  s.CreatedAt,
		AudioURL:   h.assetURL(s.AudioPath),
	}
	if v.Title == "" {
		v.Title = s.Theme + " Story"
	}
	v.AudioPlaceholder = strings.HasSuffix(strings.ToLower(s.AudioPath), ".json")

	for i, chunk := range s.Chunks {
		ch := chapterView{
			Label: models.ChapterLabel(s.Language, i+1),
			Text:  chunk,
		}
		if i < len(s.ImagePaths) {
			ch.ImageURL = h.assetURL(s.ImagePaths[i])
		}
		v.Chapters = append(v.Chapters, ch)
	}
	for _, p := range s.ImagePaths {
		if u := h.assetURL(p); u != "" {
			v.CoverURL = u
			break
		}
	}
	return v
}

// assetURL maps a stored asset reference to a URL the browser can load.
func (h *Handler) assetURL(p string) string {
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "http://"), strings.HasPrefix(p, "https://"):
		return p
	case strings.HasPrefix(p, "s3://"):
		return ""
	}
	local := filepath.FromSlash(p)
	if rel, err := filepath.Rel(h.staticDir, local); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "/static/" + filepath.ToSlash(rel)
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean(local)), "/")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
