package models

import (
	"fmt"
	"time"
)

// ChunksPerStory is the fixed number of narrative chunks in every generated story.
const ChunksPerStory = 6

// Language is one of the supported story languages.
type Language string

const (
	LanguageHindi   Language = "Hindi"
	LanguageEnglish Language = "English"
	LanguageMarathi Language = "Marathi"
	LanguageBengali Language = "Bengali"
	LanguageTamil   Language = "Tamil"
	LanguageTelugu  Language = "Telugu"
)

// Languages lists the supported languages in form order.
var Languages = []Language{
	LanguageHindi, LanguageEnglish, LanguageMarathi,
	LanguageBengali, LanguageTamil, LanguageTelugu,
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}

// ImageStyle is the visual style tag applied to generated illustrations.
type ImageStyle string

const (
	StyleCartoon     ImageStyle = "cartoon"
	StyleComic       ImageStyle = "comic"
	StyleAnime       ImageStyle = "anime"
	StyleRealistic   ImageStyle = "realistic"
	StyleWatercolor  ImageStyle = "watercolor"
	StyleOilPainting ImageStyle = "oil_painting"
)

// DefaultImageStyle is used when a request or an older record has no style.
const DefaultImageStyle = StyleCartoon

// DefaultAgeGroup is the age group assumed for records saved before the column existed.
const DefaultAgeGroup = "25+"

// ImageStyles lists the supported styles in form order.
var ImageStyles = []ImageStyle{
	StyleCartoon, StyleComic, StyleAnime,
	StyleRealistic, StyleWatercolor, StyleOilPainting,
}

// Story is a persisted, immutable generated story.
type Story struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Theme      string     `json:"theme"`
	Language   Language   `json:"language"`
	AgeGroup   string     `json:"age_group"`
	Chunks     []string   `json:"chunks"`
	ImagePaths []string   `json:"image_paths"`
	AudioPath  string     `json:"audio_path"`
	ImageStyle ImageStyle `json:"image_style"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewStory is the input for inserting a story; ID and CreatedAt are assigned by the store.
type NewStory struct {
	Title      string
	Theme      string
	Language   Language
	AgeGroup   string
	Chunks     []string
	ImagePaths []string
	AudioPath  string
	ImageStyle ImageStyle
}

// GenerateRequest carries the entry-form fields of a generation request.
type GenerateRequest struct {
	Theme      string
	Language   Language
	AgeGroup   string
	ImageStyle ImageStyle
}

// GenerationResult is the display payload produced by one pipeline run.
type GenerationResult struct {
	Title      string
	Theme      string
	Language   Language
	AgeGroup   string
	ImageStyle ImageStyle
	Chunks     []string
	ImagePaths []string
	AudioPath  string
}

// SaveStoryForm is the raw form submission of a save request. Chunks and
// ImagePaths hold JSON-encoded text exactly as submitted.
type SaveStoryForm struct {
	Title      string
	Theme      string
	Language   string
	AgeGroup   string
	Chunks     string
	ImagePaths string
	AudioPath  string
	ImageStyle string
}

var chapterWords = map[Language]string{
	LanguageHindi:   "अध्याय",
	LanguageEnglish: "Chapter",
	LanguageMarathi: "प्रकरण",
	LanguageBengali: "অধ্যায়",
	LanguageTamil:   "அத்தியாயம்",
	LanguageTelugu:  "అధ్యాయం",
}

// ChapterLabel returns the localised "Chapter n" heading, English for unknown languages.
func ChapterLabel(lang Language, n int) string {
	word, ok := chapterWords[lang]
	if !ok {
		word = chapterWords[LanguageEnglish]
	}
	return fmt.Sprintf("%s %d", word, n)
}
