package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ErrMissingCredential is returned by Validate when a mandatory API key is absent.
var ErrMissingCredential = errors.New("missing credential")

// Provider names accepted by IMAGE_PROVIDER and SPEECH_PROVIDER.
const (
	ImageProviderClipdrop    = "clipdrop"
	ImageProviderGemini      = "gemini"
	SpeechProviderElevenLabs = "elevenlabs"
	SpeechProviderGemini     = "gemini"

	AssetStoreLocal = "local"
	AssetStoreS3    = "s3"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPAddr  string
	LogLevel  string
	SecretKey string

	// Storage
	DatabasePath string
	StaticDir    string
	AssetStore   string

	// Gemini API (text, optional image and TTS)
	GeminiAPIKey      string
	GeminiAPIEndpoint string // if set, overrides default Gemini API base URL
	GeminiModelText   string
	GeminiModelImage  string
	GeminiModelTTS    string
	GeminiTTSVoice    string

	// Image API
	ImageProvider  string
	ClipdropAPIKey string
	ClipdropAPIURL string

	// Speech API
	SpeechProvider   string
	ElevenLabsAPIKey string
	ElevenLabsAPIURL string
	ElevenLabsModel  string
	VoiceIDs         map[string]string // language -> voice id

	// Outbound HTTP timeout for image and speech calls; zero means no timeout.
	HTTPClientTimeout time.Duration

	// S3/Storage
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	// Kafka (optional story.saved events)
	KafkaBrokers      []string
	KafkaTopicStories string
}

// DefaultVoiceIDs maps each supported language to its speech voice identifier.
var DefaultVoiceIDs = map[string]string{
	"Hindi":   "pNInz6obpgDQGcFmaJgB",
	"English": "21m00Tcm4TlvDq8ikWAM",
	"Marathi": "pNInz6obpgDQGcFmaJgB",
	"Bengali": "pNInz6obpgDQGcFmaJgB",
	"Tamil":   "pNInz6obpgDQGcFmaJgB",
	"Telugu":  "pNInz6obpgDQGcFmaJgB",
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	return &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":5000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SecretKey: getEnv("SECRET_KEY", "default-secret-key"),

		DatabasePath: getEnv("DATABASE_PATH", "stories.db"),
		StaticDir:    getEnv("STATIC_DIR", "static"),
		AssetStore:   strings.ToLower(getEnv("ASSET_STORE", AssetStoreLocal)),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiAPIEndpoint: getEnv("GEMINI_API_ENDPOINT", ""),
		GeminiModelText:   getEnv("GEMINI_MODEL_TEXT", "gemini-2.0-flash"),
		GeminiModelImage:  getEnv("GEMINI_MODEL_IMAGE", "gemini-2.0-flash-preview-image-generation"),
		GeminiModelTTS:    getEnv("GEMINI_MODEL_TTS", "gemini-2.5-flash-preview-tts"),
		GeminiTTSVoice:    getEnv("GEMINI_TTS_VOICE", "Kore"),

		ImageProvider:  strings.ToLower(getEnv("IMAGE_PROVIDER", ImageProviderClipdrop)),
		ClipdropAPIKey: getEnv("CLIPDROP_API_KEY", ""),
		ClipdropAPIURL: getEnv("CLIPDROP_API_URL", "https://clipdrop-api.co/text-to-image/v1"),

		SpeechProvider:   strings.ToLower(getEnv("SPEECH_PROVIDER", SpeechProviderElevenLabs)),
		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsAPIURL: getEnv("ELEVENLABS_API_URL", "https://api.elevenlabs.io"),
		ElevenLabsModel:  getEnv("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
		VoiceIDs:         loadVoiceIDs(),

		HTTPClientTimeout: getEnvDuration("HTTP_CLIENT_TIMEOUT", 0),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		KafkaBrokers:      getEnvList("KAFKA_BROKERS"),
		KafkaTopicStories: getEnv("KAFKA_TOPIC_STORIES", "storybook.stories.v1"),
	}
}

// Validate reports every mandatory setting that is missing. The text and
// image credentials are required; the speech credential is optional.
func (c *Config) Validate() error {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	switch c.ImageProvider {
	case ImageProviderClipdrop:
		if c.ClipdropAPIKey == "" {
			missing = append(missing, "CLIPDROP_API_KEY")
		}
	case ImageProviderGemini:
	default:
		return fmt.Errorf("unknown IMAGE_PROVIDER %q", c.ImageProvider)
	}
	switch c.SpeechProvider {
	case SpeechProviderElevenLabs, SpeechProviderGemini:
	default:
		return fmt.Errorf("unknown SPEECH_PROVIDER %q", c.SpeechProvider)
	}
	switch c.AssetStore {
	case AssetStoreLocal:
	case AssetStoreS3:
		if c.S3Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown ASSET_STORE %q", c.AssetStore)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

// SpeechCredential returns the key the configured speech provider authenticates with.
func (c *Config) SpeechCredential() string {
	if c.SpeechProvider == SpeechProviderGemini {
		return c.GeminiAPIKey
	}
	return c.ElevenLabsAPIKey
}

// loadVoiceIDs starts from DefaultVoiceIDs and applies VOICE_ID_<LANGUAGE> overrides.
func loadVoiceIDs() map[string]string {
	ids := make(map[string]string, len(DefaultVoiceIDs))
	for lang, id := range DefaultVoiceIDs {
		ids[lang] = getEnv("VOICE_ID_"+strings.ToUpper(lang), id)
	}
	return ids
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
