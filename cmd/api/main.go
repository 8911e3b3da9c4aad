package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/storybook/internal/config"
	"github.com/snappy-loop/storybook/internal/database"
	"github.com/snappy-loop/storybook/internal/handlers"
	"github.com/snappy-loop/storybook/internal/imagegen"
	"github.com/snappy-loop/storybook/internal/kafka"
	"github.com/snappy-loop/storybook/internal/llm"
	"github.com/snappy-loop/storybook/internal/metrics"
	"github.com/snappy-loop/storybook/internal/narration"
	"github.com/snappy-loop/storybook/internal/pipeline"
	"github.com/snappy-loop/storybook/internal/services"
	"github.com/snappy-loop/storybook/internal/storage"
	"github.com/snappy-loop/storybook/migrations"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Starting Storybook")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(db.SQLDB()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Local assets are always written below StaticDir so /static/ can serve them.
	localStore, err := storage.NewLocal(cfg.StaticDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare static directory")
	}
	var assets storage.Store = localStore
	if cfg.AssetStore == config.AssetStoreS3 {
		s3Client, err := storage.NewClient(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket,
			cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize storage client")
		}
		assets = s3Client
	}

	textModel, err := llm.NewModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModelText, cfg.GeminiAPIEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize text model")
	}

	renderer, closeRenderer, err := newRenderer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image renderer")
	}
	defer closeRenderer.Close()

	synth, err := newSynthesizer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize speech synthesizer")
	}

	m := metrics.New()

	pipe := pipeline.New(
		llm.NewStoryGenerator(textModel),
		imagegen.NewGenerator(llm.NewVisualDescriber(textModel), renderer, assets),
		narration.NewGenerator(synth, cfg.VoiceIDs, assets),
		m,
	)

	var publisher services.StoryPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicStories)
		defer producer.Close()
		publisher = producer
	}

	storyService := services.NewStoryService(database.NewStoryRepository(db), publisher, m)
	h := handlers.NewHandler(pipe, storyService, db, handlers.NewFlasher(cfg.SecretKey), cfg.StaticDir)

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     handlers.NewRouter(h, m.Handler()),
		ReadTimeout: 15 * time.Second,
		// Generation runs over a dozen sequential external calls in one request.
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Storybook listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down Storybook...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Storybook exited")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newRenderer builds the configured image renderer and whatever must be closed on exit.
func newRenderer(ctx context.Context, cfg *config.Config) (imagegen.Renderer, io.Closer, error) {
	if cfg.ImageProvider == config.ImageProviderGemini {
		r, err := imagegen.NewGeminiRenderer(ctx, cfg.GeminiAPIKey, cfg.GeminiModelImage, cfg.GeminiAPIEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	}
	return imagegen.NewClipdropRenderer(cfg.ClipdropAPIKey, cfg.ClipdropAPIURL, cfg.HTTPClientTimeout), nopCloser{}, nil
}

// newSynthesizer returns nil when the speech provider has no credential.
func newSynthesizer(ctx context.Context, cfg *config.Config) (narration.Synthesizer, error) {
	if cfg.SpeechCredential() == "" {
		log.Warn().Str("provider", cfg.SpeechProvider).Msg("Speech API key not found, narration will use placeholders")
		return nil, nil
	}
	if cfg.SpeechProvider == config.SpeechProviderGemini {
		return narration.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModelTTS, cfg.GeminiTTSVoice, cfg.GeminiAPIEndpoint)
	}
	return narration.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsAPIURL, cfg.ElevenLabsModel, cfg.HTTPClientTimeout), nil
}
