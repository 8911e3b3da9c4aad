package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// EventStorySaved is the event type published after a story is persisted.
const EventStorySaved = "story.saved"

// StoryEvent is the message value published for a saved story.
type StoryEvent struct {
	Event      string    `json:"event"`
	StoryID    int64     `json:"story_id"`
	Theme      string    `json:"theme"`
	Language   string    `json:"language"`
	ImageStyle string    `json:"image_style"`
	SavedAt    time.Time `json:"saved_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps a Kafka producer
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
	}

	log.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka producer initialized")

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishStorySaved publishes a story.saved event keyed by story id.
func (p *Producer) PublishStorySaved(ctx context.Context, ev StoryEvent) error {
	ev.Event = EventStorySaved
	if ev.SavedAt.IsZero() {
		ev.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal story event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.StoryID, 10)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	log.Info().
		Int64("story_id", ev.StoryID).
		Str("topic", p.topic).
		Msg("Story event published to Kafka")

	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	log.Info().Msg("Closing Kafka producer")
	return p.writer.Close()
}
