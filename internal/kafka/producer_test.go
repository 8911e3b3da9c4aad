package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishStorySaved(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, topic: "storybook.stories.v1"}

	savedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := p.PublishStorySaved(context.Background(), StoryEvent{
		StoryID: 42, Theme: "fox", Language: "Hindi", ImageStyle: "anime", SavedAt: savedAt,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var ev StoryEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, EventStorySaved, ev.Event)
	assert.Equal(t, int64(42), ev.StoryID)
	assert.Equal(t, "fox", ev.Theme)
	assert.Equal(t, "Hindi", ev.Language)
	assert.Equal(t, "anime", ev.ImageStyle)
	assert.True(t, savedAt.Equal(ev.SavedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishStorySaved_WriteError(t *testing.T) {
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}, topic: "t"}
	err := p.PublishStorySaved(context.Background(), StoryEvent{StoryID: 1})
	assert.ErrorContains(t, err, "broker down")
}
