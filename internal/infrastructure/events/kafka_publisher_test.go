package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/domain/activity"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher_PublishActivity(t *testing.T) {
	writer := &recordingWriter{}
	pub := &KafkaPublisher{writer: writer, topic: "roottrack.activity", log: zerolog.Nop()}
	plantID := "6f7c8b55-5b0e-4c5c-9d7e-0a9b0a1c2d3e"

	err := pub.PublishActivity(context.Background(), &activity.Entry{
		ID:           "a1",
		PlantID:      &plantID,
		ActivityType: activity.TypeWater,
		Description:  "Watered to 80% capacity",
		Metadata:     map[string]any{"water_level": 80},
		CreatedAt:    time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	assert.Equal(t, "roottrack.activity", msg.Topic)
	assert.Equal(t, plantID, string(msg.Key))

	var event ActivityEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "activity.logged", event.EventType)
	assert.Equal(t, activity.TypeWater, event.ActivityType)
	assert.Equal(t, "Watered to 80% capacity", event.Description)
	assert.EqualValues(t, 80, event.Metadata["water_level"])
}

func TestKafkaPublisher_KeysByActivityWithoutPlant(t *testing.T) {
	writer := &recordingWriter{}
	pub := &KafkaPublisher{writer: writer, topic: "t", log: zerolog.Nop()}

	require.NoError(t, pub.PublishActivity(context.Background(), &activity.Entry{ID: "a2", ActivityType: activity.TypeNote, Description: "n"}))
	assert.Equal(t, "a2", string(writer.msgs[0].Key))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	pub := &KafkaPublisher{writer: &recordingWriter{err: errors.New("broker down")}, topic: "t", log: zerolog.Nop()}

	err := pub.PublishActivity(context.Background(), &activity.Entry{ID: "a3", ActivityType: activity.TypeNote, Description: "n"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher_DoesNotBlockCallers(t *testing.T) {
	pub := NewKafkaPublisher([]string{"127.0.0.1:1"}, "roottrack.activity", zerolog.Nop())
	t.Cleanup(func() { _ = pub.Close() })

	writer, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, writer.Async)
	assert.NotNil(t, writer.Completion)

	start := time.Now()
	err := pub.PublishActivity(context.Background(), &activity.Entry{ID: "a4", ActivityType: activity.TypeNote, Description: "n"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestKafkaPublisher_OnDeliveredLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	pub := &KafkaPublisher{topic: "t", log: zerolog.New(&buf)}

	pub.onDelivered([]kafka.Message{{Topic: "t", Key: []byte("plant-1")}}, nil)
	assert.Empty(t, buf.String())

	pub.onDelivered([]kafka.Message{{Topic: "t", Key: []byte("plant-1")}}, errors.New("broker down"))
	assert.Contains(t, buf.String(), "activity event not delivered")
	assert.Contains(t, buf.String(), "plant-1")
}
