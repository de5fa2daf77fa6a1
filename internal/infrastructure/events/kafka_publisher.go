package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/infrastructure/observability"
)

// ActivityEvent is the payload written to the activity topic.
type ActivityEvent struct {
	EventType    string         `json:"event_type"`
	ActivityID   string         `json:"activity_id"`
	PlantID      *string        `json:"plant_id,omitempty"`
	ActivityType activity.Type  `json:"activity_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits activity log entries to Kafka.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    zerolog.Logger
}

var _ activity.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher returns an asynchronous publisher: PublishActivity only
// enqueues, and delivery failures are reported by onDelivered.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		topic: topic,
		log:   log.With().Str("component", "kafka-publisher").Logger(),
	}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireOne,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.onDelivered,
	}
	return p
}

func (p *KafkaPublisher) PublishActivity(ctx context.Context, entry *activity.Entry) error {
	ctx, span := observability.StartSpan(ctx, "kafka.PublishActivity")
	defer span.End()

	msg, err := p.message(entry)
	if err != nil {
		metrics.RecordPublishError()
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.RecordPublishError()
		observability.RecordError(ctx, err)
		return fmt.Errorf("publish activity %s: %w", entry.ID, err)
	}

	p.log.Debug().
		Str("activity_id", entry.ID).
		Str("activity_type", string(entry.ActivityType)).
		Msg("published activity event")
	return nil
}

func (p *KafkaPublisher) onDelivered(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	metrics.RecordPublishError()
	for _, msg := range msgs {
		p.log.Warn().
			Err(err).
			Str("topic", msg.Topic).
			Str("key", string(msg.Key)).
			Msg("activity event not delivered")
	}
}

func (p *KafkaPublisher) message(entry *activity.Entry) (kafka.Message, error) {
	event := ActivityEvent{
		EventType:    "activity.logged",
		ActivityID:   entry.ID,
		PlantID:      entry.PlantID,
		ActivityType: entry.ActivityType,
		Description:  entry.Description,
		Metadata:     entry.Metadata,
		OccurredAt:   entry.CreatedAt.UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode activity event: %w", err)
	}

	// Keyed by plant so a plant's events stay ordered on one partition.
	key := entry.ID
	if entry.PlantID != nil {
		key = *entry.PlantID
	}
	return kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "activity_type", Value: []byte(entry.ActivityType)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
