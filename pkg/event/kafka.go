package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
	"github.com/shashiranjanraj/appaccess/pkg/metrics"
	"github.com/shashiranjanraj/appaccess/pkg/workerpool"
)

const (
	publishTimeout = 10 * time.Second
	publishWorkers = 2
	publishQueue   = 256
)

// Envelope is the JSON document written to Kafka for every forwarded event.
type Envelope struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEnvelope stamps payload with a fresh id and the current time.
func NewEnvelope(name string, payload interface{}) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards dispatcher events to a Kafka topic. Forwarded
// events are written from a small worker pool so inserts never wait on the
// broker.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	pool   *workerpool.Pool
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: publishTimeout,
		ReadTimeout:  publishTimeout,
		RequiredAcks: kafka.RequireOne,
	}, topic)
}

func newPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		pool: workerpool.New(publishWorkers, publishQueue, workerpool.OnPanic(func(r any) {
			logger.Error("event: kafka publish panicked", "panic", r)
		})),
	}
}

// ConnectKafka returns a publisher for KAFKA_BROKERS, or nil when unset.
func ConnectKafka() *KafkaPublisher {
	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		return nil
	}
	return NewKafkaPublisher(brokers, config.KafkaTopic())
}

// Message encodes env as a keyed Kafka message.
func Message(key string, env Envelope) (kafka.Message, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("event: encode %s: %w", env.Name, err)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(env.Name)},
		},
	}, nil
}

// Publish writes one event to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	env := NewEnvelope(name, payload)
	msg, err := Message(env.ID, env)
	if err != nil {
		metrics.RecordEvent(name, err)
		return err
	}

	err = p.writer.WriteMessages(ctx, msg)
	metrics.RecordEvent(name, err)
	if err != nil {
		return fmt.Errorf("event: publish %s to %s: %w", name, p.topic, err)
	}
	return nil
}

// Forward subscribes the publisher to names. Failures, including a full
// queue, are logged and counted, never returned to the code that fired the
// event.
func (p *KafkaPublisher) Forward(names ...string) {
	if p == nil {
		return
	}
	for _, name := range names {
		name := name
		Listen(name, func(payload interface{}) {
			err := p.pool.Submit(func() {
				ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
				defer cancel()
				if err := p.Publish(ctx, name, payload); err != nil {
					logger.Warn("event: kafka publish failed", "event", name, "error", err)
				}
			})
			if err != nil {
				metrics.RecordEvent(name, err)
				logger.Warn("event: dropped", "event", name, "error", err)
			}
		})
	}
}

// Close drains queued publishes, then closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	p.pool.Shutdown()
	return p.writer.Close()
}
