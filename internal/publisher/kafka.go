package publisher

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/fitnesscenter/internal/events"
)

// Header keys set on every record.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderSchemaSubject = "schema_subject"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
	Close() error
}

type schemaRegistrar interface {
	EnsureSchema(context.Context, string, string) (int, error)
}

// KafkaPublisher frames events in the Schema Registry wire format and writes them to Kafka.
type KafkaPublisher struct {
	writer        messageWriter
	registry      schemaRegistrar
	schemaIDCache sync.Map
}

// NewKafkaPublisher builds a publisher for brokers. An empty registryURL frames
// records with schema id 0.
func NewKafkaPublisher(brokers []string, registryURL string) *KafkaPublisher {
	var registry schemaRegistrar
	if registryURL != "" {
		registry = NewSchemaRegistryClient(registryURL)
	}
	return newKafkaPublisher(newTopicWriters(brokers), registry)
}

func newKafkaPublisher(writer messageWriter, registry schemaRegistrar) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, registry: registry}
}

// Publish writes one event to the topic its type is routed to.
func (p *KafkaPublisher) Publish(ctx context.Context, event events.Envelope) error {
	start := time.Now()

	route, ok := RouteFor(event.Type)
	if !ok {
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.Type, err)
	}

	schemaID, err := p.schemaID(ctx, route)
	if err != nil {
		recordFailed(route.Topic, event.Type)
		return fmt.Errorf("resolve schema %s: %w", route.SchemaSubject, err)
	}

	record := kafka.Message{
		Key:   []byte(event.Key),
		Value: encodeWireFormat(schemaID, payload),
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderEventID, Value: []byte(event.ID)},
			{Key: HeaderSchemaSubject, Value: []byte(route.SchemaSubject)},
		},
	}

	if err := p.writer.WriteMessages(ctx, route.Topic, record); err != nil {
		recordFailed(route.Topic, event.Type)
		return fmt.Errorf("write %s to %s: %w", event.Type, route.Topic, err)
	}

	recordPublished(route.Topic, event.Type, time.Since(start))
	return nil
}

// Close releases the underlying writers.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) schemaID(ctx context.Context, route Route) (int, error) {
	if p.registry == nil {
		return 0, nil
	}
	if cached, ok := p.schemaIDCache.Load(route.SchemaSubject); ok {
		return cached.(int), nil
	}
	id, err := p.registry.EnsureSchema(ctx, route.SchemaSubject, route.Schema)
	if err != nil {
		return 0, err
	}
	p.schemaIDCache.Store(route.SchemaSubject, id)
	return id, nil
}

// encodeWireFormat applies Confluent framing: magic byte 0, big-endian schema id, payload.
func encodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}

// topicWriters lazily manages one kafka.Writer per topic.
type topicWriters struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func newTopicWriters(brokers []string) *topicWriters {
	return &topicWriters{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func (t *topicWriters) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	return t.writerForTopic(topic).WriteMessages(ctx, msgs...)
}

func (t *topicWriters) writerForTopic(topic string) *kafka.Writer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if writer, ok := t.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(t.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	t.writers[topic] = writer
	return writer
}

func (t *topicWriters) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for topic, writer := range t.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(t.writers, topic)
	}
	return firstErr
}
