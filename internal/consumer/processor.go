// Package consumer reads member and workout events from Kafka and hands them to a Handler.
package consumer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/fitnesscenter/internal/publisher"
)

const defaultRetryBackoff = time.Second

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of a record written by the event publisher.
type Message struct {
	Topic         string
	Partition     int
	Offset        int64
	Timestamp     time.Time
	Key           string
	EventType     string
	EventID       string
	SchemaSubject string
	SchemaID      int
	Payload       json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRetryBackoff sets the pause after a failed fetch or a failed handler call.
func WithRetryBackoff(d time.Duration) Option {
	return func(p *Processor) {
		p.retryBackoff = d
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader       Reader
	handler      Handler
	logger       *slog.Logger
	retryBackoff time.Duration
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:       reader,
		handler:      handler,
		logger:       slog.Default(),
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "consumer")
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context is cancelled.
// Malformed records are committed and skipped. A handler failure is retried on the
// same record until it succeeds, so no later offset is committed past it.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Warn("fetch failed", "error", err)
			if !p.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		event, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.Error("decode failed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", decodeErr,
			)
			recordDecodeError(msg.Topic)
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Error("commit after decode failure failed", "error", commitErr)
			}
			continue
		}

		if err := p.handle(ctx, event); err != nil {
			return err
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.Error("commit failed", "offset", msg.Offset, "error", commitErr)
		} else {
			recordProcessed(event)
		}
	}
}

// handle calls the handler until it succeeds. It only returns the context error.
func (p *Processor) handle(ctx context.Context, event Message) error {
	for attempt := 1; ; attempt++ {
		err := p.handler.Handle(ctx, event)
		if err == nil {
			return nil
		}
		p.logger.Error("handler failed",
			"event_type", event.EventType,
			"event_id", event.EventID,
			"key", event.Key,
			"offset", event.Offset,
			"attempt", attempt,
			"error", err,
		)
		recordHandlerError(event)
		if !p.sleep(ctx) {
			return ctx.Err()
		}
	}
}

func (p *Processor) sleep(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.retryBackoff <= 0 {
		return true
	}
	timer := time.NewTimer(p.retryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func decodeMessage(msg kafka.Message) (Message, error) {
	if len(msg.Value) < 5 {
		return Message{}, fmt.Errorf("invalid payload length: %d", len(msg.Value))
	}
	if msg.Value[0] != 0 {
		return Message{}, fmt.Errorf("unknown magic byte: %d", msg.Value[0])
	}

	eventType, ok := headerValue(msg, publisher.HeaderEventType)
	if !ok || len(eventType) == 0 {
		return Message{}, errors.New("missing event_type header")
	}
	eventID, _ := headerValue(msg, publisher.HeaderEventID)
	schemaSubject, _ := headerValue(msg, publisher.HeaderSchemaSubject)

	payload := msg.Value[5:]
	if !json.Valid(payload) {
		return Message{}, errors.New("payload is not valid JSON")
	}

	return Message{
		Topic:         msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Timestamp:     msg.Time,
		Key:           string(msg.Key),
		EventType:     string(eventType),
		EventID:       string(eventID),
		SchemaSubject: string(schemaSubject),
		SchemaID:      int(binary.BigEndian.Uint32(msg.Value[1:5])),
		Payload:       json.RawMessage(append([]byte(nil), payload...)),
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
