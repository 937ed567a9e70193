package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertEventLog = `INSERT INTO fitness_event_log
    (event_id, event_type, event_key, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (topic, partition, record_offset) DO NOTHING`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EventLogHandler appends consumed events to the fitness_event_log table.
// Redelivered records are ignored by their topic, partition and offset.
type EventLogHandler struct {
	db  execer
	now func() time.Time
}

// NewEventLogHandler constructs a handler backed by the provided pool.
func NewEventLogHandler(pool *pgxpool.Pool) *EventLogHandler {
	return newEventLogHandler(pool)
}

func newEventLogHandler(db execer) *EventLogHandler {
	return &EventLogHandler{db: db, now: time.Now}
}

// Handle stores one event.
func (h *EventLogHandler) Handle(ctx context.Context, msg Message) error {
	receivedAt := msg.Timestamp
	if receivedAt.IsZero() {
		receivedAt = h.now()
	}

	tag, err := h.db.Exec(ctx, insertEventLog,
		msg.EventID,
		msg.EventType,
		msg.Key,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		receivedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append %s to event log: %w", msg.EventType, err)
	}
	if tag.RowsAffected() == 0 {
		recordDuplicate(msg.Topic)
	}
	return nil
}
