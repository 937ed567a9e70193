// Package events defines the payloads emitted when members and workout sessions change.
package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event types understood by the publisher and the event log consumer.
const (
	TypeMemberCreated    = "member.created"
	TypeMemberUpdated    = "member.updated"
	TypeMemberDeleted    = "member.deleted"
	TypeWorkoutScheduled = "workout.scheduled"
)

// Envelope wraps a payload with the metadata needed to route and deduplicate it.
type Envelope struct {
	ID         string
	Type       string
	Key        string
	OccurredAt time.Time
	Payload    any
}

// New builds an envelope keyed by member so all events for one member share a partition.
func New(eventType string, memberID int64, payload any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        MemberKey(memberID),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// MemberKey is the partition key for events about a member.
func MemberKey(memberID int64) string {
	return "member:" + strconv.FormatInt(memberID, 10)
}

// MemberCreated is emitted after a member row is inserted.
type MemberCreated struct {
	MemberID   int64     `json:"member_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MemberUpdated carries the full replacement contact details.
type MemberUpdated struct {
	MemberID   int64     `json:"member_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MemberDeleted is emitted after a member row is removed.
type MemberDeleted struct {
	MemberID   int64     `json:"member_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WorkoutScheduled is emitted after a workout session is stored.
type WorkoutScheduled struct {
	SessionID   int64     `json:"session_id"`
	MemberID    int64     `json:"member_id"`
	SessionDate time.Time `json:"session_date"`
	Activity    string    `json:"activity"`
	Duration    int       `json:"duration"`
	OccurredAt  time.Time `json:"occurred_at"`
}
