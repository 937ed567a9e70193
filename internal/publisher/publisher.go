// Package publisher delivers member and workout events to Kafka.
package publisher

import (
	"context"

	"example.com/fitnesscenter/internal/events"
)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, event events.Envelope) error
	Close() error
}

// NoopPublisher drops every event. It is used when no brokers are configured.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, events.Envelope) error { return nil }

// Close performs no action.
func (NoopPublisher) Close() error { return nil }

// Route describes where an event type is written and which schema frames it.
type Route struct {
	Topic         string
	SchemaSubject string
	Schema        string
}

const (
	// TopicMemberEvents carries member lifecycle events.
	TopicMemberEvents = "member_events"
	// TopicWorkoutEvents carries workout scheduling events.
	TopicWorkoutEvents = "workout_events"
)

var catalog = map[string]Route{
	events.TypeMemberCreated: {
		Topic:         TopicMemberEvents,
		SchemaSubject: "member_events-member.created",
		Schema:        memberCreatedSchema,
	},
	events.TypeMemberUpdated: {
		Topic:         TopicMemberEvents,
		SchemaSubject: "member_events-member.updated",
		Schema:        memberUpdatedSchema,
	},
	events.TypeMemberDeleted: {
		Topic:         TopicMemberEvents,
		SchemaSubject: "member_events-member.deleted",
		Schema:        memberDeletedSchema,
	},
	events.TypeWorkoutScheduled: {
		Topic:         TopicWorkoutEvents,
		SchemaSubject: "workout_events-workout.scheduled",
		Schema:        workoutScheduledSchema,
	},
}

// RouteFor looks up the route of an event type.
func RouteFor(eventType string) (Route, bool) {
	route, ok := catalog[eventType]
	return route, ok
}
