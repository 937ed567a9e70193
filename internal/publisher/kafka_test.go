package publisher

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/fitnesscenter/internal/events"
)

func TestPublishFramesPayloadAndRoutesByType(t *testing.T) {
	writer := &stubWriter{}
	registry := &stubRegistry{ids: map[string]int{"member_events-member.created": 17}}
	pub := newKafkaPublisher(writer, registry)

	occurred := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	event := events.Envelope{
		ID:         "evt-1",
		Type:       events.TypeMemberCreated,
		Key:        events.MemberKey(7),
		OccurredAt: occurred,
		Payload: events.MemberCreated{
			MemberID:   7,
			Name:       "Ada",
			Email:      "ada@example.com",
			Phone:      "555-0100",
			OccurredAt: occurred,
		},
	}

	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, writer.writes, 1)

	write := writer.writes[0]
	require.Equal(t, TopicMemberEvents, write.topic)
	require.Len(t, write.msgs, 1)

	msg := write.msgs[0]
	require.Equal(t, "member:7", string(msg.Key))
	require.Equal(t, byte(0), msg.Value[0])
	require.Equal(t, uint32(17), binary.BigEndian.Uint32(msg.Value[1:5]))
	require.JSONEq(t, `{"member_id":7,"name":"Ada","email":"ada@example.com","phone":"555-0100","occurred_at":"2026-03-02T09:30:00Z"}`, string(msg.Value[5:]))
	require.Equal(t, events.TypeMemberCreated, headerOf(msg, HeaderEventType))
	require.Equal(t, "evt-1", headerOf(msg, HeaderEventID))
	require.Equal(t, "member_events-member.created", headerOf(msg, HeaderSchemaSubject))
}

func TestPublishCachesSchemaIDs(t *testing.T) {
	writer := &stubWriter{}
	registry := &stubRegistry{ids: map[string]int{"workout_events-workout.scheduled": 3}}
	pub := newKafkaPublisher(writer, registry)

	for i := 0; i < 3; i++ {
		event := events.New(events.TypeWorkoutScheduled, 4, events.WorkoutScheduled{SessionID: int64(i), MemberID: 4})
		require.NoError(t, pub.Publish(context.Background(), event))
	}

	require.Equal(t, 1, registry.calls)
	require.Len(t, writer.writes, 3)
	for _, w := range writer.writes {
		require.Equal(t, TopicWorkoutEvents, w.topic)
	}
}

func TestPublishWithoutRegistryUsesSchemaZero(t *testing.T) {
	writer := &stubWriter{}
	pub := newKafkaPublisher(writer, nil)

	require.NoError(t, pub.Publish(context.Background(), events.New(events.TypeMemberDeleted, 2, events.MemberDeleted{MemberID: 2})))
	require.Equal(t, uint32(0), binary.BigEndian.Uint32(writer.writes[0].msgs[0].Value[1:5]))
}

func TestPublishRejectsUnknownEventType(t *testing.T) {
	writer := &stubWriter{}
	pub := newKafkaPublisher(writer, nil)

	err := pub.Publish(context.Background(), events.Envelope{Type: "member.renamed"})
	require.Error(t, err)
	require.Empty(t, writer.writes)
}

func TestPublishSurfacesWriterErrors(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker unavailable")}
	pub := newKafkaPublisher(writer, nil)

	err := pub.Publish(context.Background(), events.New(events.TypeMemberUpdated, 1, events.MemberUpdated{MemberID: 1}))
	require.ErrorContains(t, err, "broker unavailable")
}

func TestPublishSurfacesRegistryErrors(t *testing.T) {
	writer := &stubWriter{}
	registry := &stubRegistry{err: errors.New("registry down")}
	pub := newKafkaPublisher(writer, registry)

	err := pub.Publish(context.Background(), events.New(events.TypeMemberUpdated, 1, events.MemberUpdated{MemberID: 1}))
	require.ErrorContains(t, err, "registry down")
	require.Empty(t, writer.writes)
}

func TestCloseClosesWriter(t *testing.T) {
	writer := &stubWriter{}
	pub := newKafkaPublisher(writer, nil)

	require.NoError(t, pub.Close())
	require.True(t, writer.closed)
}

type topicWrite struct {
	topic string
	msgs  []kafka.Message
}

type stubWriter struct {
	writes []topicWrite
	err    error
	closed bool
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, topicWrite{topic: topic, msgs: msgs})
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

type stubRegistry struct {
	ids   map[string]int
	err   error
	calls int
}

func (r *stubRegistry) EnsureSchema(_ context.Context, subject, _ string) (int, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	return r.ids[subject], nil
}

func headerOf(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
