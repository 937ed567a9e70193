package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeysByMember(t *testing.T) {
	first := New(TypeWorkoutScheduled, 12, WorkoutScheduled{SessionID: 3, MemberID: 12})
	second := New(TypeWorkoutScheduled, 12, WorkoutScheduled{SessionID: 4, MemberID: 12})

	assert.Equal(t, "member:12", first.Key)
	assert.Equal(t, first.Key, second.Key)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, time.UTC, first.OccurredAt.Location())
}

func TestWorkoutScheduledWireNames(t *testing.T) {
	raw, err := json.Marshal(WorkoutScheduled{
		SessionID:   3,
		MemberID:    12,
		SessionDate: time.Date(2026, time.January, 5, 6, 0, 0, 0, time.UTC),
		Activity:    "swim",
		Duration:    40,
		OccurredAt:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":3,"member_id":12,"session_date":"2026-01-05T06:00:00Z","activity":"swim","duration":40,"occurred_at":"2026-01-01T00:00:00Z"}`, string(raw))
}
