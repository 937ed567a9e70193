package api

import (
	"time"

	"example.com/fitnesscenter/internal/domain"
)

// MemberView is the wire form of a member: id, name, email, phone.
type MemberView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// WorkoutSessionView is the wire form of a session: id, member_id, session_date, activity, duration.
type WorkoutSessionView struct {
	ID          int64     `json:"id"`
	MemberID    int64     `json:"member_id"`
	SessionDate time.Time `json:"session_date"`
	Activity    string    `json:"activity"`
	Duration    int       `json:"duration"`
}

// MessageResponse acknowledges a mutation. ID is set for creates.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

func toMemberView(m domain.Member) MemberView {
	return MemberView{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone}
}

func toWorkoutSessionViews(sessions []domain.WorkoutSession) []WorkoutSessionView {
	views := make([]WorkoutSessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, WorkoutSessionView{
			ID:          s.ID,
			MemberID:    s.MemberID,
			SessionDate: s.SessionDate.UTC(),
			Activity:    s.Activity,
			Duration:    s.Duration,
		})
	}
	return views
}
