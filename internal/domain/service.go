// Package domain defines the member and workout workflows of the fitness-center service.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"example.com/fitnesscenter/internal/events"
	"example.com/fitnesscenter/internal/observability"
	"example.com/fitnesscenter/internal/publisher"
)

const publishTimeout = 5 * time.Second

// Repository captures persistence operations for both tables.
type Repository interface {
	InsertMember(ctx context.Context, input MemberInput) (int64, error)
	// GetMember returns nil without error when the member does not exist.
	GetMember(ctx context.Context, id int64) (*Member, error)
	MemberExists(ctx context.Context, id int64) (bool, error)
	// UpdateMember and DeleteMember report whether a row was affected.
	UpdateMember(ctx context.Context, id int64, input MemberInput) (bool, error)
	DeleteMember(ctx context.Context, id int64) (bool, error)

	InsertWorkoutSession(ctx context.Context, input WorkoutInput) (int64, error)
	ListWorkoutSessions(ctx context.Context) ([]WorkoutSession, error)
	ListWorkoutSessionsForMember(ctx context.Context, memberID int64) ([]WorkoutSession, error)
}

// Service orchestrates member and workout workflows.
type Service struct {
	repo      Repository
	publisher publisher.Publisher
	logger    *slog.Logger
}

// NewService constructs a Service. A nil publisher disables event emission.
func NewService(repo Repository, pub publisher.Publisher, logger *slog.Logger) *Service {
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: pub, logger: logger.With("component", "domain")}
}

// CreateMember stores a new member and returns it with its generated id.
func (s *Service) CreateMember(ctx context.Context, input MemberInput) (Member, error) {
	id, err := s.repo.InsertMember(ctx, input)
	if err != nil {
		return Member{}, fmt.Errorf("insert member: %w", err)
	}
	member := Member{ID: id, Name: input.Name, Email: input.Email, Phone: input.Phone}
	now := time.Now().UTC()
	observability.RecordMemberPersisted(now)

	s.publish(ctx, events.New(events.TypeMemberCreated, id, events.MemberCreated{
		MemberID:   id,
		Name:       member.Name,
		Email:      member.Email,
		Phone:      member.Phone,
		OccurredAt: now,
	}))
	return member, nil
}

// GetMember fetches a member by id.
func (s *Service) GetMember(ctx context.Context, id int64) (*Member, error) {
	member, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// UpdateMember replaces the contact details of an existing member.
// Existence is checked first; an update that touches no row is also ErrMemberNotFound.
func (s *Service) UpdateMember(ctx context.Context, id int64, input MemberInput) (Member, error) {
	exists, err := s.repo.MemberExists(ctx, id)
	if err != nil {
		return Member{}, fmt.Errorf("check member %d: %w", id, err)
	}
	if !exists {
		return Member{}, ErrMemberNotFound
	}

	updated, err := s.repo.UpdateMember(ctx, id, input)
	if err != nil {
		return Member{}, fmt.Errorf("update member %d: %w", id, err)
	}
	if !updated {
		return Member{}, ErrMemberNotFound
	}
	now := time.Now().UTC()
	observability.RecordMemberPersisted(now)

	s.publish(ctx, events.New(events.TypeMemberUpdated, id, events.MemberUpdated{
		MemberID:   id,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		OccurredAt: now,
	}))
	return Member{ID: id, Name: input.Name, Email: input.Email, Phone: input.Phone}, nil
}

// DeleteMember removes an existing member. Members that still own workout sessions are
// refused by the storage layer and surface as *ConstraintError.
func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	exists, err := s.repo.MemberExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check member %d: %w", id, err)
	}
	if !exists {
		return ErrMemberNotFound
	}

	deleted, err := s.repo.DeleteMember(ctx, id)
	if err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	if !deleted {
		return ErrMemberNotFound
	}

	s.publish(ctx, events.New(events.TypeMemberDeleted, id, events.MemberDeleted{
		MemberID:   id,
		OccurredAt: time.Now().UTC(),
	}))
	return nil
}

// ScheduleWorkout stores a workout session. The member reference is not pre-checked;
// the storage layer's foreign key rejects unknown members.
func (s *Service) ScheduleWorkout(ctx context.Context, input WorkoutInput) (WorkoutSession, error) {
	input.SessionDate = input.SessionDate.UTC()
	id, err := s.repo.InsertWorkoutSession(ctx, input)
	if err != nil {
		return WorkoutSession{}, fmt.Errorf("insert workout session: %w", err)
	}
	session := WorkoutSession{
		ID:          id,
		MemberID:    input.MemberID,
		SessionDate: input.SessionDate,
		Activity:    input.Activity,
		Duration:    input.Duration,
	}
	now := time.Now().UTC()
	observability.RecordWorkoutPersisted(now)

	s.publish(ctx, events.New(events.TypeWorkoutScheduled, input.MemberID, events.WorkoutScheduled{
		SessionID:   id,
		MemberID:    session.MemberID,
		SessionDate: session.SessionDate,
		Activity:    session.Activity,
		Duration:    session.Duration,
		OccurredAt:  now,
	}))
	return session, nil
}

// ListWorkouts returns every stored workout session.
func (s *Service) ListWorkouts(ctx context.Context) ([]WorkoutSession, error) {
	sessions, err := s.repo.ListWorkoutSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	if sessions == nil {
		sessions = []WorkoutSession{}
	}
	return sessions, nil
}

// ListWorkoutsForMember returns the sessions of one member; unknown members yield an empty slice.
func (s *Service) ListWorkoutsForMember(ctx context.Context, memberID int64) ([]WorkoutSession, error) {
	sessions, err := s.repo.ListWorkoutSessionsForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list workout sessions for member %d: %w", memberID, err)
	}
	if sessions == nil {
		sessions = []WorkoutSession{}
	}
	return sessions, nil
}

// publish is best effort: the row is already committed, so failures are logged, not returned.
// The request context is detached so a client hanging up does not drop the event.
func (s *Service) publish(ctx context.Context, event events.Envelope) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			"event_type", event.Type,
			"event_id", event.ID,
			"key", event.Key,
			"error", err,
		)
	}
}
