// Package memory provides an in-process store with the same contract as the Postgres
// repository, including the unique email and member foreign key rules.
package memory

import (
	"context"
	"fmt"
	"sync"

	"example.com/fitnesscenter/internal/domain"
)

// Repository stores members and workout sessions in memory for local development and tests.
type Repository struct {
	mu            sync.RWMutex
	members       map[int64]domain.Member
	sessions      []domain.WorkoutSession
	nextMemberID  int64
	nextSessionID int64
}

// NewRepository constructs an empty Repository. Ids start at 1.
func NewRepository() *Repository {
	return &Repository{
		members:       make(map[int64]domain.Member),
		nextMemberID:  1,
		nextSessionID: 1,
	}
}

// InsertMember implements domain.Repository.
func (r *Repository) InsertMember(ctx context.Context, input domain.MemberInput) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkEmailFree(input.Email, 0); err != nil {
		return 0, err
	}

	id := r.nextMemberID
	r.nextMemberID++
	r.members[id] = domain.Member{ID: id, Name: input.Name, Email: input.Email, Phone: input.Phone}
	return id, nil
}

// GetMember implements domain.Repository.
func (r *Repository) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

// MemberExists implements domain.Repository.
func (r *Repository) MemberExists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[id]
	return ok, nil
}

// UpdateMember implements domain.Repository.
func (r *Repository) UpdateMember(ctx context.Context, id int64, input domain.MemberInput) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	if err := r.checkEmailFree(input.Email, id); err != nil {
		return false, err
	}
	r.members[id] = domain.Member{ID: id, Name: input.Name, Email: input.Email, Phone: input.Phone}
	return true, nil
}

// DeleteMember implements domain.Repository. Members still referenced by a session are kept.
func (r *Repository) DeleteMember(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	for _, s := range r.sessions {
		if s.MemberID == id {
			return false, constraintError("23503",
				`update or delete on table "members" violates foreign key constraint "workoutsessions_member_id_fkey" on table "workoutsessions"`)
		}
	}
	delete(r.members, id)
	return true, nil
}

// InsertWorkoutSession implements domain.Repository.
func (r *Repository) InsertWorkoutSession(ctx context.Context, input domain.WorkoutInput) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[input.MemberID]; !ok {
		return 0, constraintError("23503",
			`insert or update on table "workoutsessions" violates foreign key constraint "workoutsessions_member_id_fkey"`)
	}

	id := r.nextSessionID
	r.nextSessionID++
	r.sessions = append(r.sessions, domain.WorkoutSession{
		ID:          id,
		MemberID:    input.MemberID,
		SessionDate: input.SessionDate.UTC(),
		Activity:    input.Activity,
		Duration:    input.Duration,
	})
	return id, nil
}

// ListWorkoutSessions implements domain.Repository.
func (r *Repository) ListWorkoutSessions(ctx context.Context) ([]domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WorkoutSession, len(r.sessions))
	copy(out, r.sessions)
	return out, nil
}

// ListWorkoutSessionsForMember implements domain.Repository.
func (r *Repository) ListWorkoutSessionsForMember(ctx context.Context, memberID int64) ([]domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WorkoutSession, 0)
	for _, s := range r.sessions {
		if s.MemberID == memberID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repository) checkEmailFree(email string, self int64) error {
	for id, m := range r.members {
		if id != self && m.Email == email {
			return constraintError("23505", `duplicate key value violates unique constraint "members_email_key"`)
		}
	}
	return nil
}

// constraintError renders messages the way the Postgres driver does.
func constraintError(code, message string) error {
	return &domain.ConstraintError{Message: fmt.Sprintf("ERROR: %s (SQLSTATE %s)", message, code)}
}
