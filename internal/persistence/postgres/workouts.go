package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/fitnesscenter/internal/domain"
)

const workoutColumns = `id, member_id, session_date, activity, duration`

// InsertWorkoutSession stores a session and returns the generated id.
func (r *Repository) InsertWorkoutSession(ctx context.Context, input domain.WorkoutInput) (int64, error) {
	const stmt = `INSERT INTO WorkoutSessions (member_id, session_date, activity, duration)
        VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, stmt, input.MemberID, input.SessionDate, input.Activity, input.Duration).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// ListWorkoutSessions returns the whole table in insertion order.
func (r *Repository) ListWorkoutSessions(ctx context.Context) ([]domain.WorkoutSession, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workoutColumns+` FROM WorkoutSessions ORDER BY id`)
	if err != nil {
		return nil, classify(err)
	}
	return scanWorkoutSessions(rows)
}

// ListWorkoutSessionsForMember returns one member's sessions in insertion order.
func (r *Repository) ListWorkoutSessionsForMember(ctx context.Context, memberID int64) ([]domain.WorkoutSession, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workoutColumns+` FROM WorkoutSessions WHERE member_id = $1 ORDER BY id`, memberID)
	if err != nil {
		return nil, classify(err)
	}
	return scanWorkoutSessions(rows)
}

func scanWorkoutSessions(rows pgx.Rows) ([]domain.WorkoutSession, error) {
	defer rows.Close()

	sessions := make([]domain.WorkoutSession, 0)
	for rows.Next() {
		var s domain.WorkoutSession
		if err := rows.Scan(&s.ID, &s.MemberID, &s.SessionDate, &s.Activity, &s.Duration); err != nil {
			return nil, classify(err)
		}
		s.SessionDate = s.SessionDate.UTC()
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return sessions, nil
}
