package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"example.com/fitnesscenter/internal/domain"
)

// InsertMember stores a member and returns the generated id.
func (r *Repository) InsertMember(ctx context.Context, input domain.MemberInput) (int64, error) {
	const stmt = `INSERT INTO Members (name, email, phone) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, stmt, input.Name, input.Email, input.Phone).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// GetMember retrieves a member by id, returning nil when absent.
func (r *Repository) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `SELECT id, name, email, phone FROM Members WHERE id = $1`

	var member domain.Member
	err := r.pool.QueryRow(ctx, query, id).Scan(&member.ID, &member.Name, &member.Email, &member.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return &member, nil
}

// MemberExists reports whether a member row with id is present.
func (r *Repository) MemberExists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM Members WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, classify(err)
	}
	return exists, nil
}

// UpdateMember overwrites name, email and phone, reporting whether a row changed.
func (r *Repository) UpdateMember(ctx context.Context, id int64, input domain.MemberInput) (bool, error) {
	const stmt = `UPDATE Members SET name = $1, email = $2, phone = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, stmt, input.Name, input.Email, input.Phone, id)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteMember removes a member, reporting whether a row was deleted.
func (r *Repository) DeleteMember(ctx context.Context, id int64) (bool, error) {
	const stmt = `DELETE FROM Members WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, id)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() > 0, nil
}
