// Package postgres provides PostgreSQL-backed persistence for members and workout sessions.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements domain.Repository on a connection pool. Every call acquires
// its own connection, so concurrent requests never share a cursor.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return classify(r.pool.Ping(ctx))
}
