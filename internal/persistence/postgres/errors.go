package postgres

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"example.com/fitnesscenter/internal/domain"
)

// SQLSTATE classes that mean the row itself was rejected.
const (
	sqlStateClassDataException      = "22"
	sqlStateClassIntegrityViolation = "23"
)

// classify maps driver errors onto the domain taxonomy. Unknown errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case sqlStateClassDataException, sqlStateClassIntegrityViolation:
				return &domain.ConstraintError{Message: pgErr.Error(), Err: err}
			}
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr *net.OpError
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return &domain.ConnectionError{Err: err}
	}
	return err
}
