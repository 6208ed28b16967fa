package devapi

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrInvalidStatus = errors.New("invalid booking status")
	ErrInvalidLogin  = errors.New("invalid email or password")
)

// StatusError carries the status a booking was in when a transition was refused.
type StatusError struct {
	Action string
	Status string
}

func (e *StatusError) Error() string {
	return "Booking cannot be " + e.Action + " in status " + e.Status
}

func (e *StatusError) Unwrap() error { return ErrInvalidStatus }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// uniqueViolation maps duplicate keys from PostgreSQL and SQLite to ErrConflict.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrConflict
	}
	return err
}
