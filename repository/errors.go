package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// should not see gorm.ErrRecordNotFound directly.
var ErrNotFound = errors.New("repository: record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505), e.g. a second review for the same booking.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsExclusionViolation reports whether err is a Postgres exclusion
// constraint violation (SQLSTATE 23P01). The bookings table carries an
// exclusion constraint on the tutor's active time windows, so a concurrent
// double booking that slips past the row locks surfaces as this error.
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
