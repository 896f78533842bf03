package database

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique index conflict
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique index conflict.
// GORM translates pgx and sqlite errors; lib/pq errors arrive untranslated.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
