package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyError reports unique constraint violations from postgres and
// sqlite, translated or not.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "23503") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "violates check constraint") ||
		strings.Contains(msg, "23514") ||
		strings.Contains(msg, "CHECK constraint failed")
}
