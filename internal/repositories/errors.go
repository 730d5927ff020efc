package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a create would violate a uniqueness
	// guarantee (email on users, (exam_id, student_id) on enrollments).
	ErrDuplicate = errors.New("record already exists")
)

// IsNotFoundError reports whether err represents a missing record from
// either backend.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err represents a uniqueness violation.
// The postgres backend relies on gorm's error translation to surface unique
// index violations as gorm.ErrDuplicatedKey.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
