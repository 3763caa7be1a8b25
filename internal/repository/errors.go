// Package repository contains the database/sql data access layer.  This
// file defines sentinel errors shared across repositories so that the
// service and handler layers can distinguish failure scenarios.  Lookup
// failures are fatal for a request; ErrVersionConflict is the one
// transient error, recovered by the enlistment retry loop.
package repository

import (
	"errors"
	"strings"
)

// ErrSectionNotFound is returned when no section exists for an id.
var ErrSectionNotFound = errors.New("section not found")

// ErrStudentNotFound is returned when no student exists for a number.
var ErrStudentNotFound = errors.New("student not found")

// ErrSubjectNotFound is returned when no subject exists for a code.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrRoomNotFound is returned when no room exists for a name.
var ErrRoomNotFound = errors.New("room not found")

// ErrFacultyNotFound is returned when no faculty exists for a number.
var ErrFacultyNotFound = errors.New("faculty not found")

// ErrVersionConflict is returned by SectionRepo.SaveTx when the section's
// version advanced since it was read, meaning another transaction
// committed first.  Callers roll back and retry the whole operation.
var ErrVersionConflict = errors.New("section version conflict")

// ErrAlreadyExists is returned by Create methods when a row with the same
// identity is already present.
var ErrAlreadyExists = errors.New("already exists")

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
