// Package domain contains the enlistment core: the value types (Subject,
// Schedule, Room), the mutable entities (Section, Student) and the
// validation rules that guard every enlist/cancel operation.  The package
// performs no I/O; persistence and HTTP concerns live in the surrounding
// layers.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRetryExhausted is returned by callers that retry an enlistment after
// repeated commit conflicts and give up.  It deliberately carries no
// section or subject detail: its cause is contention, not invalid input,
// so the user-facing message is a generic "try again".
var ErrRetryExhausted = errors.New("enlistment could not be completed due to concurrent updates, please try again")

// SameSubjectError reports an attempt to enlist in two sections of the
// same subject.  Both section ids and the shared subject code are kept so
// handlers can render a specific message.
type SameSubjectError struct {
	SectionID      string
	OtherSectionID string
	SubjectCode    string
}

func (e *SameSubjectError) Error() string {
	return fmt.Sprintf("section %s and section %s have the same subject %s",
		e.SectionID, e.OtherSectionID, e.SubjectCode)
}

// ScheduleConflictError reports two schedules that share a day and whose
// periods overlap.  It is produced both by student-side enlistment checks
// and by room/faculty assignment checks, so OtherSectionID may name a
// section held by a different owner than SectionID.
type ScheduleConflictError struct {
	SectionID      string
	OtherSectionID string
	Schedule       Schedule
	OtherSchedule  Schedule
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("section %s at %s conflicts with section %s at %s",
		e.SectionID, e.Schedule, e.OtherSectionID, e.OtherSchedule)
}

// PrerequisiteError reports enlistment in a section whose subject has
// prerequisites the student has not taken.  Missing lists only the codes
// absent from the student's taken set.
type PrerequisiteError struct {
	SectionID   string
	SubjectCode string
	Missing     []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("section %s requires prerequisites not yet taken: %s",
		e.SectionID, strings.Join(e.Missing, ", "))
}

// CapacityError reports that a section's room is full.  Enrolled is the
// headcount observed at check time, which equals Capacity.
type CapacityError struct {
	SectionID string
	RoomName  string
	Capacity  int
	Enrolled  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("section %s is at room %s capacity of %d",
		e.SectionID, e.RoomName, e.Capacity)
}
