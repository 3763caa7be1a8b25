package domain

import (
	"errors"
	"fmt"
	"sync"
)

// Section is an enrollable offering of a subject at a schedule in a room.
// The subject, schedule and room references never change; the enrolled
// count, assigned faculty and version do.  The embedded mutex serializes
// the check-then-increment sequence of concurrent enlistments against
// this instance; callers racing through separate copies of the same
// persisted section are serialized by the version-conditional commit in
// the repository layer instead.
type Section struct {
	id       string
	subject  *Subject
	schedule Schedule
	room     *Room
	faculty  *Faculty
	enrolled int
	version  int

	mu sync.Mutex
}

// NewSection creates a section and registers it with its room.  The id
// must be non-blank alphanumeric.  Creation fails when the room already
// hosts a section at an overlapping schedule.
func NewSection(id string, subject *Subject, schedule Schedule, room *Room) (*Section, error) {
	if !isAlphanumeric(id) {
		return nil, fmt.Errorf("sectionId must be non-blank alphanumeric, was: %q", id)
	}
	if subject == nil {
		return nil, fmt.Errorf("subject can't be nil")
	}
	if room == nil {
		return nil, fmt.Errorf("room can't be nil")
	}
	s := &Section{id: id, subject: subject, schedule: schedule, room: room}
	if err := room.AddSection(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RehydrateSection rebuilds a section from persisted state.  Unlike
// NewSection it does not re-run the room's schedule-conflict check, which
// was already enforced when the section was created, and it restores the
// enrolled count, faculty and version columns.
func RehydrateSection(id string, subject *Subject, schedule Schedule, room *Room, faculty *Faculty, enrolled, version int) (*Section, error) {
	if !isAlphanumeric(id) {
		return nil, fmt.Errorf("sectionId must be non-blank alphanumeric, was: %q", id)
	}
	if subject == nil || room == nil {
		return nil, fmt.Errorf("subject and room can't be nil")
	}
	if enrolled < 0 || enrolled > room.Capacity() {
		return nil, fmt.Errorf("enrolled count %d out of range for room capacity %d", enrolled, room.Capacity())
	}
	return &Section{
		id:       id,
		subject:  subject,
		schedule: schedule,
		room:     room,
		faculty:  faculty,
		enrolled: enrolled,
		version:  version,
	}, nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ID returns the section's identifier.
func (s *Section) ID() string { return s.id }

// Subject returns the subject taught in this section.
func (s *Section) Subject() *Subject { return s.subject }

// Schedule returns the section's meeting schedule.
func (s *Section) Schedule() Schedule { return s.schedule }

// Room returns the room hosting this section.
func (s *Section) Room() *Room { return s.room }

// Faculty returns the assigned instructor, or nil when unassigned.
func (s *Section) Faculty() *Faculty { return s.faculty }

// Enrolled returns the current headcount.
func (s *Section) Enrolled() int { return s.enrolled }

// Version returns the optimistic-concurrency counter read from storage.
func (s *Section) Version() int { return s.version }

// Equal compares sections by id.
func (s *Section) Equal(other *Section) bool {
	return other != nil && s.id == other.id
}

// CheckSameSubject fails with a *SameSubjectError when both sections
// teach the same subject.  The check is symmetric; callers invoke it once
// per candidate pair.
func (s *Section) CheckSameSubject(other *Section) error {
	if s.subject.Equal(other.subject) {
		return &SameSubjectError{
			SectionID:      s.id,
			OtherSectionID: other.id,
			SubjectCode:    s.subject.Code(),
		}
	}
	return nil
}

// CheckScheduleConflict fails with a *ScheduleConflictError when the two
// sections' schedules overlap.
func (s *Section) CheckScheduleConflict(other *Section) error {
	if s.schedule.Overlaps(other.schedule) {
		return &ScheduleConflictError{
			SectionID:      s.id,
			OtherSectionID: other.id,
			Schedule:       s.schedule,
			OtherSchedule:  other.schedule,
		}
	}
	return nil
}

// CheckPrerequisites fails with a *PrerequisiteError when the taken set
// does not cover every prerequisite of this section's subject.
func (s *Section) CheckPrerequisites(taken []*Subject) error {
	if missing := s.subject.missingPrereqs(taken); len(missing) > 0 {
		return &PrerequisiteError{
			SectionID:   s.id,
			SubjectCode: s.subject.Code(),
			Missing:     missing,
		}
	}
	return nil
}

// IncrementEnrolled bumps the headcount by one after checking the room's
// capacity against the pre-increment count.  Callers racing on the same
// instance must hold the section lock across this call.
func (s *Section) IncrementEnrolled() error {
	if err := s.room.CheckCapacity(s.enrolled); err != nil {
		var ce *CapacityError
		if errors.As(err, &ce) {
			ce.SectionID = s.id
		}
		return err
	}
	s.enrolled++
	return nil
}

// DecrementEnrolled drops the headcount by one.  There is no lower-bound
// check: a decrement only ever follows a successful increment for the
// same student, since cancelling a non-enlisted section never reaches
// this call.
func (s *Section) DecrementEnrolled() {
	s.enrolled--
}

// Lock acquires the section's exclusive lock.
func (s *Section) Lock() { s.mu.Lock() }

// Unlock releases the section's exclusive lock.  It must be called on
// every exit path of the enlist critical section.
func (s *Section) Unlock() { s.mu.Unlock() }

// AssignFaculty sets the section's instructor.  taughtBy lists the other
// sections already taught by the candidate; assignment fails with a
// *ScheduleConflictError when any of them meets at an overlapping
// schedule.  Overlap is compared by value, so two identical schedules
// always conflict.
func (s *Section) AssignFaculty(faculty *Faculty, taughtBy []*Section) error {
	if faculty == nil {
		return fmt.Errorf("faculty can't be nil")
	}
	for _, other := range taughtBy {
		if s.Equal(other) {
			continue
		}
		if err := s.CheckScheduleConflict(other); err != nil {
			return err
		}
	}
	s.faculty = faculty
	return nil
}

func (s *Section) String() string { return s.id }
