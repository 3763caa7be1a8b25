package domain

import "fmt"

// Student is a learner with a set of currently-enlisted sections and an
// immutable set of previously-taken subjects.  All mutations of the
// enlisted set go through Enlist and Cancel on the owning Student; no
// other type touches it.
type Student struct {
	number    int
	firstName string
	lastName  string
	sections  []*Section
	taken     []*Subject
}

// NewStudent creates a student.  The student number must be positive.
// sections seeds the currently-enlisted set and taken the subjects
// already completed; either may be nil.
func NewStudent(number int, firstName, lastName string, sections []*Section, taken []*Subject) (*Student, error) {
	if number <= 0 {
		return nil, fmt.Errorf("studentNumber must be positive, was: %d", number)
	}
	s := &Student{number: number, firstName: firstName, lastName: lastName}
	s.sections = append(s.sections, sections...)
	s.taken = append(s.taken, taken...)
	return s, nil
}

// Number returns the identifying student number.
func (s *Student) Number() int { return s.number }

// FirstName returns the student's first name.
func (s *Student) FirstName() string { return s.firstName }

// LastName returns the student's last name.
func (s *Student) LastName() string { return s.lastName }

// Sections returns a copy of the currently-enlisted sections in stable
// enlistment order.
func (s *Student) Sections() []*Section {
	out := make([]*Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// TakenSubjects returns the subjects the student has already completed.
// The returned slice must not be modified.
func (s *Student) TakenSubjects() []*Subject { return s.taken }

// IsEnlistedIn reports whether the student currently holds the section.
func (s *Student) IsEnlistedIn(section *Section) bool {
	return s.indexOf(section) >= 0
}

func (s *Student) indexOf(section *Section) int {
	for i, enlisted := range s.sections {
		if enlisted.Equal(section) {
			return i
		}
	}
	return -1
}

// Enlist adds the student to the section's roster.  Subject, schedule and
// prerequisite checks run lock-free against already-committed state and
// abort before any mutation.  The capacity check and increment then run
// under the section's exclusive lock so that concurrent enlisters
// serialize on this section; the student's set is only mutated after the
// increment succeeds, keeping headcount equal to the number of students
// holding the section at every observable point.
func (s *Student) Enlist(section *Section) error {
	for _, enlisted := range s.sections {
		if err := section.CheckSameSubject(enlisted); err != nil {
			return err
		}
		if err := section.CheckScheduleConflict(enlisted); err != nil {
			return err
		}
	}
	if err := section.CheckPrerequisites(s.taken); err != nil {
		return err
	}
	section.Lock()
	defer section.Unlock()
	if err := section.IncrementEnrolled(); err != nil {
		return err
	}
	s.sections = append(s.sections, section)
	return nil
}

// Cancel removes the student from the section's roster.  Cancelling a
// section the student is not enlisted in is a no-op: no state changes,
// no error.  The removal and decrement happen together under the section
// lock so the roster and headcount never disagree.
func (s *Student) Cancel(section *Section) {
	idx := s.indexOf(section)
	if idx < 0 {
		return
	}
	section.Lock()
	defer section.Unlock()
	s.sections = append(s.sections[:idx], s.sections[idx+1:]...)
	section.DecrementEnrolled()
}

func (s *Student) String() string { return fmt.Sprintf("student %d", s.number) }
