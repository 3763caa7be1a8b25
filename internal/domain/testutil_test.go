package domain

import "testing"

// Shared fixtures for the domain tests.  Mirrors the default section /
// student / room values used throughout the package tests.

const (
	defaultSectionID  = "DefaultSection"
	defaultSubjectID  = "defaultSubject"
	defaultRoomName   = "DefaultRoom"
	defaultRoomCap    = 10
	defaultStudentNum = 10
)

func mustPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	p, err := NewPeriod(start, end)
	if err != nil {
		t.Fatalf("NewPeriod(%s, %s): %v", start, end, err)
	}
	return p
}

func mustSchedule(t *testing.T, days Days, start, end string) Schedule {
	t.Helper()
	return Schedule{Days: days, Period: mustPeriod(t, start, end)}
}

func mth830to10(t *testing.T) Schedule { return mustSchedule(t, MTH, "08:30", "10:00") }
func tf830to10(t *testing.T) Schedule  { return mustSchedule(t, TF, "08:30", "10:00") }
func tf10to1130(t *testing.T) Schedule { return mustSchedule(t, TF, "10:00", "11:30") }

func mustSubject(t *testing.T, code string, prereqs ...*Subject) *Subject {
	t.Helper()
	s, err := NewSubject(code, prereqs...)
	if err != nil {
		t.Fatalf("NewSubject(%s): %v", code, err)
	}
	return s
}

func mustRoom(t *testing.T, name string, capacity int) *Room {
	t.Helper()
	r, err := NewRoom(name, capacity)
	if err != nil {
		t.Fatalf("NewRoom(%s, %d): %v", name, capacity, err)
	}
	return r
}

// sectionSpec builds sections with sensible defaults so individual tests
// only override what they care about.
type sectionSpec struct {
	id       string
	subject  *Subject
	schedule Schedule
	room     *Room
	enrolled int
}

func (sp sectionSpec) build(t *testing.T) *Section {
	t.Helper()
	if sp.id == "" {
		sp.id = defaultSectionID
	}
	if sp.subject == nil {
		sp.subject = mustSubject(t, defaultSubjectID)
	}
	if sp.schedule == (Schedule{}) {
		sp.schedule = mth830to10(t)
	}
	if sp.room == nil {
		sp.room = mustRoom(t, defaultRoomName, defaultRoomCap)
	}
	sec, err := NewSection(sp.id, sp.subject, sp.schedule, sp.room)
	if err != nil {
		t.Fatalf("NewSection(%s): %v", sp.id, err)
	}
	for i := 0; i < sp.enrolled; i++ {
		sec.Lock()
		if err := sec.IncrementEnrolled(); err != nil {
			sec.Unlock()
			t.Fatalf("seeding enrolled count: %v", err)
		}
		sec.Unlock()
	}
	return sec
}

func newDefaultSection(t *testing.T) *Section {
	t.Helper()
	return sectionSpec{}.build(t)
}

func newTestStudent(t *testing.T, number int, sections []*Section, taken []*Subject) *Student {
	t.Helper()
	st, err := NewStudent(number, "firstname", "lastname", sections, taken)
	if err != nil {
		t.Fatalf("NewStudent(%d): %v", number, err)
	}
	return st
}

func newDefaultStudent(t *testing.T) *Student {
	t.Helper()
	return newTestStudent(t, defaultStudentNum, nil, nil)
}
