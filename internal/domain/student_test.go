package domain

import (
	"errors"
	"sync"
	"testing"
)

func TestNewStudent_RequiresPositiveNumber(t *testing.T) {
	if _, err := NewStudent(0, "a", "b", nil, nil); err == nil {
		t.Error("expected error for student number 0")
	}
	if _, err := NewStudent(-5, "a", "b", nil, nil); err == nil {
		t.Error("expected error for negative student number")
	}
}

func TestEnlist_TwoSectionsNoConflict(t *testing.T) {
	student := newDefaultStudent(t)
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "D"), schedule: tf10to1130(t), room: mustRoom(t, "Y", 10)}.build(t)

	if err := student.Enlist(sec1); err != nil {
		t.Fatalf("enlist sec1: %v", err)
	}
	if err := student.Enlist(sec2); err != nil {
		t.Fatalf("enlist sec2: %v", err)
	}
	sections := student.Sections()
	if len(sections) != 2 || !student.IsEnlistedIn(sec1) || !student.IsEnlistedIn(sec2) {
		t.Errorf("student should hold exactly sec1 and sec2, got %v", sections)
	}
}

func TestEnlist_TwoSectionsSameSchedule(t *testing.T) {
	student := newDefaultStudent(t)
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "D"), schedule: mth830to10(t), room: mustRoom(t, "Y", 10)}.build(t)

	if err := student.Enlist(sec1); err != nil {
		t.Fatalf("enlist sec1: %v", err)
	}
	err := student.Enlist(sec2)
	var sc *ScheduleConflictError
	if !errors.As(err, &sc) {
		t.Fatalf("expected *ScheduleConflictError, got %T: %v", err, err)
	}
	if student.IsEnlistedIn(sec2) || sec2.Enrolled() != 0 {
		t.Error("failed enlistment must not mutate student or section")
	}
}

func TestEnlist_TwoSectionsSameSubject(t *testing.T) {
	student := newDefaultStudent(t)
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "C"), schedule: tf830to10(t), room: mustRoom(t, "Y", 10)}.build(t)

	if err := student.Enlist(sec1); err != nil {
		t.Fatalf("enlist sec1: %v", err)
	}
	err := student.Enlist(sec2)
	var ss *SameSubjectError
	if !errors.As(err, &ss) {
		t.Fatalf("expected *SameSubjectError, got %T: %v", err, err)
	}
}

func TestEnlist_PrerequisitesTaken(t *testing.T) {
	prereq1 := mustSubject(t, "prereq1")
	prereq2 := mustSubject(t, "prereq2")
	subject := mustSubject(t, "subject", prereq1, prereq2)
	other := mustSubject(t, "otherSubject")

	student := newTestStudent(t, 1, nil, []*Subject{prereq1, prereq2, other})
	section := sectionSpec{subject: subject}.build(t)
	if err := student.Enlist(section); err != nil {
		t.Fatalf("prereqs taken, enlist should succeed: %v", err)
	}
}

func TestEnlist_PrerequisitesMissing(t *testing.T) {
	prereq1 := mustSubject(t, "prereq1")
	prereq2 := mustSubject(t, "prereq2")
	subject := mustSubject(t, "subject", prereq1, prereq2)

	student := newTestStudent(t, 1, nil, []*Subject{prereq1})
	section := sectionSpec{subject: subject}.build(t)
	err := student.Enlist(section)
	var pe *PrerequisiteError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PrerequisiteError, got %T: %v", err, err)
	}
	if len(pe.Missing) != 1 || pe.Missing[0] != "prereq2" {
		t.Errorf("error should list exactly the missing prereq, got %v", pe.Missing)
	}
	if section.Enrolled() != 0 {
		t.Error("failed enlistment must not change headcount")
	}
}

func TestEnlist_WithinRoomCapacity(t *testing.T) {
	student1 := newTestStudent(t, 1, nil, nil)
	student2 := newTestStudent(t, 2, nil, nil)
	section := newDefaultSection(t)

	if err := student1.Enlist(section); err != nil {
		t.Fatalf("student1: %v", err)
	}
	if err := student2.Enlist(section); err != nil {
		t.Fatalf("student2: %v", err)
	}
	if section.Enrolled() != 2 {
		t.Errorf("headcount should be 2, got %d", section.Enrolled())
	}
}

func TestEnlist_ExceedingRoomCapacity(t *testing.T) {
	student1 := newTestStudent(t, 1, nil, nil)
	student2 := newTestStudent(t, 2, nil, nil)
	section := sectionSpec{room: mustRoom(t, defaultRoomName, 1)}.build(t)

	if err := student1.Enlist(section); err != nil {
		t.Fatalf("student1: %v", err)
	}
	err := student2.Enlist(section)
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CapacityError, got %T: %v", err, err)
	}
	if student2.IsEnlistedIn(section) {
		t.Error("rejected student must not hold the section")
	}
	if section.Enrolled() != 1 {
		t.Errorf("headcount should stay 1, got %d", section.Enrolled())
	}
}

func TestEnlist_TwoSectionsSharingRoomAtCapacity(t *testing.T) {
	// The capacity ceiling is per section, not per room: two sections in
	// the same room at different times each get the full capacity.
	room := mustRoom(t, defaultRoomName, 1)
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: room}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "C"), schedule: tf830to10(t), room: room}.build(t)
	student1 := newTestStudent(t, 1, nil, nil)
	student2 := newTestStudent(t, 2, nil, nil)

	if err := student1.Enlist(sec1); err != nil {
		t.Fatalf("student1: %v", err)
	}
	if err := student2.Enlist(sec2); err != nil {
		t.Fatalf("student2: %v", err)
	}
}

func TestCancel_EnlistedSection(t *testing.T) {
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "D"), schedule: mth830to10(t), room: mustRoom(t, "X", 10), enrolled: 5}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "E"), schedule: tf830to10(t), room: mustRoom(t, "Y", 10), enrolled: 5}.build(t)
	toCancel := sectionSpec{id: "C1", subject: mustSubject(t, "F"), schedule: mustSchedule(t, WS, "08:30", "10:00"), room: mustRoom(t, "Z", 10), enrolled: 5}.build(t)
	student := newTestStudent(t, 1, []*Section{sec1, sec2, toCancel}, nil)

	student.Cancel(toCancel)

	if student.IsEnlistedIn(toCancel) {
		t.Error("cancelled section should no longer be held")
	}
	if toCancel.Enrolled() != 4 {
		t.Errorf("headcount should drop to 4, got %d", toCancel.Enrolled())
	}
}

func TestCancel_NonEnlistedSectionIsNoOp(t *testing.T) {
	sec1 := sectionSpec{id: "A", subject: mustSubject(t, "D"), schedule: mth830to10(t), room: mustRoom(t, "X", 10), enrolled: 5}.build(t)
	sec2 := sectionSpec{id: "B", subject: mustSubject(t, "E"), schedule: tf830to10(t), room: mustRoom(t, "Y", 10), enrolled: 5}.build(t)
	notEnlisted := sectionSpec{id: "C1", subject: mustSubject(t, "F"), schedule: mustSchedule(t, WS, "08:30", "10:00"), room: mustRoom(t, "Z", 10), enrolled: 5}.build(t)
	student := newTestStudent(t, 1, []*Section{sec1, sec2}, nil)

	student.Cancel(notEnlisted)

	if got := len(student.Sections()); got != 2 {
		t.Errorf("student's sections must be unchanged, got %d", got)
	}
	if sec1.Enrolled() != 5 || sec2.Enrolled() != 5 || notEnlisted.Enrolled() != 5 {
		t.Error("no headcount may change when cancelling a non-enlisted section")
	}
}

func TestEnlistThenCancel_RoundTrip(t *testing.T) {
	student := newDefaultStudent(t)
	section := sectionSpec{enrolled: 3}.build(t)

	if err := student.Enlist(section); err != nil {
		t.Fatalf("enlist: %v", err)
	}
	student.Cancel(section)

	if section.Enrolled() != 3 {
		t.Errorf("headcount should return to 3, got %d", section.Enrolled())
	}
	if len(student.Sections()) != 0 {
		t.Error("student's enlisted set should return to empty")
	}

	// cancel is a no-op the second time around
	student.Cancel(section)
	if section.Enrolled() != 3 {
		t.Errorf("second cancel must not decrement, got %d", section.Enrolled())
	}
}

func TestEnlist_ConcurrentAlmostFullSection(t *testing.T) {
	for i := 0; i < 20; i++ {
		section := sectionSpec{room: mustRoom(t, defaultRoomName, 1)}.build(t)
		students := make([]*Student, 5)
		for j := range students {
			students[j] = newTestStudent(t, j+1, nil, nil)
		}

		start := make(chan struct{})
		var wg sync.WaitGroup
		var mu sync.Mutex
		var capacityFailures int
		for _, st := range students {
			wg.Add(1)
			go func(st *Student) {
				defer wg.Done()
				<-start
				err := st.Enlist(section)
				var ce *CapacityError
				switch {
				case err == nil:
				case errors.As(err, &ce):
					mu.Lock()
					capacityFailures++
					mu.Unlock()
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(st)
		}
		close(start)
		wg.Wait()

		if section.Enrolled() != 1 {
			t.Fatalf("run %d: exactly one student may enlist, headcount = %d", i, section.Enrolled())
		}
		if capacityFailures != 4 {
			t.Fatalf("run %d: expected 4 capacity failures, got %d", i, capacityFailures)
		}
		holders := 0
		for _, st := range students {
			if st.IsEnlistedIn(section) {
				holders++
			}
		}
		if holders != 1 {
			t.Fatalf("run %d: headcount must match holders, got %d holders", i, holders)
		}
	}
}

func TestEnlist_ConcurrentExactlyAtCapacity(t *testing.T) {
	section := sectionSpec{room: mustRoom(t, defaultRoomName, 5)}.build(t)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for j := 1; j <= 5; j++ {
		st := newTestStudent(t, j, nil, nil)
		wg.Add(1)
		go func(st *Student) {
			defer wg.Done()
			<-start
			if err := st.Enlist(section); err != nil {
				t.Errorf("student %d should fit: %v", st.Number(), err)
			}
		}(st)
	}
	close(start)
	wg.Wait()

	if section.Enrolled() != 5 {
		t.Errorf("all five students should enlist, headcount = %d", section.Enrolled())
	}
}
