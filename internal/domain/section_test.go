package domain

import (
	"errors"
	"testing"
)

func TestNewSection_Validation(t *testing.T) {
	subject := mustSubject(t, "S")
	room := mustRoom(t, "X", 10)
	sched := mth830to10(t)

	if _, err := NewSection("", subject, sched, room); err == nil {
		t.Error("expected error for blank section id")
	}
	if _, err := NewSection("A-1", subject, sched, room); err == nil {
		t.Error("expected error for non-alphanumeric section id")
	}
	if _, err := NewSection("A1", nil, sched, room); err == nil {
		t.Error("expected error for nil subject")
	}
	if _, err := NewSection("A1", subject, sched, nil); err == nil {
		t.Error("expected error for nil room")
	}
}

func TestSection_CheckSameSubject(t *testing.T) {
	shared := mustSubject(t, "C")
	a := sectionSpec{id: "A", subject: shared, schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	b := sectionSpec{id: "B", subject: shared, schedule: tf830to10(t), room: mustRoom(t, "Y", 10)}.build(t)

	err := a.CheckSameSubject(b)
	if err == nil {
		t.Fatal("expected same-subject conflict")
	}
	var ss *SameSubjectError
	if !errors.As(err, &ss) {
		t.Fatalf("expected *SameSubjectError, got %T", err)
	}
	if ss.SubjectCode != "C" {
		t.Errorf("error should carry the shared subject, got %q", ss.SubjectCode)
	}

	c := sectionSpec{id: "C1", subject: mustSubject(t, "D"), schedule: tf10to1130(t), room: mustRoom(t, "Z", 10)}.build(t)
	if err := a.CheckSameSubject(c); err != nil {
		t.Errorf("different subjects should not conflict: %v", err)
	}
}

func TestSection_CheckScheduleConflict(t *testing.T) {
	a := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	b := sectionSpec{id: "B", subject: mustSubject(t, "D"), schedule: mustSchedule(t, MTH, "09:00", "10:30"), room: mustRoom(t, "Y", 10)}.build(t)

	if err := a.CheckScheduleConflict(b); err == nil {
		t.Error("expected schedule conflict for overlapping periods on shared days")
	}

	c := sectionSpec{id: "C1", subject: mustSubject(t, "E"), schedule: mustSchedule(t, MTH, "10:00", "11:30"), room: mustRoom(t, "Z", 10)}.build(t)
	if err := a.CheckScheduleConflict(c); err != nil {
		t.Errorf("back-to-back periods should not conflict: %v", err)
	}
}

func TestSection_IncrementEnrolled_GuardsCapacity(t *testing.T) {
	section := sectionSpec{room: mustRoom(t, "X", 2)}.build(t)

	if err := section.IncrementEnrolled(); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := section.IncrementEnrolled(); err != nil {
		t.Fatalf("second increment: %v", err)
	}
	err := section.IncrementEnrolled()
	if err == nil {
		t.Fatal("expected capacity error on third increment")
	}
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CapacityError, got %T", err)
	}
	if ce.SectionID != defaultSectionID {
		t.Errorf("capacity error should name the section, got %q", ce.SectionID)
	}
	if section.Enrolled() != 2 {
		t.Errorf("failed increment must not change headcount, got %d", section.Enrolled())
	}

	section.DecrementEnrolled()
	if section.Enrolled() != 1 {
		t.Errorf("decrement should drop headcount to 1, got %d", section.Enrolled())
	}
}

func TestRehydrateSection_Bounds(t *testing.T) {
	subject := mustSubject(t, "S")
	room := mustRoom(t, "X", 3)
	sched := mth830to10(t)

	sec, err := RehydrateSection("A1", subject, sched, room, nil, 3, 7)
	if err != nil {
		t.Fatalf("rehydrate at capacity: %v", err)
	}
	if sec.Enrolled() != 3 || sec.Version() != 7 {
		t.Errorf("rehydrated state lost: enrolled=%d version=%d", sec.Enrolled(), sec.Version())
	}
	if _, err := RehydrateSection("A1", subject, sched, room, nil, 4, 0); err == nil {
		t.Error("expected error for enrolled above capacity")
	}
	if _, err := RehydrateSection("A1", subject, sched, room, nil, -1, 0); err == nil {
		t.Error("expected error for negative enrolled")
	}
}

func TestSection_AssignFaculty(t *testing.T) {
	faculty, err := NewFaculty(1000, "John", "Doe")
	if err != nil {
		t.Fatalf("NewFaculty: %v", err)
	}
	target := sectionSpec{id: "A", subject: mustSubject(t, "C"), schedule: mth830to10(t), room: mustRoom(t, "X", 10)}.build(t)
	sameTime := sectionSpec{id: "B", subject: mustSubject(t, "D"), schedule: mth830to10(t), room: mustRoom(t, "Y", 10)}.build(t)
	otherTime := sectionSpec{id: "C1", subject: mustSubject(t, "E"), schedule: tf10to1130(t), room: mustRoom(t, "Z", 10)}.build(t)

	if err := target.AssignFaculty(faculty, []*Section{sameTime}); err == nil {
		t.Error("expected conflict when faculty already teaches at an identical schedule")
	}
	if target.Faculty() != nil {
		t.Error("failed assignment must not set the faculty reference")
	}

	if err := target.AssignFaculty(faculty, []*Section{otherTime, target}); err != nil {
		t.Fatalf("assignment with disjoint schedules should succeed: %v", err)
	}
	if got := target.Faculty(); got == nil || got.Number() != 1000 {
		t.Errorf("faculty not assigned, got %v", got)
	}
}
