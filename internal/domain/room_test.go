package domain

import (
	"errors"
	"testing"
)

func TestNewRoom_Validation(t *testing.T) {
	if _, err := NewRoom("", 10); err == nil {
		t.Error("expected error for blank room name")
	}
	if _, err := NewRoom("X", 0); err == nil {
		t.Error("expected error for zero capacity")
	}
	if _, err := NewRoom("X", -1); err == nil {
		t.Error("expected error for negative capacity")
	}
}

func TestRoom_CheckCapacity(t *testing.T) {
	room := mustRoom(t, "X", 2)
	if err := room.CheckCapacity(0); err != nil {
		t.Errorf("unexpected error below capacity: %v", err)
	}
	if err := room.CheckCapacity(1); err != nil {
		t.Errorf("unexpected error below capacity: %v", err)
	}
	err := room.CheckCapacity(2)
	if err == nil {
		t.Fatal("expected capacity error at capacity")
	}
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CapacityError, got %T", err)
	}
	if ce.RoomName != "X" || ce.Capacity != 2 {
		t.Errorf("capacity error missing context: %+v", ce)
	}
}

func TestRoom_AddSection_SameRoomDifferentSchedule(t *testing.T) {
	room := mustRoom(t, defaultRoomName, defaultRoomCap)
	sectionSpec{id: "A", schedule: mth830to10(t), room: room}.build(t)
	// second section in the same room at a different time is fine
	sectionSpec{id: "B", subject: mustSubject(t, "other"), schedule: tf10to1130(t), room: room}.build(t)
}

func TestRoom_AddSection_SameRoomSameSchedule(t *testing.T) {
	room := mustRoom(t, defaultRoomName, defaultRoomCap)
	sectionSpec{id: "A", schedule: mth830to10(t), room: room}.build(t)

	subject := mustSubject(t, "other")
	_, err := NewSection("B", subject, mth830to10(t), room)
	if err == nil {
		t.Fatal("expected schedule conflict for same room and same schedule")
	}
	var sc *ScheduleConflictError
	if !errors.As(err, &sc) {
		t.Fatalf("expected *ScheduleConflictError, got %T: %v", err, err)
	}
	if sc.OtherSectionID != "A" {
		t.Errorf("conflict should name the hosted section, got %q", sc.OtherSectionID)
	}
}
