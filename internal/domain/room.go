package domain

import (
	"fmt"
	"strings"
)

// Room is a named resource with a fixed seating capacity.  A room keeps a
// non-owning registry of the sections scheduled in it so that two sections
// can't occupy the same room at overlapping times.
type Room struct {
	name     string
	capacity int
	sections []*Section
}

// NewRoom creates a room.  The name must be non-blank and the capacity
// positive.
func NewRoom(name string, capacity int) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("room name can't be blank")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("room capacity must be positive, was: %d", capacity)
	}
	return &Room{name: name, capacity: capacity}, nil
}

// Name returns the room's identifying name.
func (r *Room) Name() string { return r.name }

// Capacity returns the maximum number of students the room can hold.
func (r *Room) Capacity() int { return r.capacity }

// CheckCapacity fails with a *CapacityError when current has already
// reached the room's capacity.  The caller passes the pre-increment
// headcount, so equality means the room is full.
func (r *Room) CheckCapacity(current int) error {
	if current >= r.capacity {
		return &CapacityError{RoomName: r.name, Capacity: r.capacity, Enrolled: current}
	}
	return nil
}

// AddSection registers a section as hosted in this room.  It fails with a
// *ScheduleConflictError when another hosted section's schedule overlaps,
// since one room can't hold two classes at the same time.
func (r *Room) AddSection(section *Section) error {
	for _, other := range r.sections {
		if section.schedule.Overlaps(other.schedule) {
			return &ScheduleConflictError{
				SectionID:      section.id,
				OtherSectionID: other.id,
				Schedule:       section.schedule,
				OtherSchedule:  other.schedule,
			}
		}
	}
	r.sections = append(r.sections, section)
	return nil
}
