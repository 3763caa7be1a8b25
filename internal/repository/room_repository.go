package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
)

// RoomRepo persists rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a room.
func (r *RoomRepo) Create(ctx context.Context, room *domain.Room) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, capacity) VALUES (?, ?)`, room.Name(), room.Capacity())
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	return err
}

// FindByName loads one room.
func (r *RoomRepo) FindByName(ctx context.Context, name string) (*domain.Room, error) {
	var capacity int
	err := r.db.QueryRowContext(ctx,
		`SELECT capacity FROM rooms WHERE name = ?`, name).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.NewRoom(name, capacity)
}

// SectionsInRoom returns the sections hosted in the room, loaded fully so
// the caller can run room schedule-conflict checks before creating a new
// section there.
func (r *RoomRepo) SectionsInRoom(ctx context.Context, name string) ([]*domain.Section, error) {
	ids, err := collectIDs(ctx, r.db,
		`SELECT section_id FROM sections WHERE room_name = ? ORDER BY section_id`, name)
	if err != nil {
		return nil, err
	}
	return loadSections(ctx, r.db, ids)
}
