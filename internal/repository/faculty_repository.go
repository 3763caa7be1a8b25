package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
)

// FacultyRepo persists faculty members.
type FacultyRepo struct {
	db *sql.DB
}

// NewFacultyRepo returns a FacultyRepo bound to the given database.
func NewFacultyRepo(db *sql.DB) *FacultyRepo { return &FacultyRepo{db: db} }

// Create inserts a faculty member.
func (r *FacultyRepo) Create(ctx context.Context, f *domain.Faculty) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO faculty (faculty_number, first_name, last_name) VALUES (?, ?, ?)`,
		f.Number(), f.FirstName(), f.LastName())
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	return err
}

// FindByNumber loads one faculty member.
func (r *FacultyRepo) FindByNumber(ctx context.Context, number int) (*domain.Faculty, error) {
	return loadFaculty(ctx, r.db, number)
}

// FindByNumberTx is the transactional variant of FindByNumber.
func (r *FacultyRepo) FindByNumberTx(ctx context.Context, tx *sql.Tx, number int) (*domain.Faculty, error) {
	return loadFaculty(ctx, tx, number)
}

func loadFaculty(ctx context.Context, q querier, number int) (*domain.Faculty, error) {
	var first, last string
	err := q.QueryRowContext(ctx,
		`SELECT first_name, last_name FROM faculty WHERE faculty_number = ?`, number).
		Scan(&first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.NewFaculty(number, first, last)
}
