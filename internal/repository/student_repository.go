package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
)

// StudentRepo persists students, their taken-subjects set and the
// student-section enlistment links.  The enlistment links are the source
// of truth behind a section's enrolled column: the two are written in the
// same transaction by the enlistment service.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// Create inserts a student and their taken subjects.
func (r *StudentRepo) Create(ctx context.Context, s *domain.Student) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO students (student_number, first_name, last_name) VALUES (?, ?, ?)`,
		s.Number(), s.FirstName(), s.LastName())
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	for _, subj := range s.TakenSubjects() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_taken_subjects (student_number, subject_code) VALUES (?, ?)`,
			s.Number(), subj.Code()); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindByNumberTx loads a student inside a transaction: the identity row,
// the taken-subjects set and every currently-enlisted section, fully
// assembled so the domain checks can run against them.
func (r *StudentRepo) FindByNumberTx(ctx context.Context, tx *sql.Tx, number int) (*domain.Student, error) {
	return loadStudent(ctx, tx, number)
}

// FindByNumber is the non-transactional variant of FindByNumberTx.
func (r *StudentRepo) FindByNumber(ctx context.Context, number int) (*domain.Student, error) {
	return loadStudent(ctx, r.db, number)
}

// AddEnlistmentTx records the student-section link created by a
// successful enlist.  It runs in the same transaction as the section's
// version-conditional save so the link and the headcount commit together.
func (r *StudentRepo) AddEnlistmentTx(ctx context.Context, tx *sql.Tx, studentNumber int, sectionID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO enlistments (student_number, section_id) VALUES (?, ?)`,
		studentNumber, sectionID)
	if isDuplicateKey(err) {
		// the link already exists; the domain checks should have
		// rejected this earlier, treat as a stale read
		return ErrVersionConflict
	}
	return err
}

// RemoveEnlistmentTx deletes the student-section link on cancel.  Zero
// affected rows means another transaction already removed it, which the
// caller handles as a version conflict and retries.
func (r *StudentRepo) RemoveEnlistmentTx(ctx context.Context, tx *sql.Tx, studentNumber int, sectionID string) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM enlistments WHERE student_number = ? AND section_id = ?`,
		studentNumber, sectionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func loadStudent(ctx context.Context, q querier, number int) (*domain.Student, error) {
	var first, last string
	err := q.QueryRowContext(ctx,
		`SELECT first_name, last_name FROM students WHERE student_number = ?`, number).
		Scan(&first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	takenCodes, err := collectIDs(ctx, q,
		`SELECT subject_code FROM student_taken_subjects WHERE student_number = ? ORDER BY subject_code`, number)
	if err != nil {
		return nil, err
	}
	taken := make([]*domain.Subject, 0, len(takenCodes))
	for _, code := range takenCodes {
		subj, err := domain.NewSubject(code)
		if err != nil {
			return nil, err
		}
		taken = append(taken, subj)
	}
	// stable ordering keeps the fail-fast conflict checks deterministic
	sectionIDs, err := collectIDs(ctx, q,
		`SELECT section_id FROM enlistments WHERE student_number = ? ORDER BY section_id`, number)
	if err != nil {
		return nil, err
	}
	sections, err := loadSections(ctx, q, sectionIDs)
	if err != nil {
		return nil, err
	}
	return domain.NewStudent(number, first, last, sections, taken)
}
