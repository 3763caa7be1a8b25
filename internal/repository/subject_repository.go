package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
)

// SubjectRepo persists subjects and their prerequisite links.
type SubjectRepo struct {
	db *sql.DB
}

// NewSubjectRepo returns a SubjectRepo bound to the given database.
func NewSubjectRepo(db *sql.DB) *SubjectRepo { return &SubjectRepo{db: db} }

// Create inserts a subject together with its prerequisite links.  Every
// prerequisite must already exist; a missing one surfaces as
// ErrSubjectNotFound.
func (r *SubjectRepo) Create(ctx context.Context, code string, prereqCodes []string) error {
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
	for _, p := range prereqCodes {
		if _, err := loadSubject(ctx, tx, p); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO subjects (code) VALUES (?)`, code); err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyExists
		}
		return err
	}
	for _, p := range prereqCodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subject_prereqs (subject_code, prereq_code) VALUES (?, ?)`, code, p); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindByCode loads one subject with its prerequisites.
func (r *SubjectRepo) FindByCode(ctx context.Context, code string) (*domain.Subject, error) {
	return loadSubject(ctx, r.db, code)
}

// ListCodes returns every subject code ordered alphabetically.
func (r *SubjectRepo) ListCodes(ctx context.Context) ([]string, error) {
	return collectIDs(ctx, r.db, `SELECT code FROM subjects ORDER BY code`)
}

// loadSubject assembles a subject and one level of prerequisites.  The
// prerequisite subjects are loaded without their own prerequisite sets;
// the enlistment check only needs membership of the direct prerequisites
// in the student's taken set.
func loadSubject(ctx context.Context, q querier, code string) (*domain.Subject, error) {
	var found string
	err := q.QueryRowContext(ctx, `SELECT code FROM subjects WHERE code = ?`, code).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	prereqCodes, err := collectIDs(ctx, q,
		`SELECT prereq_code FROM subject_prereqs WHERE subject_code = ? ORDER BY prereq_code`, code)
	if err != nil {
		return nil, err
	}
	prereqs := make([]*domain.Subject, 0, len(prereqCodes))
	for _, pc := range prereqCodes {
		p, err := domain.NewSubject(pc)
		if err != nil {
			return nil, err
		}
		prereqs = append(prereqs, p)
	}
	return domain.NewSubject(found, prereqs...)
}
