package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
)

// querier is the subset of *sql.DB and *sql.Tx the loaders need, so the
// same row-assembly code serves both transactional and plain reads.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SectionRepo provides persistence for sections.  A section row carries
// the denormalized enrolled count and a version column; SaveTx commits
// conditionally on that version, which is what makes the optimistic retry
// protocol in the service layer possible.
type SectionRepo struct {
	db *sql.DB
}

// NewSectionRepo returns a SectionRepo bound to the given database.
func NewSectionRepo(db *sql.DB) *SectionRepo { return &SectionRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span multiple repositories.
func (r *SectionRepo) DB() *sql.DB { return r.db }

// Create inserts a new section.  The caller has already run the domain
// checks (room schedule conflict, id validation) by constructing the
// Section value.
func (r *SectionRepo) Create(ctx context.Context, s *domain.Section) error {
	var faculty any
	if f := s.Faculty(); f != nil {
		faculty = f.Number()
	}
	const q = `INSERT INTO sections
	           (section_id, subject_code, days, start_time, end_time, room_name, faculty_number, enrolled, version)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`
	sched := s.Schedule()
	_, err := r.db.ExecContext(ctx, q,
		s.ID(), s.Subject().Code(), sched.Days.String(),
		sched.Period.Start, sched.Period.End,
		s.Room().Name(), faculty, s.Enrolled())
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	return err
}

// FindByIDTx loads one section inside a transaction, including its
// subject (with one level of prerequisites), room and assigned faculty.
func (r *SectionRepo) FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Section, error) {
	return loadSection(ctx, tx, id)
}

// FindByID is the non-transactional variant of FindByIDTx.
func (r *SectionRepo) FindByID(ctx context.Context, id string) (*domain.Section, error) {
	return loadSection(ctx, r.db, id)
}

// SaveTx writes a section's mutable columns back, conditionally on the
// version being unchanged since the section was read.  Zero affected rows
// means another transaction committed first and yields
// ErrVersionConflict; the caller rolls back and retries from the read.
func (r *SectionRepo) SaveTx(ctx context.Context, tx *sql.Tx, s *domain.Section) error {
	var faculty any
	if f := s.Faculty(); f != nil {
		faculty = f.Number()
	}
	const q = `UPDATE sections
	           SET enrolled = ?, faculty_number = ?, version = version + 1
	           WHERE section_id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, s.Enrolled(), faculty, s.ID(), s.Version())
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

// ListByFacultyTx returns the sections currently taught by the given
// faculty member.  Used by the assignment operation's schedule-conflict
// check.
func (r *SectionRepo) ListByFacultyTx(ctx context.Context, tx *sql.Tx, facultyNumber int) ([]*domain.Section, error) {
	ids, err := collectIDs(ctx, tx,
		`SELECT section_id FROM sections WHERE faculty_number = ? ORDER BY section_id`, facultyNumber)
	if err != nil {
		return nil, err
	}
	return loadSections(ctx, tx, ids)
}

// SectionSummary is a catalog row for browse endpoints: the section's
// identity and schedule plus how many slots remain.
type SectionSummary struct {
	SectionID     string `json:"section_id"`
	SubjectCode   string `json:"subject_code"`
	Days          string `json:"days"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	RoomName      string `json:"room_name"`
	Capacity      int    `json:"capacity"`
	Enrolled      int    `json:"enrolled"`
	FacultyNumber *int   `json:"faculty_number,omitempty"`
}

// ListAll returns a summary of every section ordered by id.
func (r *SectionRepo) ListAll(ctx context.Context) ([]SectionSummary, error) {
	const q = `SELECT s.section_id, s.subject_code, s.days, s.start_time, s.end_time,
	                  s.room_name, r.capacity, s.enrolled, s.faculty_number
	           FROM sections s
	           JOIN rooms r ON r.name = s.room_name
	           ORDER BY s.section_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SectionSummary, 0)
	for rows.Next() {
		var sum SectionSummary
		var start, end int
		var faculty sql.NullInt64
		if err := rows.Scan(&sum.SectionID, &sum.SubjectCode, &sum.Days, &start, &end,
			&sum.RoomName, &sum.Capacity, &sum.Enrolled, &faculty); err != nil {
			return nil, err
		}
		sum.StartTime = minutesToClock(start)
		sum.EndTime = minutesToClock(end)
		if faculty.Valid {
			n := int(faculty.Int64)
			sum.FacultyNumber = &n
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// loadSection assembles a domain.Section from its row and related tables.
func loadSection(ctx context.Context, q querier, id string) (*domain.Section, error) {
	const sel = `SELECT s.section_id, s.subject_code, s.days, s.start_time, s.end_time,
	                    s.room_name, r.capacity, s.faculty_number, s.enrolled, s.version
	             FROM sections s
	             JOIN rooms r ON r.name = s.room_name
	             WHERE s.section_id = ?`
	var (
		sectionID, subjectCode, daysStr, roomName string
		startMin, endMin, capacity, enrolled, ver int
		facultyNum                                sql.NullInt64
	)
	err := q.QueryRowContext(ctx, sel, id).Scan(
		&sectionID, &subjectCode, &daysStr, &startMin, &endMin,
		&roomName, &capacity, &facultyNum, &enrolled, &ver)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	subject, err := loadSubject(ctx, q, subjectCode)
	if err != nil {
		return nil, err
	}
	room, err := domain.NewRoom(roomName, capacity)
	if err != nil {
		return nil, err
	}
	days, err := domain.ParseDays(daysStr)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, errors.New("corrupt section row: start_time not before end_time")
	}
	sched := domain.Schedule{Days: days, Period: domain.Period{Start: startMin, End: endMin}}
	var faculty *domain.Faculty
	if facultyNum.Valid {
		faculty, err = loadFaculty(ctx, q, int(facultyNum.Int64))
		if err != nil {
			return nil, err
		}
	}
	return domain.RehydrateSection(sectionID, subject, sched, room, faculty, enrolled, ver)
}

func loadSections(ctx context.Context, q querier, ids []string) ([]*domain.Section, error) {
	out := make([]*domain.Section, 0, len(ids))
	for _, id := range ids {
		s, err := loadSection(ctx, q, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func collectIDs(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
