// Package service hosts the enlistment coordinator: the operation entry
// point the request layer calls, the bounded conflict-retry protocol
// around the optimistic section commit, and the in-process serialization
// of attempts targeting the same section.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
	"github.com/Sanzai-X/enlistment-service/internal/queue"
	"github.com/Sanzai-X/enlistment-service/internal/repository"
)

// Action selects what Perform does with the student-section pair.
type Action string

const (
	ActionEnlist Action = "ENLIST"
	ActionCancel Action = "CANCEL"
)

// ParseAction validates a client-supplied action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionEnlist, ActionCancel:
		return Action(s), nil
	}
	return "", fmt.Errorf("action must be ENLIST or CANCEL, was: %q", s)
}

// maxAttempts bounds the optimistic retry loop.  Exhausting it surfaces
// as domain.ErrRetryExhausted, a fatal outcome for that request.
const maxAttempts = 10

// Result describes a committed enlistment operation.
type Result struct {
	StudentNumber int
	SectionID     string
	SubjectCode   string
	RoomName      string
	Capacity      int
	Action        Action
	Enrolled      int
	// Changed is false when a cancel targeted a section the student was
	// not enlisted in: the operation succeeds without touching state.
	Changed bool
}

// attemptRunner executes one read-validate-mutate-commit cycle.  It is
// an interface so the retry discipline can be tested without a database.
type attemptRunner interface {
	run(ctx context.Context, studentNumber int, sectionID string, action Action) (Result, error)
}

// EnlistmentService coordinates enlist and cancel operations.  Two
// layers make it safe under concurrency: the per-section lock registry
// serializes request threads within this process, and the
// version-conditional section save serializes transactions across
// processes; a failed save retries the whole cycle.
type EnlistmentService struct {
	runner  attemptRunner
	locks   *domain.LockRegistry
	publish func(ctx context.Context, ev queue.EnlistmentCompletedEvent) error
}

// NewEnlistmentService wires the service to the SQL repositories.  The
// publish function may be nil to disable event publication.
func NewEnlistmentService(db *sql.DB, sections *repository.SectionRepo, students *repository.StudentRepo,
	publish func(ctx context.Context, ev queue.EnlistmentCompletedEvent) error) *EnlistmentService {
	return &EnlistmentService{
		runner:  &sqlRunner{db: db, sections: sections, students: students},
		locks:   domain.NewLockRegistry(),
		publish: publish,
	}
}

// Perform executes one enlist-or-cancel operation to completion.  Commit
// conflicts are retried up to maxAttempts times; validation conflicts
// and lookup failures are returned to the caller unmodified and never
// retried.
func (s *EnlistmentService) Perform(ctx context.Context, studentNumber int, sectionID string, action Action) (Result, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return Result{}, err
	}
	res, err := s.runLocked(ctx, studentNumber, sectionID, action)
	if err != nil {
		return Result{}, err
	}
	// Publish only after the section lock is released.  The commit is
	// already durable at this point, and the publisher dials the broker,
	// so holding the lock here would stall every other enlistment on
	// this section behind a network round trip.
	if res.Changed && s.publish != nil {
		s.publishResult(ctx, res)
	}
	return res, nil
}

// runLocked holds the section's registry lock across the bounded retry
// loop.  Each attempt reads a fresh Section value, so only an
// identity-keyed lock can order attempts within this process; across
// processes the version check takes over.
func (s *EnlistmentService) runLocked(ctx context.Context, studentNumber int, sectionID string, action Action) (Result, error) {
	lock := s.locks.ForSection(sectionID)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := s.runner.run(ctx, studentNumber, sectionID, action)
		if errors.Is(err, repository.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return Result{}, err
		}
		return res, nil
	}
	log.Printf("enlistment: giving up after %d attempts for student %d section %s: %v",
		maxAttempts, studentNumber, sectionID, lastErr)
	return Result{}, domain.ErrRetryExhausted
}

// publishResult emits the completion event.  Publication failures are
// logged and ignored: the enlistment has already committed and must not
// be reported as failed because the broker is down.
func (s *EnlistmentService) publishResult(ctx context.Context, res Result) {
	ev := queue.EnlistmentCompletedEvent{
		StudentNumber: res.StudentNumber,
		SectionID:     res.SectionID,
		SubjectCode:   res.SubjectCode,
		Action:        string(res.Action),
		RoomName:      res.RoomName,
		Enrolled:      res.Enrolled,
		Capacity:      res.Capacity,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("enlistment: publish event failed: %v", err)
	}
}

// sqlRunner implements one attempt against MySQL.  The student and the
// section are read inside a transaction, the domain object runs every
// check and mutation, and the section is written back conditionally on
// its version together with the student-section link.
type sqlRunner struct {
	db       *sql.DB
	sections *repository.SectionRepo
	students *repository.StudentRepo
}

func (r *sqlRunner) run(ctx context.Context, studentNumber int, sectionID string, action Action) (Result, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	student, err := r.students.FindByNumberTx(ctx, tx, studentNumber)
	if err != nil {
		return Result{}, err
	}
	section, err := r.sections.FindByIDTx(ctx, tx, sectionID)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		StudentNumber: studentNumber,
		SectionID:     section.ID(),
		SubjectCode:   section.Subject().Code(),
		RoomName:      section.Room().Name(),
		Capacity:      section.Room().Capacity(),
		Action:        action,
	}

	switch action {
	case ActionEnlist:
		if err := student.Enlist(section); err != nil {
			return Result{}, err
		}
		if err := r.students.AddEnlistmentTx(ctx, tx, studentNumber, sectionID); err != nil {
			return Result{}, err
		}
		if err := r.sections.SaveTx(ctx, tx, section); err != nil {
			return Result{}, err
		}
		res.Changed = true
	case ActionCancel:
		wasEnlisted := student.IsEnlistedIn(section)
		student.Cancel(section)
		if wasEnlisted {
			if err := r.students.RemoveEnlistmentTx(ctx, tx, studentNumber, sectionID); err != nil {
				return Result{}, err
			}
			if err := r.sections.SaveTx(ctx, tx, section); err != nil {
				return Result{}, err
			}
			res.Changed = true
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	committed = true
	res.Enrolled = section.Enrolled()
	return res, nil
}
