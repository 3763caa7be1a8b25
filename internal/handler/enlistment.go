package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
	"github.com/Sanzai-X/enlistment-service/internal/repository"
	"github.com/Sanzai-X/enlistment-service/internal/service"
)

// EnlistmentHandler serves the student-facing enlistment endpoints.  The
// student number comes from the JWT claims, never from the request body,
// so a student can only act on their own enlistments.
type EnlistmentHandler struct {
	Svc      *service.EnlistmentService
	Students *repository.StudentRepo
}

func NewEnlistmentHandler(svc *service.EnlistmentService, students *repository.StudentRepo) *EnlistmentHandler {
	return &EnlistmentHandler{Svc: svc, Students: students}
}

type enlistReq struct {
	SectionID string `json:"section_id"`
	Action    string `json:"action"` // ENLIST | CANCEL
}

type enlistResp struct {
	StudentNumber int    `json:"student_number"`
	SectionID     string `json:"section_id"`
	SubjectCode   string `json:"subject_code"`
	Action        string `json:"action"`
	Enrolled      int    `json:"enrolled"`
	Capacity      int    `json:"capacity"`
	Changed       bool   `json:"changed"`
}

// Perform handles POST /v1/enlistments.  It runs the requested action
// through the service's retry loop and translates domain failures into
// HTTP statuses: rule conflicts are 409, unmet prerequisites 422, and an
// exhausted retry budget 503 so clients know to try again later.
func (h *EnlistmentHandler) Perform(c echo.Context) error {
	number, ok := c.Get("student_number").(int)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "student account required"})
	}

	var req enlistReq
	if err := c.Bind(&req); err != nil || req.SectionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "section_id and action required"})
	}
	action, err := service.ParseAction(req.Action)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	res, err := h.Svc.Perform(ctx, number, req.SectionID, action)
	if err != nil {
		return writeEnlistmentError(c, err)
	}

	status := http.StatusOK
	if action == service.ActionEnlist {
		status = http.StatusCreated
	}
	return c.JSON(status, enlistResp{
		StudentNumber: res.StudentNumber,
		SectionID:     res.SectionID,
		SubjectCode:   res.SubjectCode,
		Action:        string(res.Action),
		Enrolled:      res.Enrolled,
		Capacity:      res.Capacity,
		Changed:       res.Changed,
	})
}

// MySections handles GET /v1/enlistments and lists the sections the
// authenticated student is currently enlisted in.
func (h *EnlistmentHandler) MySections(c echo.Context) error {
	number, ok := c.Get("student_number").(int)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "student account required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	student, err := h.Students.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	sections := student.Sections()
	out := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		out = append(out, sectionViewOf(s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"student_number": student.Number(),
		"sections":       out,
	})
}

// sectionView is the JSON shape for a section loaded through the domain.
type sectionView struct {
	SectionID   string `json:"section_id"`
	SubjectCode string `json:"subject_code"`
	Schedule    string `json:"schedule"`
	RoomName    string `json:"room_name"`
	Capacity    int    `json:"capacity"`
	Enrolled    int    `json:"enrolled"`
	Faculty     string `json:"faculty,omitempty"`
}

func sectionViewOf(s *domain.Section) sectionView {
	v := sectionView{
		SectionID:   s.ID(),
		SubjectCode: s.Subject().Code(),
		Schedule:    s.Schedule().String(),
		RoomName:    s.Room().Name(),
		Capacity:    s.Room().Capacity(),
		Enrolled:    s.Enrolled(),
	}
	if f := s.Faculty(); f != nil {
		v.Faculty = f.FirstName() + " " + f.LastName()
	}
	return v
}

// writeEnlistmentError maps service and domain errors onto HTTP responses.
func writeEnlistmentError(c echo.Context, err error) error {
	var (
		same   *domain.SameSubjectError
		sched  *domain.ScheduleConflictError
		prereq *domain.PrerequisiteError
		full   *domain.CapacityError
	)
	switch {
	case errors.As(err, &same), errors.As(err, &sched), errors.As(err, &full):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &prereq):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSectionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
	case errors.Is(err, repository.ErrStudentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
	case errors.Is(err, domain.ErrRetryExhausted):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "section is contended, try again"})
	}
	c.Logger().Errorf("enlistment failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enlistment failed"})
}
