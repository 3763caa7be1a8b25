package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
	"github.com/Sanzai-X/enlistment-service/internal/repository"
)

// RegistrarHandler serves the administrative endpoints that set up the
// catalog: subjects, rooms, faculty, students and sections.  All routes
// require the REGISTRAR role.
type RegistrarHandler struct {
	Subjects *repository.SubjectRepo
	Rooms    *repository.RoomRepo
	Faculty  *repository.FacultyRepo
	Students *repository.StudentRepo
	Sections *repository.SectionRepo
}

func NewRegistrarHandler(subjects *repository.SubjectRepo, rooms *repository.RoomRepo,
	faculty *repository.FacultyRepo, students *repository.StudentRepo, sections *repository.SectionRepo) *RegistrarHandler {
	return &RegistrarHandler{
		Subjects: subjects,
		Rooms:    rooms,
		Faculty:  faculty,
		Students: students,
		Sections: sections,
	}
}

type createSubjectReq struct {
	Code          string   `json:"code"`
	Prerequisites []string `json:"prerequisites"`
}

// CreateSubject handles POST /v1/registrar/subjects.
func (h *RegistrarHandler) CreateSubject(c echo.Context) error {
	var req createSubjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	// Run the domain validation before touching the database.
	if _, err := domain.NewSubject(req.Code); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Subjects.Create(ctx, req.Code, req.Prerequisites); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "subject already exists"})
		case errors.Is(err, repository.ErrSubjectNotFound):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "prerequisite subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create subject failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"code": req.Code, "prerequisites": req.Prerequisites})
}

type createRoomReq struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// CreateRoom handles POST /v1/registrar/rooms.
func (h *RegistrarHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	room, err := domain.NewRoom(req.Name, req.Capacity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"name": room.Name(), "capacity": room.Capacity()})
}

type createFacultyReq struct {
	Number    int    `json:"number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateFaculty handles POST /v1/registrar/faculty.
func (h *RegistrarHandler) CreateFaculty(c echo.Context) error {
	var req createFacultyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, err := domain.NewFaculty(req.Number, req.FirstName, req.LastName)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Faculty.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "faculty already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create faculty failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"number": f.Number()})
}

type createStudentReq struct {
	Number        int      `json:"number"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	TakenSubjects []string `json:"taken_subjects"`
}

// CreateStudent handles POST /v1/registrar/students.  Taken subjects are
// the student's academic history and feed the prerequisite checks.
func (h *RegistrarHandler) CreateStudent(c echo.Context) error {
	var req createStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken := make([]*domain.Subject, 0, len(req.TakenSubjects))
	for _, code := range req.TakenSubjects {
		subj, err := h.Subjects.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrSubjectNotFound) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "taken subject not found: " + code})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		taken = append(taken, subj)
	}

	student, err := domain.NewStudent(req.Number, req.FirstName, req.LastName, nil, taken)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create student failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"number": student.Number()})
}

type createSectionReq struct {
	SectionID   string `json:"section_id"`
	SubjectCode string `json:"subject_code"`
	Days        string `json:"days"`       // MTH | TF | WS
	StartTime   string `json:"start_time"` // "08:30"
	EndTime     string `json:"end_time"`   // "10:00"
	RoomName    string `json:"room_name"`
}

// CreateSection handles POST /v1/registrar/sections.  The new section is
// checked against every section already hosted in the room so two classes
// can't share the room at overlapping times.
func (h *RegistrarHandler) CreateSection(c echo.Context) error {
	var req createSectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	days, err := domain.ParseDays(req.Days)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	period, err := domain.NewPeriod(req.StartTime, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sched := domain.Schedule{Days: days, Period: period}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	subject, err := h.Subjects.FindByCode(ctx, req.SubjectCode)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subject not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	room, err := h.Rooms.FindByName(ctx, req.RoomName)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Seed the room's registry with its current sections so NewSection
	// sees them during the overlap check.
	existing, err := h.Rooms.SectionsInRoom(ctx, req.RoomName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, s := range existing {
		if err := room.AddSection(s); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inconsistent room schedule"})
		}
	}

	section, err := domain.NewSection(req.SectionID, subject, sched, room)
	if err != nil {
		var conflict *domain.ScheduleConflictError
		if errors.As(err, &conflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Sections.Create(ctx, section); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "section already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create section failed"})
	}
	return c.JSON(http.StatusCreated, sectionViewOf(section))
}

type assignFacultyReq struct {
	FacultyNumber int `json:"faculty_number"`
}

// AssignFaculty handles PUT /v1/registrar/sections/:id/faculty.  The
// assignment is committed with the section's version check, so a
// concurrent enlistment or reassignment surfaces as a 409 rather than a
// silent overwrite.
func (h *RegistrarHandler) AssignFaculty(c echo.Context) error {
	sectionID := c.Param("id")
	var req assignFacultyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Sections.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	section, err := h.Sections.FindByIDTx(ctx, tx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	faculty, err := h.Faculty.FindByNumberTx(ctx, tx, req.FacultyNumber)
	if err != nil {
		if errors.Is(err, repository.ErrFacultyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "faculty not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	taughtBy, err := h.Sections.ListByFacultyTx(ctx, tx, req.FacultyNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := section.AssignFaculty(faculty, taughtBy); err != nil {
		var conflict *domain.ScheduleConflictError
		if errors.As(err, &conflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Sections.SaveTx(ctx, tx, section); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "section changed concurrently, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, sectionViewOf(section))
}
