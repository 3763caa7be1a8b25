package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Sanzai-X/enlistment-service/internal/domain"
	"github.com/Sanzai-X/enlistment-service/internal/repository"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/enlistments", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteEnlistmentError_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"same subject", &domain.SameSubjectError{SectionID: "A", OtherSectionID: "B", SubjectCode: "MATH1"}, http.StatusConflict},
		{"schedule conflict", &domain.ScheduleConflictError{SectionID: "A", OtherSectionID: "B"}, http.StatusConflict},
		{"capacity", &domain.CapacityError{SectionID: "A", RoomName: "X", Capacity: 1, Enrolled: 1}, http.StatusConflict},
		{"prerequisite", &domain.PrerequisiteError{SectionID: "A", SubjectCode: "MATH2", Missing: []string{"MATH1"}}, http.StatusUnprocessableEntity},
		{"section not found", repository.ErrSectionNotFound, http.StatusNotFound},
		{"student not found", repository.ErrStudentNotFound, http.StatusNotFound},
		{"retry exhausted", domain.ErrRetryExhausted, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			if err := writeEnlistmentError(c, tc.err); err != nil {
				t.Fatalf("writeEnlistmentError returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestWriteEnlistmentError_WrappedErrorsStillMap(t *testing.T) {
	c, rec := newTestContext(t)
	wrapped := errors.Join(errors.New("attempt 3"), repository.ErrSectionNotFound)
	if err := writeEnlistmentError(c, wrapped); err != nil {
		t.Fatalf("writeEnlistmentError returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
