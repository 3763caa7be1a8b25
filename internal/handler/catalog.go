package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanzai-X/enlistment-service/internal/repository"
)

// CatalogHandler serves the public course catalog.  These endpoints sit
// behind the response cache, so the remaining-slot counts may lag a few
// seconds behind the authoritative section rows.
type CatalogHandler struct {
	Sections *repository.SectionRepo
	Subjects *repository.SubjectRepo
}

func NewCatalogHandler(sections *repository.SectionRepo, subjects *repository.SubjectRepo) *CatalogHandler {
	return &CatalogHandler{Sections: sections, Subjects: subjects}
}

type catalogSection struct {
	repository.SectionSummary
	Remaining int `json:"remaining"`
}

// ListSections handles GET /v1/catalog/sections.
func (h *CatalogHandler) ListSections(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summaries, err := h.Sections.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]catalogSection, 0, len(summaries))
	for _, s := range summaries {
		remaining := s.Capacity - s.Enrolled
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, catalogSection{SectionSummary: s, Remaining: remaining})
	}
	return c.JSON(http.StatusOK, echo.Map{"sections": out})
}

// ListSubjects handles GET /v1/catalog/subjects.
func (h *CatalogHandler) ListSubjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	codes, err := h.Subjects.ListCodes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"subjects": codes})
}
