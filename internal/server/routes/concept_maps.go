package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// FallbackHeader is set when a requested AI concept map was replaced by
// the simple one.
const FallbackHeader = "X-Concept-Map-Fallback"

// CreateConceptMapHandler builds a concept map, with the model unless
// use_ai is false.
func CreateConceptMapHandler(c echo.Context) error {
	type conceptMapBody struct {
		Content string `json:"content" validate:"required"`
		UseAI   *bool  `json:"use_ai"`
	}

	data := new(conceptMapBody)
	if err := bind(c, data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	useAI := data.UseAI == nil || *data.UseAI

	p := middleware.GetApp(c).Pipeline
	result, fallback, err := p.ConceptMap(c.Request().Context(), data.Content, useAI)
	if err != nil {
		return writeError(c, err)
	}
	if fallback {
		c.Response().Header().Set(FallbackHeader, "true")
	}
	return c.JSON(http.StatusOK, result)
}
