package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// AnalyzeHandler runs the analysis pipeline on the posted content.
func AnalyzeHandler(c echo.Context) error {
	type analyzeBody struct {
		DocumentID string `json:"document_id"`
		Content    string `json:"content" validate:"required"`
	}

	data := new(analyzeBody)
	if err := bind(c, data); err != nil {
		return badRequest(c, "Invalid request body")
	}

	p := middleware.GetApp(c).Pipeline
	result, err := p.Analyze(c.Request().Context(), data.DocumentID, data.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// StatsHandler returns structure metrics without entity enrichment.
func StatsHandler(c echo.Context) error {
	type statsBody struct {
		Content string `json:"content" validate:"required"`
	}

	data := new(statsBody)
	if err := bind(c, data); err != nil {
		return badRequest(c, "Invalid request body")
	}

	p := middleware.GetApp(c).Pipeline
	stats, err := p.Stats(c.Request().Context(), data.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
