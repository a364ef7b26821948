package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/pkg/analyzer"
	"github.com/OFFIS-RIT/docvis/pkg/generator"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/store"

	"github.com/labstack/echo/v4"
)

type messageResponse struct {
	Message string `json:"message"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, messageResponse{Message: message})
}

// bind decodes and validates the request body into data.
func bind(c echo.Context, data any) error {
	if err := c.Bind(data); err != nil {
		return err
	}
	return c.Validate(data)
}

// writeError maps pipeline errors to status codes.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, pipeline.ErrEmptyContent),
		errors.Is(err, analyzer.ErrEmptyDocumentID),
		errors.Is(err, generator.ErrUnsupportedType):
		return badRequest(c, err.Error())
	case errors.Is(err, pipeline.ErrNoRecommendation):
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Not found"})
	}

	logger.Error("Request failed", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
}
