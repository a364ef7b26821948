package routes

import (
	"bytes"
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/server/middleware"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/store"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"

	"github.com/labstack/echo/v4"
)

type visualizationResponse struct {
	ID         string                   `json:"id,omitempty"`
	DocumentID string                   `json:"documentId"`
	Type       common.VisualizationType `json:"type"`
	Data       visualization.Graph      `json:"data"`
	// Recommended lists the analysis recommendations, only on generation.
	Recommended []common.VisualizationType `json:"recommended,omitempty"`
	Confidence  float64                    `json:"confidence"`
}

func recordResponse(rec *store.Record) (visualizationResponse, error) {
	g, err := rec.Graph()
	if err != nil {
		return visualizationResponse{}, err
	}
	return visualizationResponse{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		Type:       rec.Type,
		Data:       g,
		Confidence: rec.Confidence,
	}, nil
}

// CreateVisualizationHandler analyzes content and generates one graph.
func CreateVisualizationHandler(c echo.Context) error {
	type createBody struct {
		DocumentID string `json:"document_id"`
		Content    string `json:"content" validate:"required"`
		Type       string `json:"type" validate:"omitempty,oneof=FLOWCHART CONCEPT_MAP HIERARCHICAL_SCHEME MIND_MAP"`
		Persist    bool   `json:"persist"`
	}

	data := new(createBody)
	if err := bind(c, data); err != nil {
		return badRequest(c, "Invalid request body")
	}

	p := middleware.GetApp(c).Pipeline
	out, err := p.Visualize(c.Request().Context(), pipeline.VisualizeParams{
		DocumentID: data.DocumentID,
		Content:    data.Content,
		Type:       common.VisualizationType(data.Type),
		Persist:    data.Persist,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := visualizationResponse{
		DocumentID:  out.Analysis.DocumentID,
		Type:        out.Graph.VisualizationType(),
		Data:        out.Graph,
		Recommended: out.Analysis.RecommendedVisualizations,
		Confidence:  out.Analysis.Confidence,
	}
	status := http.StatusOK
	if out.Record != nil {
		resp.ID = out.Record.ID
		status = http.StatusCreated
	}
	return c.JSON(status, resp)
}

// GetVisualizationHandler returns a stored visualization.
func GetVisualizationHandler(c echo.Context) error {
	p := middleware.GetApp(c).Pipeline
	rec, err := p.Store().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	resp, err := recordResponse(rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDocumentVisualizationsHandler lists a document's visualizations,
// newest first.
func GetDocumentVisualizationsHandler(c echo.Context) error {
	p := middleware.GetApp(c).Pipeline
	recs, err := p.Store().ListByDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	out := make([]visualizationResponse, 0, len(recs))
	for i := range recs {
		resp, err := recordResponse(&recs[i])
		if err != nil {
			return writeError(c, err)
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// RenderVisualizationHandler renders a stored visualization as a
// vis-network payload (format=vis, default) or as SVG (format=svg).
func RenderVisualizationHandler(c echo.Context) error {
	app := middleware.GetApp(c)
	format := c.QueryParam("format")
	if format != "" && format != "vis" && format != "svg" {
		return badRequest(c, "format must be vis or svg")
	}

	rec, err := app.Pipeline.Store().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	g, err := rec.Graph()
	if err != nil {
		return writeError(c, err)
	}

	if format == "svg" {
		var buf bytes.Buffer
		if err := app.SVG.Render(&buf, g); err != nil {
			return writeError(c, err)
		}
		return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
	}

	network, err := app.Vis.Convert(g)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, network)
}
