package routes

import (
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/queue"
	"github.com/OFFIS-RIT/docvis/internal/server/middleware"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"

	"github.com/labstack/echo/v4"
)

type jobResponse struct {
	DocumentID string `json:"documentId"`
	Queue      string `json:"queue"`
}

// CreateVisualizationJobHandler queues a visualization for the worker.
// The result is announced on the visualization.created topic.
func CreateVisualizationJobHandler(c echo.Context) error {
	type jobBody struct {
		DocumentID string `json:"document_id"`
		Content    string `json:"content" validate:"required_without=Source"`
		Source     string `json:"source" validate:"required_without=Content"`
		Type       string `json:"type" validate:"omitempty,oneof=FLOWCHART CONCEPT_MAP HIERARCHICAL_SCHEME MIND_MAP"`
	}

	app := middleware.GetApp(c)
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "Job queue is not configured"})
	}

	data := new(jobBody)
	if err := bind(c, data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if data.DocumentID == "" {
		data.DocumentID = textutil.GenerateID("doc")
	}

	msg, err := json.Marshal(queue.QueueVisualizationMsg{
		DocumentID: data.DocumentID,
		Source:     data.Source,
		Content:    data.Content,
		Type:       data.Type,
	})
	if err != nil {
		return writeError(c, err)
	}
	if err := queue.PublishFIFO(c.Request().Context(), app.Queue, queue.VisualizationQueue, msg); err != nil {
		return writeError(c, err)
	}

	logger.Debug("Visualization job queued", "document_id", data.DocumentID)
	return c.JSON(http.StatusAccepted, jobResponse{
		DocumentID: data.DocumentID,
		Queue:      queue.VisualizationQueue,
	})
}
