package server

import (
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/server/middleware"
	"github.com/OFFIS-RIT/docvis/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(app.Pipeline.Metrics().Handler()))

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeHandler)
	apiRoutes.POST("/stats", routes.StatsHandler)

	// Visualization routes
	apiRoutes.POST("/visualizations", routes.CreateVisualizationHandler)
	apiRoutes.GET("/visualizations/:id", routes.GetVisualizationHandler)
	apiRoutes.GET("/visualizations/:id/render", routes.RenderVisualizationHandler)
	apiRoutes.GET("/documents/:id/visualizations", routes.GetDocumentVisualizationsHandler)
	apiRoutes.POST("/visualization-jobs", routes.CreateVisualizationJobHandler)

	// Concept map routes
	apiRoutes.POST("/concept-maps", routes.CreateConceptMapHandler)
}
