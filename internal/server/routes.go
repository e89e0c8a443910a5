package server

import (
	"github.com/econograph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/graph/schools", routes.GetGraphSchoolsHandler)

	// Build routes
	apiRoutes.GET("/builds", routes.GetBuildsHandler)
	apiRoutes.GET("/builds/:id", routes.GetBuildHandler)
	apiRoutes.GET("/builds/:id/graph", routes.GetBuildGraphHandler)
	apiRoutes.POST("/builds", routes.CreateBuildHandler)

	// Dataset routes
	apiRoutes.GET("/datasets", routes.GetDatasetsHandler)
	apiRoutes.POST("/datasets", routes.UploadDatasetHandler)
}
