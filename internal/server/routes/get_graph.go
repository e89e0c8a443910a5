package routes

import (
	"errors"
	"net/http"

	"github.com/econograph/backend/internal/server/middleware"
	"github.com/econograph/backend/pkg/logger"
	"github.com/econograph/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the serialized graph of the most recent
// successful build.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	export, err := app.Store.GetLatestExport(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "No finished build available",
			})
		}
		logger.Error("Failed to load latest export", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, export)
}

// GetGraphSchoolsHandler returns just the school list of the most
// recent successful build.
func GetGraphSchoolsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	export, err := app.Store.GetLatestExport(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "No finished build available",
			})
		}
		logger.Error("Failed to load latest export", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"schools": export.Schools,
	})
}
