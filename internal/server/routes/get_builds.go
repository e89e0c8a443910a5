package routes

import (
	"errors"
	"net/http"

	"github.com/econograph/backend/internal/server/middleware"
	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/logger"
	"github.com/econograph/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetBuildsHandler lists recent builds, newest first.
func GetBuildsHandler(c echo.Context) error {
	type getBuildsQuery struct {
		Limit int32 `query:"limit" validate:"omitempty,gte=1,lte=200"`
	}

	type getBuildsResponse struct {
		Builds []common.Build `json:"builds"`
	}

	data := new(getBuildsQuery)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	builds, err := app.Store.ListBuilds(ctx, data.Limit)
	if err != nil {
		logger.Error("Failed to list builds", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getBuildsResponse{Builds: builds})
}

// GetBuildHandler returns one build by id.
func GetBuildHandler(c echo.Context) error {
	type getBuildParams struct {
		ID string `param:"id" validate:"required"`
	}

	data := new(getBuildParams)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	build, err := app.Store.GetBuild(ctx, data.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "Build not found",
			})
		}
		logger.Error("Failed to load build", "build_id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, build)
}

// GetBuildGraphHandler returns the serialized graph of one finished
// build.
func GetBuildGraphHandler(c echo.Context) error {
	type getBuildGraphParams struct {
		ID string `param:"id" validate:"required"`
	}

	data := new(getBuildGraphParams)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	export, err := app.Store.GetExport(ctx, data.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"message": "No export for this build",
			})
		}
		logger.Error("Failed to load export", "build_id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, export)
}
