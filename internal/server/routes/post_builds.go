package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/econograph/backend/internal/queue"
	"github.com/econograph/backend/internal/server/middleware"
	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateBuildHandler records a new build and enqueues it for the
// worker.
func CreateBuildHandler(c echo.Context) error {
	type createBuildBody struct {
		DatasetKey string `json:"dataset_key" validate:"required"`
	}

	type createBuildResponse struct {
		Message string        `json:"message"`
		Build   *common.Build `json:"build,omitempty"`
	}

	data := new(createBuildBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBuildResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBuildResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	id, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate build id", "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	build := common.Build{
		ID:         id,
		DatasetKey: data.DatasetKey,
		Status:     common.BuildQueued,
		CreatedAt:  time.Now().UTC(),
	}

	if err := app.Store.CreateBuild(ctx, build); err != nil {
		logger.Error("Failed to create build", "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	body, err := json.Marshal(queue.BuildMessage{
		BuildID:    build.ID,
		DatasetKey: build.DatasetKey,
	})
	if err != nil {
		logger.Error("Failed to marshal build message", "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.BuildQueue, body); err != nil {
		logger.Error("Failed to enqueue build", "build_id", build.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createBuildResponse{
		Message: "Build queued",
		Build:   &build,
	})
}
