package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/econograph/backend/internal/server/middleware"
	"github.com/econograph/backend/internal/storage"
	"github.com/econograph/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

const datasetPrefix = "datasets/"

// GetDatasetsHandler lists dataset files available in object storage.
func GetDatasetsHandler(c echo.Context) error {
	type getDatasetsResponse struct {
		Datasets []string `json:"datasets"`
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	keys, err := storage.ListFilesWithPrefix(ctx, app.S3, datasetPrefix)
	if err != nil {
		logger.Error("Failed to list datasets", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Internal server error",
		})
	}
	if keys == nil {
		keys = []string{}
	}

	return c.JSON(http.StatusOK, getDatasetsResponse{Datasets: keys})
}

// UploadDatasetHandler stores an uploaded dataset file. The body must
// be a JSON array of records; content is checked for well-formedness
// but not sanitized here, the pipeline does that per build.
func UploadDatasetHandler(c echo.Context) error {
	type uploadDatasetResponse struct {
		Message string `json:"message"`
		Key     string `json:"key,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "Invalid request body",
		})
	}
	uploads := form.File["file"]
	if len(uploads) != 1 {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "Exactly one file is required",
		})
	}
	upload := uploads[0]

	name := path.Base(upload.Filename)
	if !strings.HasSuffix(name, ".json") {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "Dataset must be a .json file",
		})
	}

	src, err := upload.Open()
	if err != nil {
		logger.Error("Failed to open upload", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDatasetResponse{
			Message: "Internal server error",
		})
	}
	defer src.Close()

	var probe []json.RawMessage
	if err := json.NewDecoder(src).Decode(&probe); err != nil {
		return c.JSON(http.StatusBadRequest, uploadDatasetResponse{
			Message: "Dataset must be a JSON array",
		})
	}
	if _, err := src.Seek(0, 0); err != nil {
		logger.Error("Failed to rewind upload", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDatasetResponse{
			Message: "Internal server error",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	key := fmt.Sprintf("%s%s", datasetPrefix, name)
	if _, err := storage.PutFile(ctx, app.S3, key, src); err != nil {
		logger.Error("Failed to store dataset", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDatasetResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, uploadDatasetResponse{
		Message: "Dataset stored",
		Key:     key,
	})
}
