package store

import (
	"context"
	"errors"

	"github.com/econograph/backend/pkg/common"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BuildStorage defines the interface for persisting pipeline runs, their
// serialized graph exports, and mid-run label checkpoints.
type BuildStorage interface {
	CreateBuild(ctx context.Context, build common.Build) error
	GetBuild(ctx context.Context, id string) (common.Build, error)
	ListBuilds(ctx context.Context, limit int32) ([]common.Build, error)
	MarkBuildRunning(ctx context.Context, id string) error
	MarkBuildFinished(ctx context.Context, id string, status string, buildErr string) error

	SaveExport(ctx context.Context, buildID string, export *common.GraphExport) error
	GetExport(ctx context.Context, buildID string) (*common.GraphExport, error)
	GetLatestExport(ctx context.Context) (*common.GraphExport, error)

	SaveLabelCheckpoint(ctx context.Context, buildID string, labels map[string]string) error
	GetLabelCheckpoint(ctx context.Context, buildID string) (map[string]string, error)
}
