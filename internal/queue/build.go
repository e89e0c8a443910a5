package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/econograph/backend/internal/storage"
	"github.com/econograph/backend/pkg/ai"
	"github.com/econograph/backend/pkg/classify"
	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/dataset"
	"github.com/econograph/backend/pkg/graph"
	"github.com/econograph/backend/pkg/leaselock"
	"github.com/econograph/backend/pkg/logger"
	pgxstore "github.com/econograph/backend/pkg/store/pgx"
	"github.com/econograph/backend/pkg/wiki"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BuildMessage is the payload published to the build queue for one
// pipeline run.
type BuildMessage struct {
	BuildID    string `json:"build_id"`
	DatasetKey string `json:"dataset_key"`
}

// ProcessBuildMessage runs the full pipeline for one build: load the
// dataset from object storage, sanitize it, construct and rank the
// relationship graph, assign school labels, and persist the serialized
// export. Label checkpoints make a retried build resume instead of
// re-classifying everything, and a lease keyed on the build id keeps
// duplicate deliveries from running the same build concurrently.
func ProcessBuildMessage(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	var m BuildMessage
	if err := json.Unmarshal([]byte(msg), &m); err != nil {
		return fmt.Errorf("could not unmarshal build message: %w", err)
	}
	if m.BuildID == "" || m.DatasetKey == "" {
		return errors.New("build message missing build_id or dataset_key")
	}

	locks := leaselock.New(conn)
	return locks.WithLease(
		ctx,
		"build:"+m.BuildID,
		leaselock.Options{TTL: 10 * time.Minute},
		func(ctx context.Context) error {
			return processBuild(ctx, s3Client, aiClient, conn, m)
		},
	)
}

func processBuild(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.Client,
	conn *pgxpool.Pool,
	m BuildMessage,
) error {
	db := pgxstore.NewBuildDBStorageWithConnection(conn)

	if err := db.MarkBuildRunning(ctx, m.BuildID); err != nil {
		return fmt.Errorf("could not mark build as running: %w", err)
	}

	export, err := runPipeline(ctx, s3Client, aiClient, db, m)
	if err != nil {
		if markErr := db.MarkBuildFinished(ctx, m.BuildID, common.BuildFailed, err.Error()); markErr != nil {
			logger.Error("[Queue] Failed to mark build as failed", "build_id", m.BuildID, "err", markErr)
		}
		return err
	}

	if err := db.SaveExport(ctx, m.BuildID, export); err != nil {
		return fmt.Errorf("could not save export: %w", err)
	}
	if err := db.MarkBuildFinished(ctx, m.BuildID, common.BuildDone, ""); err != nil {
		return fmt.Errorf("could not mark build as done: %w", err)
	}

	logger.Info(
		"[Queue] Build complete",
		"build_id", m.BuildID,
		"nodes", len(export.Nodes),
		"links", len(export.Links),
		"schools", len(export.Schools),
	)
	return nil
}

func runPipeline(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.Client,
	db *pgxstore.BuildDBStorage,
	m BuildMessage,
) (*common.GraphExport, error) {
	logger.Debug("[Queue] Starting dataset phase", "build_id", m.BuildID, "dataset_key", m.DatasetKey)
	datasetStart := time.Now()

	raw, err := storage.GetFile(ctx, s3Client, m.DatasetKey)
	if err != nil {
		return nil, fmt.Errorf("could not load dataset %s: %w", m.DatasetKey, err)
	}

	records, err := dataset.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("could not decode dataset %s: %w", m.DatasetKey, err)
	}
	decoded := len(records)
	records = dataset.Sanitize(records)

	logger.Debug(
		"[Queue] Dataset phase complete",
		"build_id", m.BuildID,
		"decoded", decoded,
		"sanitized", len(records),
		"duration", time.Since(datasetStart).String(),
	)

	logger.Debug("[Queue] Starting graph phase", "build_id", m.BuildID)
	graphStart := time.Now()

	g, ix, stats, err := graph.Build(records)
	if err != nil {
		return nil, fmt.Errorf("could not build graph: %w", err)
	}
	scores := graph.Rank(g)

	logger.Debug(
		"[Queue] Graph phase complete",
		"build_id", m.BuildID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"unresolved", stats.Unresolved,
		"pruned", stats.Pruned,
		"duration", time.Since(graphStart).String(),
	)

	logger.Debug("[Queue] Starting labeling phase", "build_id", m.BuildID)
	labelStart := time.Now()

	checkpoint, err := db.GetLabelCheckpoint(ctx, m.BuildID)
	if err != nil {
		return nil, fmt.Errorf("could not load label checkpoint: %w", err)
	}
	if len(checkpoint) > 0 {
		logger.Info("[Queue] Resuming from label checkpoint", "build_id", m.BuildID, "labels", len(checkpoint))
	}

	taxonomy := classify.DefaultTaxonomy()

	var classifier classify.TextClassifier
	if aiClient != nil {
		classifier = classify.NewModelClassifier(aiClient, taxonomy)
	} else {
		classifier = classify.NewKeywordClassifier(taxonomy)
	}

	cascade := &classify.Cascade{
		Taxonomy:    taxonomy,
		Fetcher:     wiki.NewFetcher(wiki.NewFetcherParams{}),
		Classifier:  classifier,
		Preassigned: checkpoint,
		Checkpoint: func(ctx context.Context, labels map[string]string) error {
			return db.SaveLabelCheckpoint(ctx, m.BuildID, labels)
		},
	}

	result, err := cascade.Run(ctx, records, g, ix)
	if err != nil {
		return nil, fmt.Errorf("could not assign labels: %w", err)
	}

	logger.Debug(
		"[Queue] Labeling phase complete",
		"build_id", m.BuildID,
		"duration", time.Since(labelStart).String(),
	)

	export := graph.BuildExport(records, g, scores, result.Labels, ix)
	return &export, nil
}
