package pgx

import (
	"context"
	"fmt"

	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/store"
)

// CreateBuild inserts a new build row in queued state.
func (s *BuildDBStorage) CreateBuild(ctx context.Context, build common.Build) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err := s.conn.Exec(ctx, `
		INSERT INTO builds (id, dataset_key, status, created_at)
		VALUES ($1, $2, $3, now())
	`, build.ID, build.DatasetKey, common.BuildQueued)
	if err != nil {
		return fmt.Errorf("failed to create build: %w", err)
	}
	return nil
}

// GetBuild fetches one build by identifier.
func (s *BuildDBStorage) GetBuild(ctx context.Context, id string) (common.Build, error) {
	var build common.Build
	err := s.conn.QueryRow(ctx, `
		SELECT id, dataset_key, status, error, created_at, started_at, finished_at
		FROM builds
		WHERE id = $1
	`, id).Scan(
		&build.ID,
		&build.DatasetKey,
		&build.Status,
		&build.Error,
		&build.CreatedAt,
		&build.StartedAt,
		&build.FinishedAt,
	)
	if err != nil {
		return common.Build{}, mapNotFound(err)
	}
	return build, nil
}

// ListBuilds returns the most recent builds, newest first.
func (s *BuildDBStorage) ListBuilds(ctx context.Context, limit int32) ([]common.Build, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(ctx, `
		SELECT id, dataset_key, status, error, created_at, started_at, finished_at
		FROM builds
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []common.Build
	for rows.Next() {
		var build common.Build
		if err := rows.Scan(
			&build.ID,
			&build.DatasetKey,
			&build.Status,
			&build.Error,
			&build.CreatedAt,
			&build.StartedAt,
			&build.FinishedAt,
		); err != nil {
			return nil, err
		}
		builds = append(builds, build)
	}
	return builds, rows.Err()
}

// MarkBuildRunning transitions a build to running and stamps its start.
func (s *BuildDBStorage) MarkBuildRunning(ctx context.Context, id string) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		UPDATE builds
		SET status = $2, started_at = now()
		WHERE id = $1
	`, id, common.BuildRunning)
	if err != nil {
		return fmt.Errorf("failed to mark build running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("build %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// MarkBuildFinished transitions a build to done or failed.
func (s *BuildDBStorage) MarkBuildFinished(ctx context.Context, id string, status string, buildErr string) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tag, err := s.conn.Exec(ctx, `
		UPDATE builds
		SET status = $2, error = $3, finished_at = now()
		WHERE id = $1
	`, id, status, buildErr)
	if err != nil {
		return fmt.Errorf("failed to mark build finished: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("build %s: %w", id, store.ErrNotFound)
	}
	return nil
}
