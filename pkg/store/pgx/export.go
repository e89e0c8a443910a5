package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/econograph/backend/pkg/common"
)

// SaveExport stores the serialized graph for a build, replacing any
// earlier export of the same build.
func (s *BuildDBStorage) SaveExport(ctx context.Context, buildID string, export *common.GraphExport) error {
	payload, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("failed to marshal graph export: %w", err)
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO exports (build_id, graph, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (build_id) DO UPDATE
		SET graph = EXCLUDED.graph, created_at = now()
	`, buildID, payload)
	if err != nil {
		return fmt.Errorf("failed to save graph export: %w", err)
	}
	return nil
}

// GetExport fetches the serialized graph of one build.
func (s *BuildDBStorage) GetExport(ctx context.Context, buildID string) (*common.GraphExport, error) {
	var payload []byte
	err := s.conn.QueryRow(ctx, `
		SELECT graph FROM exports WHERE build_id = $1
	`, buildID).Scan(&payload)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var export common.GraphExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph export: %w", err)
	}
	return &export, nil
}

// GetLatestExport fetches the export of the most recently finished
// successful build.
func (s *BuildDBStorage) GetLatestExport(ctx context.Context) (*common.GraphExport, error) {
	var payload []byte
	err := s.conn.QueryRow(ctx, `
		SELECT e.graph
		FROM exports e
		JOIN builds b ON b.id = e.build_id
		WHERE b.status = $1
		ORDER BY b.finished_at DESC
		LIMIT 1
	`, common.BuildDone).Scan(&payload)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var export common.GraphExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph export: %w", err)
	}
	return &export, nil
}
