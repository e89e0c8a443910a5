package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/econograph/backend/pkg/store"
)

// SaveLabelCheckpoint stores the label map of a partially classified
// build so an interrupted run can resume without repeating model calls.
func (s *BuildDBStorage) SaveLabelCheckpoint(ctx context.Context, buildID string, labels map[string]string) error {
	payload, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to marshal label checkpoint: %w", err)
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO label_checkpoints (build_id, labels, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (build_id) DO UPDATE
		SET labels = EXCLUDED.labels, updated_at = now()
	`, buildID, payload)
	if err != nil {
		return fmt.Errorf("failed to save label checkpoint: %w", err)
	}
	return nil
}

// GetLabelCheckpoint fetches the stored label map of a build. A build
// without a checkpoint returns an empty map.
func (s *BuildDBStorage) GetLabelCheckpoint(ctx context.Context, buildID string) (map[string]string, error) {
	var payload []byte
	err := s.conn.QueryRow(ctx, `
		SELECT labels FROM label_checkpoints WHERE build_id = $1
	`, buildID).Scan(&payload)
	if err != nil {
		if errors.Is(mapNotFound(err), store.ErrNotFound) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	labels := make(map[string]string)
	if err := json.Unmarshal(payload, &labels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal label checkpoint: %w", err)
	}
	return labels, nil
}
