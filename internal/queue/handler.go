package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// RecoverStaleBuilds re-enqueues builds that are still marked running
// but whose message was lost, typically after a worker crash. Builds
// younger than the threshold are left alone since a worker may still be
// processing them.
func RecoverStaleBuilds(ctx context.Context, conn *pgxpool.Pool, ch *amqp091.Channel) error {
	rows, err := conn.Query(
		ctx,
		`SELECT id, dataset_key
		 FROM builds
		 WHERE status = $1
		   AND started_at < now() - interval '30 minutes'`,
		common.BuildRunning,
	)
	if err != nil {
		return fmt.Errorf("could not query stale builds: %w", err)
	}
	defer rows.Close()

	type stale struct {
		id         string
		datasetKey string
	}
	var found []stale
	for rows.Next() {
		var s stale
		if err := rows.Scan(&s.id, &s.datasetKey); err != nil {
			return fmt.Errorf("could not scan stale build: %w", err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, s := range found {
		body, err := json.Marshal(BuildMessage{BuildID: s.id, DatasetKey: s.datasetKey})
		if err != nil {
			return err
		}

		if _, err := conn.Exec(
			ctx,
			`UPDATE builds SET status = $1 WHERE id = $2`,
			common.BuildQueued,
			s.id,
		); err != nil {
			return fmt.Errorf("could not reset stale build %s: %w", s.id, err)
		}

		if err := PublishFIFO(ch, BuildQueue, body); err != nil {
			return fmt.Errorf("could not re-enqueue stale build %s: %w", s.id, err)
		}
		logger.Info("[Queue] Re-enqueued stale build", "build_id", s.id)
	}

	return nil
}
