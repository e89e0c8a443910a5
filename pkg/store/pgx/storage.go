package pgx

import (
	"context"
	"errors"
	"sync"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/econograph/backend/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// BuildDBStorage implements the store.BuildStorage interface on
// PostgreSQL. Graph exports and label checkpoints are stored as JSONB
// next to their build row.
type BuildDBStorage struct {
	conn   pgxIConn
	dbLock sync.Mutex
}

// NewBuildDBStorageWithConnection creates a BuildDBStorage using an
// existing database connection or pool.
func NewBuildDBStorageWithConnection(conn pgxIConn) *BuildDBStorage {
	return &BuildDBStorage{
		conn:   conn,
		dbLock: sync.Mutex{},
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgxv5.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
