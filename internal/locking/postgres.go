package locking

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresLocker takes a session-level advisory lock keyed by chalet id. The
// lock lives on a pool connection that is held until Unlock.
type PostgresLocker struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresLocker(pool *pgxpool.Pool, logger *zap.Logger) *PostgresLocker {
	return &PostgresLocker{pool: pool, logger: logger}
}

func (l *PostgresLocker) Lock(ctx context.Context, key int64) (Unlock, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for advisory lock: %w", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, key); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to take advisory lock %d: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			defer conn.Release()
			if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, key); err != nil {
				l.logger.Error("Failed to release advisory lock, dropping connection",
					zap.Error(err), zap.Int64("chalet_id", key))
				// closing the session releases every lock it still holds
				conn.Conn().Close(context.Background())
			}
		})
	}, nil
}
