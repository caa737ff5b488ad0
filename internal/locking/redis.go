package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock re-acquired by another instance is never released by us.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker serializes admissions across several server instances. Each
// lock is a key set with NX and a TTL; the TTL bounds how long a crashed
// holder can block a chalet.
type RedisLocker struct {
	client        redis.Cmdable
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	newToken      func() string
	logger        *zap.Logger
}

func NewRedisLocker(client redis.Cmdable, prefix string, ttl, retryInterval time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client:        client,
		prefix:        prefix,
		ttl:           ttl,
		retryInterval: retryInterval,
		newToken:      uuid.NewString,
		logger:        logger,
	}
}

func (l *RedisLocker) key(id int64) string {
	return fmt.Sprintf("%s:%d", l.prefix, id)
}

func (l *RedisLocker) Lock(ctx context.Context, id int64) (Unlock, error) {
	key := l.key(id)
	token := l.newToken()

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if acquired {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for lock %s: %w", key, ctx.Err())
		case <-time.After(l.retryInterval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := l.client.Eval(context.Background(), releaseScript, []string{key}, token).Err(); err != nil {
				l.logger.Error("Failed to release chalet lock", zap.Error(err), zap.String("key", key))
			}
		})
	}, nil
}
