package locking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	locker := NewRedisLocker(client, "chalet-lock", 5*time.Second, time.Millisecond, zap.NewNop())
	locker.newToken = func() string { return "token-1" }
	return locker, mock
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	locker, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("chalet-lock:14", "token-1", 5*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"chalet-lock:14"}, "token-1").SetVal(int64(1))

	unlock, err := locker.Lock(context.Background(), 14)
	require.NoError(t, err)
	unlock()
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerRetriesWhileHeld(t *testing.T) {
	locker, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("chalet-lock:13", "token-1", 5*time.Second).SetVal(false)
	mock.ExpectSetNX("chalet-lock:13", "token-1", 5*time.Second).SetVal(false)
	mock.ExpectSetNX("chalet-lock:13", "token-1", 5*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"chalet-lock:13"}, "token-1").SetVal(int64(1))

	unlock, err := locker.Lock(context.Background(), 13)
	require.NoError(t, err)
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerGivesUpOnContext(t *testing.T) {
	locker, mock := newTestRedisLocker(t)
	locker.retryInterval = time.Hour

	mock.ExpectSetNX("chalet-lock:26", "token-1", 5*time.Second).SetVal(false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := locker.Lock(ctx, 26)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerSetNXError(t *testing.T) {
	locker, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("chalet-lock:1", "token-1", 5*time.Second).SetErr(errors.New("connection refused"))

	_, err := locker.Lock(context.Background(), 1)
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisLockerReleaseErrorIsLogged(t *testing.T) {
	locker, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("chalet-lock:2", "token-1", 5*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"chalet-lock:2"}, "token-1").SetErr(errors.New("timeout"))

	unlock, err := locker.Lock(context.Background(), 2)
	require.NoError(t, err)
	assert.NotPanics(t, assert.PanicTestFunc(unlock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
