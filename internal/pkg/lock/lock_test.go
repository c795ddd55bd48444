package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client), mr
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLocker(t)

	release, err := locker.Acquire(ctx, "claim:a@example.com", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"claim:a@example.com"))

	_, err = locker.Acquire(ctx, "claim:a@example.com", 10*time.Second)
	assert.ErrorIs(t, err, apperrors.ErrClaimInProgress)

	other, err := locker.Acquire(ctx, "claim:b@example.com", 10*time.Second)
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists(keyPrefix+"claim:a@example.com"))

	release2, err := locker.Acquire(ctx, "claim:a@example.com", 10*time.Second)
	require.NoError(t, err)
	release2()
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLocker(t)

	staleRelease, err := locker.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = locker.Acquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)

	staleRelease()
	assert.True(t, mr.Exists(keyPrefix+"k"))
}

func TestRedisLocker_Unavailable(t *testing.T) {
	locker, mr := newRedisLocker(t)
	mr.Close()

	_, err := locker.Acquire(context.Background(), "k", time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrClaimInProgress)
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	locker.clock = func() time.Time { return now }

	release, err := locker.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, apperrors.ErrClaimInProgress)

	release()
	release()

	_, err = locker.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = locker.Acquire(ctx, "k", time.Second)
	assert.NoError(t, err, "an expired lock can be taken over")
}
