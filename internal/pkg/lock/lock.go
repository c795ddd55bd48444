// Package lock provides the short-lived mutual exclusion used to serialize
// concurrent claims for the same email.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// Locker acquires a named lock for at most ttl. Acquire fails with
// apperrors.ErrClaimInProgress when someone else holds the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

const keyPrefix = "academy:lock:"

// Release only deletes the key if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker implements Locker with SET NX PX on a shared Redis
type RedisLocker struct {
	client redis.UniversalClient
}

// NewRedisLocker creates a RedisLocker
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire implements Locker
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrClaimInProgress
	}

	return func() {
		// The request context may already be cancelled when release runs
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{keyPrefix + key}, token).Err()
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LocalLocker implements Locker inside a single process
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewLocalLocker creates a LocalLocker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]time.Time{}, clock: time.Now}
}

// Acquire implements Locker
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, apperrors.ErrClaimInProgress
	}
	until := now.Add(ttl)
	l.held[key] = until

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.held[key] == until {
				delete(l.held, key)
			}
		})
	}, nil
}
