package lock

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

// Mutex is an advisory, named, shared lock. Lock fails fast when another
// holder owns the name; it does not queue.
type Mutex interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) (bool, error)
}

// Locker hands out named mutexes. hold is the lock expiry: it must cover the
// job's worst-case duration plus clock skew between replicas, since the lock
// silently expires after it.
type Locker interface {
	NewMutex(name string, hold time.Duration) Mutex
}

type redisLocker struct {
	rs *redsync.Redsync
}

// NewRedisLocker builds a Locker on a shared redis connection.
func NewRedisLocker(client *goredislib.Client) Locker {
	pool := goredis.NewPool(client)
	return &redisLocker{rs: redsync.New(pool)}
}

func (l *redisLocker) NewMutex(name string, hold time.Duration) Mutex {
	return &redisMutex{
		mu: l.rs.NewMutex("lock:"+name,
			redsync.WithExpiry(hold),
			redsync.WithTries(1)),
	}
}

type redisMutex struct {
	mu *redsync.Mutex
}

func (m *redisMutex) Lock(ctx context.Context) error {
	return m.mu.LockContext(ctx)
}

func (m *redisMutex) Unlock(ctx context.Context) (bool, error) {
	return m.mu.UnlockContext(ctx)
}
