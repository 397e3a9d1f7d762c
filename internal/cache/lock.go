package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix = "lock:"

	DefaultLockTTL  = 10 * time.Second
	DefaultLockWait = 5 * time.Second

	lockPollInterval = 50 * time.Millisecond
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker hands out cross-process mutual exclusion keyed by name.
type Locker interface {
	// Acquire takes lock:<key> for ttl. wait bounds how long to keep trying;
	// zero means try once and return ErrLockNotAcquired if held.
	Acquire(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error)
}

// Lock is a held lock. Release is safe to call more than once and tolerates
// the lock having already expired.
type Lock struct {
	key     string
	token   string
	release func(ctx context.Context, key, token string) (bool, error)
	logger  *slog.Logger
}

func (l *Lock) Key() string { return l.key }

func (l *Lock) Release(ctx context.Context) error {
	if l.release == nil {
		return nil
	}
	released, err := l.release(ctx, l.key, l.token)
	l.release = nil
	if err != nil {
		return fmt.Errorf("releasing %s: %w", l.key, err)
	}
	if !released {
		l.logger.WarnContext(ctx, "lock expired before release", "lock_key", l.key)
	}
	return nil
}

// WithLock runs fn while holding key and releases on every exit path,
// including panics.
func WithLock(ctx context.Context, locker Locker, key string, ttl, wait time.Duration, fn func(ctx context.Context) error) error {
	lock, err := locker.Acquire(ctx, key, ttl, wait)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.ErrorContext(ctx, "failed to release lock", "lock_key", lock.Key(), "error", err)
		}
	}()
	return fn(ctx)
}

// releaseScript deletes the lock only if this holder still owns it.
// KEYS[1] = lock key, ARGV[1] = owner token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client redis.Scripter
	cache  Cache
	logger *slog.Logger
}

// scriptingClient is the subset of go-redis the locker needs.
type scriptingClient interface {
	redis.Cmdable
	redis.Scripter
}

func NewRedisLocker(client scriptingClient, logger *slog.Logger) Locker {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisLocker{client: client, cache: NewRedis(client), logger: logger}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error) {
	token := uuid.NewString()
	full := lockPrefix + key
	if err := acquire(ctx, l.cache, full, token, ttl, wait); err != nil {
		return nil, err
	}
	return &Lock{
		key:    full,
		token:  token,
		logger: l.logger,
		release: func(ctx context.Context, key, token string) (bool, error) {
			n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
			if err != nil {
				return false, err
			}
			return n == 1, nil
		},
	}, nil
}

type memoryLocker struct {
	mem    *Memory
	logger *slog.Logger
}

// NewMemoryLocker builds a Locker over a Memory cache for tests and
// single-process setups.
func NewMemoryLocker(mem *Memory) Locker {
	return &memoryLocker{mem: mem, logger: slog.Default()}
}

func (l *memoryLocker) Acquire(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error) {
	token := uuid.NewString()
	full := lockPrefix + key
	if err := acquire(ctx, l.mem, full, token, ttl, wait); err != nil {
		return nil, err
	}
	return &Lock{
		key:    full,
		token:  token,
		logger: l.logger,
		release: func(_ context.Context, key, token string) (bool, error) {
			return l.mem.compareAndDelete(key, []byte(token)), nil
		},
	}, nil
}

func acquire(ctx context.Context, c Cache, key, token string, ttl, wait time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	ok, err := c.SetNX(ctx, key, []byte(token), ttl)
	if err != nil {
		return fmt.Errorf("acquiring %s: %w", key, err)
	}
	if ok {
		return nil
	}
	if wait <= 0 {
		return fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
	}

	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: %s after %s", ErrLockNotAcquired, key, wait)
		case <-ticker.C:
			ok, err := c.SetNX(ctx, key, []byte(token), ttl)
			if err != nil {
				return fmt.Errorf("acquiring %s: %w", key, err)
			}
			if ok {
				return nil
			}
		}
	}
}
