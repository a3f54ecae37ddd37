// Package lock provides the advisory per-calendar lock held around a booking's check-and-insert.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotAcquired = errors.New("calendar lock not acquired in time")

// Locker serialises work on a key. The returned release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// CalendarKey names the lock for one resource's day.
func CalendarKey(prefix, resourceID, date string) string {
	return fmt.Sprintf("%s%s:%s", prefix, resourceID, date)
}

var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX and a token-checked delete.
type RedisLocker struct {
	Client     *redis.Client
	TTL        time.Duration
	Wait       time.Duration
	RetryEvery time.Duration
	Logger     *zap.Logger
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	retry := l.RetryEvery
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	deadline := time.Now().Add(l.Wait)

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					if err := unlockScript.Run(ctx, l.Client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
						l.Logger.Warn("failed to release calendar lock", zap.String("key", key), zap.Error(err))
					}
				})
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry):
		}
	}
}

// LocalLocker implements Locker within a single process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]chan struct{})}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}
