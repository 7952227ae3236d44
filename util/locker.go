// api/util/locker.go

package util

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
)

// Locker serialises read-modify-write cycles per entity.
type Locker interface {
	// Lock acquires every key in sorted order and returns the function that releases
	// them. It fails with ErrLockTimeout once ctx ends or the configured wait elapses.
	Lock(ctx context.Context, keys ...string) (func(), error)
}

func RoleLockKey(roleID string) string { return "role:" + roleID }
func UserLockKey(userID string) string { return "user:" + userID }
func TeamLockKey(teamID string) string { return "team:" + teamID }

// Name keys guard uniqueness checks for values that are not yet ids.
func RoleNameLockKey(name string) string { return "rolename:" + name }
func EmailLockKey(email string) string   { return "email:" + email }
func TeamNameLockKey(name string) string { return "teamname:" + strings.ToLower(name) }

func sortedKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type acquirer interface {
	acquire(ctx context.Context, key string) (release func(), err error)
}

func lockAll(ctx context.Context, a acquirer, wait time.Duration, keys []string) (func(), error) {
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	keys = sortedKeys(keys)
	releases := make([]func(), 0, len(keys))
	unlock := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range keys {
		release, err := a.acquire(ctx, key)
		if err != nil {
			unlock()
			return nil, err
		}
		releases = append(releases, release)
	}

	var once sync.Once
	return func() { once.Do(unlock) }, nil
}

func lockTimeout(key string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ta_errors.ErrLockTimeout, key, cause)
}

// LocalLocker keeps one semaphore per key inside the process. Entries are dropped once
// nobody holds or waits for them.
type LocalLocker struct {
	wait  time.Duration
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{wait: wait, locks: make(map[string]*localLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	return lockAll(ctx, l, l.wait, keys)
}

func (l *LocalLocker) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
		return func() { l.release(key, lk, true) }, nil
	case <-ctx.Done():
		l.release(key, lk, false)
		return nil, lockTimeout(key, ctx.Err())
	}
}

func (l *LocalLocker) release(key string, lk *localLock, held bool) {
	if held {
		<-lk.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}

// held reports how many keys currently have holders or waiters.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// unlockScript deletes the lock only while it still carries the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// renewScript extends the lease only while the lock still carries the caller's token.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker shares locks between instances with SET NX PX. Every holder writes its own
// token so an expired holder cannot release a lock someone else has since taken. The
// lease is renewed every ttl/3 while held.
type RedisLocker struct {
	client redis.Cmdable
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client redis.Cmdable, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, retry: 25 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	return lockAll(ctx, l, l.wait, keys)
}

func (l *RedisLocker) acquire(ctx context.Context, key string) (func(), error) {
	redisKey := "lock:" + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, lockTimeout(key, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			logger.Debug("Lock acquired", zap.String("key", key))
			stop := l.keepAlive(redisKey, token)
			return func() {
				stop()
				l.release(redisKey, token)
			}, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lockTimeout(key, ctx.Err())
		case <-timer.C:
		}
	}
}

// keepAlive renews the lease until the returned stop func is called or the token is gone.
func (l *RedisLocker) keepAlive(redisKey, token string) (stop func()) {
	if l.ttl <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		ticker := time.NewTicker(l.ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
			if !l.renew(redisKey, token) {
				return
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

// renew reports whether the lease should keep being renewed.
func (l *RedisLocker) renew(redisKey, token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
	defer cancel()

	n, err := renewScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int()
	switch {
	case err != nil:
		// a later tick may still land before the lease runs out
		logger.Warn("Failed to renew lock", zap.Error(err), zap.String("key", redisKey))
		return true
	case n == 0:
		logger.Warn("Lock lost before release", zap.String("key", redisKey))
		return false
	}
	return true
}

func (l *RedisLocker) release(redisKey, token string) {
	// The caller's context may already be done; release on its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := unlockScript.Run(ctx, l.client, []string{redisKey}, token).Int()
	switch {
	case err != nil:
		logger.Error("Failed to release lock", zap.Error(err), zap.String("key", redisKey))
		return
	case n == 0:
		logger.Warn("Lock expired or was taken over before release", zap.String("key", redisKey))
		return
	}
	logger.Debug("Lock released", zap.String("key", redisKey))
}
