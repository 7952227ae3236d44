package util

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
)

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"role:a", "user:b"}, sortedKeys([]string{"user:b", "", "role:a", "user:b"}))
}

func lockers(t *testing.T) map[string]Locker {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Locker{
		"local": NewLocalLocker(200 * time.Millisecond),
		"redis": NewRedisLocker(client, 5*time.Second, 200*time.Millisecond),
	}
}

func TestLockerMutualExclusion(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			locker := locker
			if l, ok := locker.(*LocalLocker); ok {
				l.wait = 5 * time.Second
			}
			if l, ok := locker.(*RedisLocker); ok {
				l.wait = 5 * time.Second
				l.retry = time.Millisecond
			}

			var inside, maxInside int32
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := locker.Lock(context.Background(), RoleLockKey("r1"), UserLockKey("u1"))
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(time.Millisecond)
					atomic.AddInt32(&inside, -1)
					unlock()
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestLockerTimeout(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := locker.Lock(context.Background(), TeamLockKey("t1"))
			require.NoError(t, err)

			_, err = locker.Lock(context.Background(), TeamLockKey("t1"))
			assert.ErrorIs(t, err, ta_errors.ErrLockTimeout)

			unlock()
			unlock()

			again, err := locker.Lock(context.Background(), TeamLockKey("t1"))
			require.NoError(t, err)
			again()
		})
	}
}

func TestLockerReleasesPartialAcquisition(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := locker.Lock(context.Background(), UserLockKey("u1"))
			require.NoError(t, err)

			// role:r1 sorts before user:u1 and is taken first, then given back.
			_, err = locker.Lock(context.Background(), UserLockKey("u1"), RoleLockKey("r1"))
			assert.ErrorIs(t, err, ta_errors.ErrLockTimeout)

			other, err := locker.Lock(context.Background(), RoleLockKey("r1"))
			require.NoError(t, err)
			other()
			unlock()
		})
	}
}

func TestLocalLockerDropsIdleEntries(t *testing.T) {
	l := NewLocalLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, l.held())
	unlock()
	assert.Equal(t, 0, l.held())
}

func TestRedisLockerKeepsForeignToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	l := NewRedisLocker(client, time.Second, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "role:r1")
	require.NoError(t, err)

	// The lock expired and another instance took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:role:r1", "someone-else"))

	unlock()
	got, err := mr.Get("lock:role:r1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockerRenewsLeaseWhileHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	l := NewRedisLocker(client, 300*time.Millisecond, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "role:r1")
	require.NoError(t, err)

	// Most of the lease passes; the next renewal restores it.
	mr.FastForward(250 * time.Millisecond)
	require.Eventually(t, func() bool {
		return mr.TTL("lock:role:r1") > 200*time.Millisecond
	}, 2*time.Second, 10*time.Millisecond)

	mr.FastForward(250 * time.Millisecond)
	assert.True(t, mr.Exists("lock:role:r1"))

	unlock()
	assert.False(t, mr.Exists("lock:role:r1"))
}

func TestRedisLockerStopsRenewingLostLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	l := NewRedisLocker(client, 300*time.Millisecond, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "role:r1")
	require.NoError(t, err)
	defer unlock()

	mr.FastForward(time.Second)
	require.False(t, mr.Exists("lock:role:r1"))
	require.NoError(t, mr.Set("lock:role:r1", "someone-else"))

	// A renewal must not extend a lease it no longer owns.
	time.Sleep(250 * time.Millisecond)
	assert.Zero(t, mr.TTL("lock:role:r1"))
	got, err := mr.Get("lock:role:r1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
