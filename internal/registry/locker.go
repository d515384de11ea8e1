package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Locker grants exclusive, expiring ownership of a key. It backs the "one
// live session per learner and skill" rule across processes.
type Locker interface {
	// Acquire takes key for owner. It returns false when another owner
	// holds an unexpired lock.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Refresh extends the lock if owner still holds it.
	Refresh(ctx context.Context, key, owner string, ttl time.Duration) error

	// Release drops the lock if owner holds it.
	Release(ctx context.Context, key, owner string) error
}

type memLock struct {
	owner   string
	expires time.Time
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memLock
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]memLock), now: time.Now}
}

func (m *MemoryLocker) Acquire(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if l, ok := m.locks[key]; ok && l.owner != owner && now.Before(l.expires) {
		return false, nil
	}
	m.locks[key] = memLock{owner: owner, expires: now.Add(ttl)}
	return true, nil
}

func (m *MemoryLocker) Refresh(_ context.Context, key, owner string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.locks[key]; ok && l.owner == owner {
		l.expires = m.now().Add(ttl)
		m.locks[key] = l
	}
	return nil
}

func (m *MemoryLocker) Release(_ context.Context, key, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.locks[key]; ok && l.owner == owner {
		delete(m.locks, key)
	}
	return nil
}

var (
	releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// RedisLocker stores locks as Redis keys set with NX and a TTL. Release and
// refresh compare the owner in a script so a lock taken over after expiry
// is never touched.
type RedisLocker struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisLocker(rdb *goredis.Client, prefix string) *RedisLocker {
	return &RedisLocker{rdb: rdb, prefix: prefix}
}

func (r *RedisLocker) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, r.prefix+key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		return true, nil
	}
	cur, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err == goredis.Nil {
		// Expired between SETNX and GET.
		return r.Acquire(ctx, key, owner, ttl)
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	return cur == owner, nil
}

func (r *RedisLocker) Refresh(ctx context.Context, key, owner string, ttl time.Duration) error {
	if err := refreshScript.Run(ctx, r.rdb, []string{r.prefix + key}, owner, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis refresh lock: %w", err)
	}
	return nil
}

func (r *RedisLocker) Release(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, r.rdb, []string{r.prefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("redis release lock: %w", err)
	}
	return nil
}

// DialRedis connects to addr and pings it.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
