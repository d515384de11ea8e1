package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLocker(rdb, "skillcheck:"), mr
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t)

	ok, err := l.Acquire(ctx, "k", "one", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("skillcheck:k"))

	ok, err = l.Acquire(ctx, "k", "two", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Acquire(ctx, "k", "one", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "reacquire by the holder succeeds")

	// Release by a non-holder leaves the lock in place.
	require.NoError(t, l.Release(ctx, "k", "two"))
	assert.True(t, mr.Exists("skillcheck:k"))

	require.NoError(t, l.Release(ctx, "k", "one"))
	assert.False(t, mr.Exists("skillcheck:k"))
}

func TestRedisLockerExpiryAndRefresh(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t)

	ok, err := l.Acquire(ctx, "k", "one", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(40 * time.Second)
	require.NoError(t, l.Refresh(ctx, "k", "one", time.Minute))
	mr.FastForward(40 * time.Second)
	assert.True(t, mr.Exists("skillcheck:k"), "refresh extended the ttl")

	mr.FastForward(time.Minute)
	ok, err = l.Acquire(ctx, "k", "two", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken")

	got, err := mr.Get("skillcheck:k")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestRegistryWithRedisLocker(t *testing.T) {
	ctx := context.Background()
	l, _ := newRedisLocker(t)
	a := New(l, time.Hour, nil)
	b := New(l, time.Hour, nil)

	s := newSession(t, "ada", "go")
	require.NoError(t, a.Create(ctx, s))
	assert.ErrorIs(t, b.Create(ctx, newSession(t, "ada", "go")), ErrSessionLive)
	require.NoError(t, a.Delete(ctx, s.ID(), "ada"))
	require.NoError(t, b.Create(ctx, newSession(t, "ada", "go")))
}

func TestMemoryLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	m := NewMemoryLocker()
	m.now = func() time.Time { return now }

	ok, _ := m.Acquire(ctx, "k", "one", time.Second)
	if !ok {
		t.Fatal("first acquire failed")
	}
	if ok, _ := m.Acquire(ctx, "k", "two", time.Second); ok {
		t.Fatal("acquire of held lock succeeded")
	}
	now = now.Add(2 * time.Second)
	if ok, _ := m.Acquire(ctx, "k", "two", time.Second); !ok {
		t.Fatal("acquire of expired lock failed")
	}
}
