package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	// non-zero DB to verify it's set
	c, err := OpenRedis(s.Addr(), "", 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	v, err := c.Get(ctx, "k").Result()
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if v != "v" {
		t.Fatalf("GET value = %q, want %q", v, "v")
	}
}

func TestOpenRedis_Password(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("s3cret")

	_, err := OpenRedis(s.Addr(), "wrong", 0)
	assert.Error(t, err)

	c, err := OpenRedis(s.Addr(), "s3cret", 0)
	require.NoError(t, err)
	_ = c.Close()
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host fails the ping right away
	if _, err := OpenRedis("not-a-real-host:6379", "", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestLock_AcquireRelease(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	l, err := Acquire(ctx, c, "lock:sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, s.Exists("lock:sweep"))

	_, err = Acquire(ctx, c, "lock:sweep", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, l.Release(ctx))
	assert.False(t, s.Exists("lock:sweep"))

	again, err := Acquire(ctx, c, "lock:sweep", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestLock_ReleaseKeepsForeignHolder(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	l, err := Acquire(ctx, c, "lock:sweep", time.Second)
	require.NoError(t, err)

	// lease expires and someone else takes it
	s.FastForward(2 * time.Second)
	other, err := Acquire(ctx, c, "lock:sweep", time.Minute)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx))
	assert.True(t, s.Exists("lock:sweep"), "stale holder must not drop the new lease")
	require.NoError(t, other.Release(ctx))
}
