package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedAccount struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_FillsAndCaches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fills := 0
	fill := func(dest *cachedAccount) func() error {
		return func() error {
			fills++
			*dest = cachedAccount{ID: 7, Username: "alice"}
			return nil
		}
	}

	var first cachedAccount
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fill(&first)))
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 1, fills)
	assert.True(t, mr.Exists(UserKey(7)))

	// Second read is served from the cache.
	var second cachedAccount
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fill(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fills)
}

func TestAside_FillErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	var dest cachedAccount
	wantErr := errors.New("row not found")
	err := Aside(context.Background(), UserKey(1), &dest, UserTTL, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAside_UnreadableEntryIsDropped(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(UserKey(3), "{corrupted json"))

	var dest cachedAccount
	fills := 0
	require.NoError(t, Aside(ctx, UserKey(3), &dest, UserTTL, func() error {
		fills++
		dest = cachedAccount{ID: 3, Username: "carol"}
		return nil
	}))
	assert.Equal(t, 1, fills)
	assert.Equal(t, "carol", dest.Username)

	// The corrupt entry was replaced by the fill result.
	payload, err := mr.Get(UserKey(3))
	require.NoError(t, err)
	assert.Contains(t, payload, "carol")
}

func TestAside_NoClientDegradesToFill(t *testing.T) {
	SetClient(nil)

	var dest cachedAccount
	require.NoError(t, Aside(context.Background(), UserKey(5), &dest, UserTTL, func() error {
		dest = cachedAccount{ID: 5, Username: "dave"}
		return nil
	}))
	assert.Equal(t, "dave", dest.Username)
}

func TestAside_TTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var dest cachedAccount
	require.NoError(t, Aside(ctx, UserKey(9), &dest, time.Minute, func() error {
		dest = cachedAccount{ID: 9}
		return nil
	}))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(UserKey(9)))
}

func TestInvalidateUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var dest cachedAccount
	require.NoError(t, Aside(ctx, UserKey(11), &dest, UserTTL, func() error {
		dest = cachedAccount{ID: 11}
		return nil
	}))
	require.True(t, mr.Exists(UserKey(11)))

	InvalidateUser(ctx, 11)
	assert.False(t, mr.Exists(UserKey(11)))
}

func TestInvalidate_NilClientIsNoop(t *testing.T) {
	SetClient(nil)
	// Must not panic.
	Invalidate(context.Background(), "whatever")
}
