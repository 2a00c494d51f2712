package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, idle time.Duration, maxAttempts int) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, idle, maxAttempts), mr
}

func TestSessionLifecycle(t *testing.T) {
	store, _ := newTestStore(t, time.Hour, 5)
	ctx := context.Background()

	actorID := uuid.New()
	token, err := store.Start(ctx, actorID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Touch(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, actorID, got)

	require.NoError(t, store.End(ctx, token))

	_, err = store.Touch(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionIdleTimeout(t *testing.T) {
	store, mr := newTestStore(t, 30*time.Minute, 5)
	ctx := context.Background()

	token, err := store.Start(ctx, uuid.New())
	require.NoError(t, err)

	// Activity inside the window keeps the session alive past the original TTL.
	mr.FastForward(20 * time.Minute)
	_, err = store.Touch(ctx, token)
	require.NoError(t, err)

	mr.FastForward(25 * time.Minute)
	_, err = store.Touch(ctx, token)
	require.NoError(t, err)

	// Going quiet for longer than the timeout invalidates the session.
	mr.FastForward(31 * time.Minute)
	_, err = store.Touch(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLoginAttemptLockout(t *testing.T) {
	store, _ := newTestStore(t, time.Hour, 3)
	ctx := context.Background()

	locked, err := store.Locked(ctx, "frontdesk")
	require.NoError(t, err)
	assert.False(t, locked)

	for i := 1; i <= 2; i++ {
		n, lockedNow, err := store.RecordLoginFailure(ctx, "frontdesk")
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.False(t, lockedNow)
	}

	n, lockedNow, err := store.RecordLoginFailure(ctx, "frontdesk")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, lockedNow)

	locked, err = store.Locked(ctx, "frontdesk")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, store.ClearLoginFailures(ctx, "frontdesk"))
	locked, err = store.Locked(ctx, "frontdesk")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLockoutWindowExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Hour, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := store.RecordLoginFailure(ctx, "oncall")
		require.NoError(t, err)
	}

	mr.FastForward(16 * time.Minute)

	locked, err := store.Locked(ctx, "oncall")
	require.NoError(t, err)
	assert.False(t, locked)
}
