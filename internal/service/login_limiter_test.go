package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
)

func newLoginLimiter(kv *memKV, block bool) *LoginLimiter {
	cfg := config.LockoutConfig{
		MaxFailedAttempts: 5,
		FailureWindow:     15 * time.Minute,
		Block:             block,
	}
	return NewLoginLimiter(kv, cfg, zap.NewNop())
}

func TestLoginLimiter_CountsFailures(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, false)

	count, err := limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	}

	count, err = limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestLoginLimiter_ResetModeClearsAtThreshold(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, false)

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	}

	// At the threshold the counter is deleted and zero comes back.
	count, err := limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLoginLimiter_BlockModeRejectsAtThreshold(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, true)

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	}

	_, err := limiter.Check(ctx, "alice")
	assert.ErrorIs(t, err, domainErrors.ErrUserLockedOut)

	// Block mode keeps the counter, so the lockout persists.
	_, err = limiter.Check(ctx, "alice")
	assert.ErrorIs(t, err, domainErrors.ErrUserLockedOut)
}

func TestLoginLimiter_BlockExpiresWithWindow(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, true)

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	}
	_, err := limiter.Check(ctx, "alice")
	require.ErrorIs(t, err, domainErrors.ErrUserLockedOut)

	kv.Advance(15*time.Minute + time.Second)

	count, err := limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLoginLimiter_Clear(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, false)

	require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	require.NoError(t, limiter.Clear(ctx, "alice"))

	count, err := limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLoginLimiter_IdentitiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	limiter := newLoginLimiter(kv, false)

	require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	require.NoError(t, limiter.RecordFailure(ctx, "alice"))
	require.NoError(t, limiter.RecordFailure(ctx, "bob"))

	count, err := limiter.Check(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = limiter.Check(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
