package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
)

func newVerificationService(kv *memKV) *VerificationService {
	cfg := config.VerificationConfig{
		CodeTTL:    5 * time.Minute,
		RateLimit:  5,
		RateWindow: time.Hour,
	}
	return NewVerificationService(kv, cfg, zap.NewNop())
}

func TestVerificationService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	code, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.GreaterOrEqual(t, code, "100000")
	assert.LessOrEqual(t, code, "999999")

	ok, err := svc.Verify(ctx, "email", "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	// Single-use: a second verify with the same code fails.
	ok, err = svc.Verify(ctx, "email", "a@x.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerificationService_VerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	code, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	ok, err := svc.Verify(ctx, "email", "a@x.com", wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	// A wrong guess does not consume the stored code.
	ok, err = svc.Verify(ctx, "email", "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerificationService_VerifyNeverIssued(t *testing.T) {
	ctx := context.Background()
	svc := newVerificationService(newMemKV())

	ok, err := svc.Verify(ctx, "email", "nobody@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerificationService_CodeExpires(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	code, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)

	kv.Advance(5*time.Minute + time.Second)

	ok, err := svc.Verify(ctx, "email", "a@x.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerificationService_LastIssuedWins(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	first, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)

	if first != second {
		ok, err := svc.Verify(ctx, "email", "a@x.com", first)
		require.NoError(t, err)
		assert.False(t, ok, "the earlier code must be overwritten")
	}
	ok, err := svc.Verify(ctx, "email", "a@x.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerificationService_RateLimit(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	for i := 0; i < 5; i++ {
		_, err := svc.Issue(ctx, "email", "a@x.com")
		require.NoError(t, err, "issue %d should be allowed", i+1)
	}

	_, err := svc.Issue(ctx, "email", "a@x.com")
	assert.ErrorIs(t, err, domainErrors.ErrRateLimitExceeded)

	// A different destination has its own counter.
	_, err = svc.Issue(ctx, "email", "b@x.com")
	assert.NoError(t, err)

	// So does a different channel type for the same destination.
	_, err = svc.Issue(ctx, "sms", "a@x.com")
	assert.NoError(t, err)
}

func TestVerificationService_RateWindowRolls(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	for i := 0; i < 5; i++ {
		_, err := svc.Issue(ctx, "email", "a@x.com")
		require.NoError(t, err)
	}
	_, err := svc.Issue(ctx, "email", "a@x.com")
	require.ErrorIs(t, err, domainErrors.ErrRateLimitExceeded)

	kv.Advance(time.Hour + time.Minute)

	_, err = svc.Issue(ctx, "email", "a@x.com")
	assert.NoError(t, err, "the counter must expire with its window")
}

func TestVerificationService_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	svc := newVerificationService(kv)

	code, err := svc.Issue(ctx, "email", "a@x.com")
	require.NoError(t, err)

	kv.FailNext()
	_, err = svc.Verify(ctx, "email", "a@x.com", code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainErrors.ErrStoreUnavailable),
		"store failures must not be reported as a failed verification")
}
