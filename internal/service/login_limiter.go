package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/repository"
)

const loginFailPrefix = "user:login:fail:"

// LoginLimiter tracks failed login attempts per identity in a sliding
// TTL window. Counts are best-effort under concurrency; they only need to be
// monotonic enough to eventually reach the threshold.
//
// Two policies exist at the threshold. Block mode rejects further attempts
// until the window lapses. Reset mode deletes the counter and lets the
// attempt through, which matches the service this one replaces.
// TODO: flip the default to block once downstream clients handle 403 on login.
type LoginLimiter struct {
	kv     repository.KeyValueStore
	cfg    config.LockoutConfig
	logger *zap.Logger
}

// NewLoginLimiter creates a new LoginLimiter.
func NewLoginLimiter(kv repository.KeyValueStore, cfg config.LockoutConfig, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		kv:     kv,
		cfg:    cfg,
		logger: logger,
	}
}

func failKey(identity string) string {
	return loginFailPrefix + identity
}

// RecordFailure increments the failure counter for the identity, starting
// the failure window when the counter is created.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identity string) error {
	count, err := l.kv.Increment(ctx, failKey(identity))
	if err != nil {
		return err
	}
	if count == 1 {
		if err := l.kv.Expire(ctx, failKey(identity), l.cfg.FailureWindow); err != nil {
			return err
		}
	}
	l.logger.Debug("Login failure recorded",
		zap.String("identity", identity),
		zap.Int64("count", count),
	)
	return nil
}

// Check reads the current failure count and applies the threshold policy.
// Below the threshold it returns the count unchanged. At or above it, block
// mode returns ErrUserLockedOut while reset mode deletes the counter and
// returns 0.
func (l *LoginLimiter) Check(ctx context.Context, identity string) (int64, error) {
	value, err := l.kv.Get(ctx, failKey(identity))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed failure counter for %s: %w", identity, err)
	}

	if count >= int64(l.cfg.MaxFailedAttempts) {
		if l.cfg.Block {
			l.logger.Warn("Login blocked by failure threshold",
				zap.String("identity", identity),
				zap.Int64("count", count),
			)
			return count, domainErrors.ErrUserLockedOut
		}
		if err := l.kv.Delete(ctx, failKey(identity)); err != nil {
			return 0, err
		}
		l.logger.Warn("Failure counter reset at threshold",
			zap.String("identity", identity),
			zap.Int64("count", count),
		)
		return 0, nil
	}
	return count, nil
}

// Clear deletes the failure counter, called after a successful login.
func (l *LoginLimiter) Clear(ctx context.Context, identity string) error {
	return l.kv.Delete(ctx, failKey(identity))
}
