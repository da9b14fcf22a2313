// Package service contains the auth core: verification codes, login failure
// counting, opaque token lifecycle and the orchestrating auth service.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/repository"
	"github.com/matching-platform/user-service/internal/utils/metrics"
	"github.com/matching-platform/user-service/internal/utils/random"
)

const (
	verifyCodePrefix = "user:verify:"
	rateLimitPrefix  = "rate:limit:"

	codeDigits = 6
)

// VerificationService issues and checks single-use numeric verification
// codes bound to a (type, destination) pair, e.g. ("email", "a@x.com").
type VerificationService struct {
	kv     repository.KeyValueStore
	cfg    config.VerificationConfig
	logger *zap.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(kv repository.KeyValueStore, cfg config.VerificationConfig, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		kv:     kv,
		cfg:    cfg,
		logger: logger,
	}
}

func codeKey(codeType, destination string) string {
	return fmt.Sprintf("%s%s:%s", verifyCodePrefix, codeType, destination)
}

func rateKey(codeType, destination string) string {
	return fmt.Sprintf("%s%s:%s", rateLimitPrefix, codeType, destination)
}

// Issue generates a fresh 6-digit code for the destination and stores it
// with the code TTL, replacing any unconsumed prior code (last-issued wins).
// It fails with ErrRateLimitExceeded before generating anything once the
// issuance counter for the destination reaches its window limit. The caller
// is responsible for delivering the returned code.
func (s *VerificationService) Issue(ctx context.Context, codeType, destination string) (string, error) {
	count, err := s.currentRate(ctx, codeType, destination)
	if err != nil {
		return "", err
	}
	if count >= int64(s.cfg.RateLimit) {
		metrics.VerificationCodesRejectedTotal.WithLabelValues(codeType).Inc()
		s.logger.Warn("Verification code rate limit exceeded",
			zap.String("type", codeType),
			zap.String("destination", destination),
		)
		return "", domainErrors.ErrRateLimitExceeded
	}

	code, err := random.NumericCode(codeDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.kv.SetWithTTL(ctx, codeKey(codeType, destination), code, s.cfg.CodeTTL); err != nil {
		return "", err
	}

	newCount, err := s.kv.Increment(ctx, rateKey(codeType, destination))
	if err != nil {
		return "", err
	}
	if newCount == 1 {
		if err := s.kv.Expire(ctx, rateKey(codeType, destination), s.cfg.RateWindow); err != nil {
			return "", err
		}
	}

	metrics.VerificationCodesIssuedTotal.WithLabelValues(codeType).Inc()
	s.logger.Info("Verification code issued",
		zap.String("type", codeType),
		zap.String("destination", destination),
	)
	return code, nil
}

// Verify checks the submitted code against the stored one. An absent key
// (expired or never issued) and a mismatch both yield false. A correct match
// consumes the code: a second Verify with the same code returns false.
func (s *VerificationService) Verify(ctx context.Context, codeType, destination, code string) (bool, error) {
	stored, err := s.kv.Get(ctx, codeKey(codeType, destination))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if stored != code {
		return false, nil
	}
	if err := s.kv.Delete(ctx, codeKey(codeType, destination)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *VerificationService) currentRate(ctx context.Context, codeType, destination string) (int64, error) {
	value, err := s.kv.Get(ctx, rateKey(codeType, destination))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var count int64
	if _, err := fmt.Sscanf(value, "%d", &count); err != nil {
		return 0, fmt.Errorf("malformed rate counter for %s:%s: %w", codeType, destination, err)
	}
	return count, nil
}
