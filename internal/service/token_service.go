package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/repository"
	"github.com/matching-platform/user-service/internal/utils/metrics"
	"github.com/matching-platform/user-service/internal/utils/random"
)

const (
	accessTokenPrefix    = "user:token:access:"
	refreshTokenPrefix   = "user:token:refresh:"
	tokenBlacklistPrefix = "token:blacklist:"
	revokedBeforePrefix  = "user:token:revoked_before:"

	tokenHexLength = 64 // 32 random bytes, hex encoded
)

// tokenRecord is the value stored under a token key. IssuedAt lets Verify
// compare against the per-user revocation watermark.
type tokenRecord struct {
	UserID   uuid.UUID `json:"user_id"`
	IssuedAt int64     `json:"issued_at"` // unix nanoseconds
}

// TokenService manages opaque bearer tokens resolved through the shared
// key-value store. Tokens are random identifiers, never derived from the
// account; validity is a pure lookup, which keeps revocation immediate.
type TokenService struct {
	kv     repository.KeyValueStore
	cfg    config.TokenConfig
	logger *zap.Logger
}

// NewTokenService creates a new TokenService.
func NewTokenService(kv repository.KeyValueStore, cfg config.TokenConfig, logger *zap.Logger) *TokenService {
	return &TokenService{
		kv:     kv,
		cfg:    cfg,
		logger: logger,
	}
}

// IssueAccessToken generates an access token for the user with the access TTL.
func (s *TokenService) IssueAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.issue(ctx, accessTokenPrefix, "access", userID, s.cfg.AccessTokenTTL)
}

// IssueRefreshToken generates a refresh token for the user with the refresh TTL.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.issue(ctx, refreshTokenPrefix, "refresh", userID, s.cfg.RefreshTokenTTL)
}

func (s *TokenService) issue(ctx context.Context, prefix, kind string, userID uuid.UUID, ttl time.Duration) (string, error) {
	token, err := random.Hex(tokenHexLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	record := tokenRecord{UserID: userID, IssuedAt: time.Now().UnixNano()}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := s.kv.SetWithTTL(ctx, prefix+token, string(data), ttl); err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.WithLabelValues(kind).Inc()
	s.logger.Debug("Token issued",
		zap.String("kind", kind),
		zap.String("user_id", userID.String()),
	)
	return token, nil
}

// Verify resolves a token to the user it was issued for. The blacklist is
// consulted first and overrides a live mapping. Then the access namespace is
// checked, then the refresh namespace; the first hit wins, subject to the
// user's revocation watermark. Expired and never-issued tokens are both
// reported as ErrTokenNotFound, deliberately indistinguishable.
func (s *TokenService) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	_, err := s.kv.Get(ctx, tokenBlacklistPrefix+token)
	if err == nil {
		s.logger.Debug("Token is blacklisted")
		return uuid.Nil, domainErrors.ErrTokenNotFound
	}
	if !errors.Is(err, repository.ErrKeyNotFound) {
		return uuid.Nil, err
	}

	for _, prefix := range []string{accessTokenPrefix, refreshTokenPrefix} {
		value, err := s.kv.Get(ctx, prefix+token)
		if err != nil {
			if errors.Is(err, repository.ErrKeyNotFound) {
				continue
			}
			return uuid.Nil, err
		}

		var record tokenRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			return uuid.Nil, fmt.Errorf("malformed token record: %w", err)
		}

		revoked, err := s.revokedByWatermark(ctx, record)
		if err != nil {
			return uuid.Nil, err
		}
		if revoked {
			return uuid.Nil, domainErrors.ErrTokenNotFound
		}
		return record.UserID, nil
	}

	return uuid.Nil, domainErrors.ErrTokenNotFound
}

// Revoke blacklists the token and removes it from both namespaces. The
// tombstone outlives the access TTL, after which the mapping's own expiry is
// authoritative. Revoking an unknown token still writes the tombstone, so
// the operation is idempotent.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if err := s.kv.SetWithTTL(ctx, tokenBlacklistPrefix+token, "1", s.cfg.AccessTokenTTL); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, accessTokenPrefix+token); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, refreshTokenPrefix+token); err != nil {
		return err
	}
	metrics.TokensRevokedTotal.Inc()
	s.logger.Info("Token revoked")
	return nil
}

// RevokeAll invalidates every token issued to the user up to now. The store
// has no reverse index from user to tokens, so this writes a per-user
// watermark instead: Verify rejects any token issued at or before it. The
// watermark lives as long as the longest-lived token kind.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	watermark := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := s.kv.SetWithTTL(ctx, revokedBeforePrefix+userID.String(), watermark, s.cfg.RefreshTokenTTL); err != nil {
		return err
	}
	s.logger.Info("All tokens revoked for user", zap.String("user_id", userID.String()))
	return nil
}

func (s *TokenService) revokedByWatermark(ctx context.Context, record tokenRecord) (bool, error) {
	value, err := s.kv.Get(ctx, revokedBeforePrefix+record.UserID.String())
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	watermark, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false, fmt.Errorf("malformed revocation watermark: %w", err)
	}
	return record.IssuedAt <= watermark, nil
}
