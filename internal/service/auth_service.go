package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/interfaces"
	"github.com/matching-platform/user-service/internal/domain/models"
	"github.com/matching-platform/user-service/internal/domain/repository"
	"github.com/matching-platform/user-service/internal/events"
	"github.com/matching-platform/user-service/internal/utils/metrics"
	"github.com/matching-platform/user-service/internal/utils/random"
)

const (
	userInfoPrefix = "user:info:"
	devicePrefix   = "device:"

	codeTypeEmail = "email"

	saltHexLength = 16
)

// EventPublisher is the seam for the Kafka auth-event publisher. A nil
// publisher disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, event events.AuthEvent) error
}

// AuthService orchestrates registration and login over the account store,
// the verification code service, the login limiter and the token service.
// It returns the authenticated identity; issuing tokens for a login response
// is the HTTP layer's job, though thin token pass-throughs are provided for
// callers that only hold an AuthService.
type AuthService struct {
	users        repository.UserRepository
	kv           repository.KeyValueStore
	verification *VerificationService
	limiter      *LoginLimiter
	tokens       *TokenService
	passwords    interfaces.PasswordService
	publisher    EventPublisher
	cacheCfg     config.CacheConfig
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService. The publisher may be nil.
func NewAuthService(
	users repository.UserRepository,
	kv repository.KeyValueStore,
	verification *VerificationService,
	limiter *LoginLimiter,
	tokens *TokenService,
	passwords interfaces.PasswordService,
	publisher EventPublisher,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		kv:           kv,
		verification: verification,
		limiter:      limiter,
		tokens:       tokens,
		passwords:    passwords,
		publisher:    publisher,
		cacheCfg:     cacheCfg,
		logger:       logger,
	}
}

// Register validates the email verification code, enforces uniqueness of
// username, email and (when a phone code was supplied) phone, then creates
// the account with a fresh per-account salt. The Redis summary write at the
// end is best-effort; there is no transaction spanning the account store and
// the cache, and losing the summary is not user-visible.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ok, err := s.verification.Verify(ctx, codeTypeEmail, req.Email, req.EmailVerificationCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RegistrationAttemptsTotal.WithLabelValues("invalid_code").Inc()
		return nil, domainErrors.ErrInvalidVerificationCode
	}

	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		metrics.RegistrationAttemptsTotal.WithLabelValues("duplicate").Inc()
		return nil, domainErrors.ErrUsernameExists
	}
	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		metrics.RegistrationAttemptsTotal.WithLabelValues("duplicate").Inc()
		return nil, domainErrors.ErrEmailExists
	}
	phoneVerified := req.PhoneVerificationCode != ""
	if phoneVerified {
		if exists, err := s.users.ExistsByPhone(ctx, req.Phone); err != nil {
			return nil, err
		} else if exists {
			metrics.RegistrationAttemptsTotal.WithLabelValues("duplicate").Inc()
			return nil, domainErrors.ErrPhoneExists
		}
	}

	salt, err := random.Hex(saltHexLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	passwordHash, err := s.passwords.Hash(req.Password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Salt:          salt,
		PhoneVerified: phoneVerified,
		EmailVerified: true,
		Status:        models.UserStatusActive,
		ReferralCode:  req.ReferralCode,
	}
	if phoneVerified {
		user.Phone = req.Phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.cacheUserSummary(ctx, user, time.Time{})
	s.publish(ctx, events.EventUserRegistered, user)

	metrics.RegistrationAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return user, nil
}

// Login authenticates the credentials and returns the account. Unknown
// usernames and wrong passwords produce the same generic error so the
// endpoint cannot be used to enumerate accounts. Failed attempts feed the
// login limiter; a success clears it. Device recording is best-effort and
// never fails the login.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, device *models.DeviceInfo) (*models.User, error) {
	if _, err := s.limiter.Check(ctx, req.Username); err != nil {
		if errors.Is(err, domainErrors.ErrUserLockedOut) {
			metrics.LoginAttemptsTotal.WithLabelValues("locked_out").Inc()
		}
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, domainErrors.ErrUserNotActive
	}

	if !s.passwords.Matches(req.Password, user.Salt, user.PasswordHash) {
		if err := s.limiter.RecordFailure(ctx, req.Username); err != nil {
			return nil, err
		}
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domainErrors.ErrInvalidCredentials
	}

	if err := s.limiter.Clear(ctx, req.Username); err != nil {
		return nil, err
	}

	s.recordDevice(ctx, user.ID, device)
	s.cacheUserSummary(ctx, user, time.Now())
	s.publish(ctx, events.EventUserLoggedIn, user)

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User login success",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return user, nil
}

// SendVerificationCode issues a code for the destination and returns it for
// delivery by the notification channel. RateLimitExceeded propagates
// unchanged.
func (s *AuthService) SendVerificationCode(ctx context.Context, codeType, destination string) (string, error) {
	return s.verification.Issue(ctx, codeType, destination)
}

// GetUserByID fetches an account by ID.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// GenerateAccessToken is a pass-through to the token service.
func (s *AuthService) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.tokens.IssueAccessToken(ctx, userID)
}

// GenerateRefreshToken is a pass-through to the token service.
func (s *AuthService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.tokens.IssueRefreshToken(ctx, userID)
}

// VerifyToken is a pass-through to the token service.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (uuid.UUID, error) {
	return s.tokens.Verify(ctx, token)
}

// cacheUserSummary writes the short-lived account summary hash. Failures are
// logged and swallowed: the summary is a read-side convenience, not part of
// the registration or login contract.
func (s *AuthService) cacheUserSummary(ctx context.Context, user *models.User, lastLogin time.Time) {
	key := userInfoPrefix + user.ID.String()
	fields := map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
	}
	if !lastLogin.IsZero() {
		fields["last_login_time"] = strconv.FormatInt(lastLogin.UnixMilli(), 10)
	}
	for field, value := range fields {
		if err := s.kv.HSet(ctx, key, field, value); err != nil {
			s.logger.Warn("Failed to cache user summary", zap.String("user_id", user.ID.String()), zap.Error(err))
			return
		}
	}
	if err := s.kv.Expire(ctx, key, s.cacheCfg.UserInfoTTL); err != nil {
		s.logger.Warn("Failed to expire user summary", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

// recordDevice stores the device association. Informational only: errors are
// logged, never returned.
func (s *AuthService) recordDevice(ctx context.Context, userID uuid.UUID, device *models.DeviceInfo) {
	if device == nil || device.DeviceID == "" {
		return
	}
	key := devicePrefix + device.DeviceID
	if err := s.kv.HSet(ctx, key, "user_id", userID.String()); err != nil {
		s.logger.Warn("Failed to record device", zap.String("device_id", device.DeviceID), zap.Error(err))
		return
	}
	if err := s.kv.HSet(ctx, key, "last_active", strconv.FormatInt(time.Now().UnixMilli(), 10)); err != nil {
		s.logger.Warn("Failed to record device activity", zap.String("device_id", device.DeviceID), zap.Error(err))
		return
	}
	if err := s.kv.Expire(ctx, key, s.cacheCfg.DeviceRecordTTL); err != nil {
		s.logger.Warn("Failed to expire device record", zap.String("device_id", device.DeviceID), zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := events.AuthEvent{
		Type:     eventType,
		UserID:   user.ID.String(),
		Username: user.Username,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish auth event", zap.String("type", eventType), zap.Error(err))
	}
}
