// Package postgres implements the account store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/models"
	"github.com/matching-platform/user-service/internal/domain/repository"
)

const uniqueViolation = "23505"

// UserRepositoryPostgres implements repository.UserRepository on PostgreSQL.
type UserRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewUserRepositoryPostgres creates a new UserRepositoryPostgres.
func NewUserRepositoryPostgres(pool *pgxpool.Pool) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{pool: pool}
}

// Create persists a new user. The ID and timestamps are assigned here if the
// caller left them zero.
func (r *UserRepositoryPostgres) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, email, phone, password_hash, salt,
		                   phone_verified, email_verified, status,
		                   referral_code, referrer_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Phone, user.PasswordHash, user.Salt,
		user.PhoneVerified, user.EmailVerified, user.Status,
		user.ReferralCode, user.ReferrerID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch {
			case strings.Contains(pgErr.ConstraintName, "username"):
				return domainErrors.ErrUsernameExists
			case strings.Contains(pgErr.ConstraintName, "email"):
				return domainErrors.ErrEmailExists
			case strings.Contains(pgErr.ConstraintName, "phone"):
				return domainErrors.ErrPhoneExists
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID.
func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findBy(ctx, "id = $1", id)
}

// FindByUsername retrieves a user by username.
func (r *UserRepositoryPostgres) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username = $1", username)
}

// FindByEmail retrieves a user by email.
func (r *UserRepositoryPostgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email = $1", email)
}

// FindByPhone retrieves a user by phone number.
func (r *UserRepositoryPostgres) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findBy(ctx, "phone = $1", phone)
}

func (r *UserRepositoryPostgres) findBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, COALESCE(phone, ''), password_hash, salt,
		       phone_verified, email_verified, status,
		       COALESCE(referral_code, ''), referrer_id, created_at, updated_at
		FROM users
		WHERE %s AND status != 'DELETED'
	`, where)

	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone, &user.PasswordHash, &user.Salt,
		&user.PhoneVerified, &user.EmailVerified, &user.Status,
		&user.ReferralCode, &user.ReferrerID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *UserRepositoryPostgres) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "username = $1", username)
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepositoryPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "email = $1", email)
}

// ExistsByPhone reports whether a user with the given phone number exists.
func (r *UserRepositoryPostgres) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.existsBy(ctx, "phone = $1", phone)
}

func (r *UserRepositoryPostgres) existsBy(ctx context.Context, where string, arg interface{}) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE %s AND status != 'DELETED')`, where)
	var exists bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)
