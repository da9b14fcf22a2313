package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/matching-platform/user-service/internal/domain/models"
)

// UserRepository is the persistent account store. The auth core reads and
// writes accounts through it but never holds them beyond a request.
type UserRepository interface {
	// Create persists a new user and fills in ID and timestamps.
	Create(ctx context.Context, user *models.User) error

	// FindByID returns errors.ErrNotFound if no user exists.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByUsername returns errors.ErrNotFound if no user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail returns errors.ErrNotFound if no user exists.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByPhone returns errors.ErrNotFound if no user exists.
	FindByPhone(ctx context.Context, phone string) (*models.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}
