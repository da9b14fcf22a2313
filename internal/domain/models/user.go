package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive              UserStatus = "ACTIVE"
	UserStatusDisabled            UserStatus = "DISABLED"
	UserStatusLocked              UserStatus = "LOCKED"
	UserStatusDeleted             UserStatus = "DELETED"
	UserStatusPendingVerification UserStatus = "PENDING_VERIFICATION"
)

// User is the account record owned by the persistent account store.
// Username and email are globally unique.
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Username      string     `json:"username" db:"username"`
	Email         string     `json:"email" db:"email"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Salt          string     `json:"-" db:"salt"`
	PhoneVerified bool       `json:"phone_verified" db:"phone_verified"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	Status        UserStatus `json:"status" db:"status"`
	ReferralCode  string     `json:"referral_code,omitempty" db:"referral_code"`
	ReferrerID    *uuid.UUID `json:"referrer_id,omitempty" db:"referrer_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
