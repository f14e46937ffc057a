// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"slices"
	"strings"
	"time"

	"billing/internal/core/apperror"
	appctx "billing/internal/core/context"
	"billing/internal/core/id"
)

// User represents a system user.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	FullName            string     `db:"full_name" json:"fullName,omitempty"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	Permissions         []string   `db:"permissions" json:"permissions"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a new active user.
func NewUser(email, passwordHash string, permissions []string) *User {
	now := time.Now()
	return &User{
		ID:           id.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsActive:     true,
		Permissions:  permissions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	for _, p := range u.Permissions {
		if !IsKnownPermission(p) {
			return apperror.NewValidation("unknown permission").
				WithDetail("field", "permissions").
				WithDetail("permission", p)
		}
	}
	return nil
}

// IsLocked returns true if account is locked at now.
func (u *User) IsLocked(now time.Time) bool {
	if u.LockedUntil == nil {
		return false
	}
	return now.Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u *User) CanLogin(now time.Time) error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked(now) {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments failed login counter.
func (u *User) RecordFailedLogin(now time.Time, maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if maxAttempts > 0 && u.FailedLoginAttempts >= maxAttempts {
		lockUntil := now.Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed login counter.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
}

// HasPermission checks if user has a specific permission.
func (u *User) HasPermission(code string) bool {
	return slices.Contains(u.Permissions, appctx.PermissionAll) || slices.Contains(u.Permissions, code)
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
