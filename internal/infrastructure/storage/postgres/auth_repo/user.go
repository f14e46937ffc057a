// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/auth"
	"billing/internal/infrastructure/storage/postgres"
)

const userColumns = `id, email, password_hash, full_name, is_active, permissions,
	last_login_at, failed_login_attempts, locked_until, created_at, updated_at`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, email, password_hash, full_name, is_active, permissions,
			failed_login_attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsActive,
		user.Permissions, user.FailedLoginAttempts, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "email", user.Email).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any, key string) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var user auth.User
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.Permissions, &user.LastLoginAt,
		&user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", key)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, "id = $1", userID, userID.String())
}

// GetByEmail retrieves user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, "email = $1", auth.NormalizeEmail(email), email)
}

// Update stores the profile and login bookkeeping of a user.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE users SET
			full_name = $2,
			is_active = $3,
			permissions = $4,
			last_login_at = $5,
			failed_login_attempts = $6,
			locked_until = $7,
			password_hash = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.FullName, user.IsActive, user.Permissions,
		user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}

	return nil
}

// Exists checks if a user with the email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.txm.GetQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		auth.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

var _ auth.UserRepository = (*UserRepo)(nil)
