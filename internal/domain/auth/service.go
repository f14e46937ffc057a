package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	BcryptCost        int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Service provides authentication logic.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
		now:        time.Now,
	}
}

// CreateUser registers a user with the given permissions.
func (s *Service) CreateUser(ctx context.Context, email, password string, permissions []string) (*User, error) {
	email = NormalizeEmail(email)
	if len(password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.userRepo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", email)
	}

	cost := s.config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(email, string(passwordHash), permissions)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates user and returns an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	now := s.now()

	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(now); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if updErr := s.userRepo.Update(ctx, user); updErr != nil {
			logger.Warn(ctx, "failed to record login attempt", "user_id", user.ID, "error", updErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.Email, user.Permissions)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	user.RecordSuccessfulLogin(now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)

	return &Token{AccessToken: accessToken, ExpiresAt: expiresAt, TokenType: "Bearer"}, user, nil
}

// GetUserByID retrieves a user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}
