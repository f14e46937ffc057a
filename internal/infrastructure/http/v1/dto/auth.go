package dto

import (
	"time"

	"billing/internal/domain/auth"
)

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UserResponse represents user in API response.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName,omitempty"`
	IsActive    bool       `json:"isActive"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// FromUser creates response from domain user.
func FromUser(u *auth.User) *UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		Permissions: perms,
		LastLoginAt: u.LastLoginAt,
	}
}

// LoginResponse includes the token and user info.
type LoginResponse struct {
	Token *auth.Token   `json:"token"`
	User  *UserResponse `json:"user"`
}

// ActivityLogQuery filters the activity log.
type ActivityLogQuery struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
}
