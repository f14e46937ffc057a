// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// PermissionAll grants every permission.
const PermissionAll = "*"

// UserContext contains authenticated user information.
type UserContext struct {
	UserID      string
	Email       string
	Permissions []string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasPermission reports whether the user holds perm or the wildcard.
func (u *UserContext) HasPermission(perm string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Permissions, PermissionAll) || slices.Contains(u.Permissions, perm)
}
