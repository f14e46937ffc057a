package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"billing/internal/core/apperror"
	appctx "billing/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// DevUser is the identity used when authentication is disabled.
var DevUser = appctx.UserContext{
	Email:       "dev@localhost",
	Permissions: []string{appctx.PermissionAll},
}

// Auth middleware validates JWT tokens and populates user context.
// With enabled=false every request runs as DevUser.
func Auth(validator JWTValidator, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			dev := DevUser
			setUser(c, &dev)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		setUser(c, user)
		c.Next()
	}
}

func setUser(c *gin.Context, user *appctx.UserContext) {
	ctx := appctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)

	c.Set("user_id", user.UserID)
	c.Set("permissions", user.Permissions)
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
