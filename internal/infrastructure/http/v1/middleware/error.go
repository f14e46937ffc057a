package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billing/internal/core/apperror"
	"billing/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		renderError(c)
	}
}

// renderError writes the last registered error unless a response is already out.
func renderError(c *gin.Context) {
	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err

	if appErr, ok := apperror.AsAppError(err); ok {
		if appErr.Err != nil || appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
		return
	}

	logger.Error(c.Request.Context(), "unhandled error",
		"error", err,
	)

	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    apperror.CodeInternal,
		"message": "Internal server error",
		"details": map[string]any{
			"request_id": c.GetString("request_id"),
		},
	})
}
