package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/auth"
	"billing/internal/infrastructure/http/v1/dto"
	"billing/internal/infrastructure/storage/postgres"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{Token: token, User: dto.FromUser(user)})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := id.Parse(h.GetUserID(c))
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("no authenticated user"))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}

// ActivityLogReader lists activity log entries.
type ActivityLogReader interface {
	List(ctx context.Context, userID *id.ID, limit int) ([]postgres.ActivityEntry, error)
}

// ActivityLogHandler serves the activity log.
type ActivityLogHandler struct {
	*BaseHandler
	reader ActivityLogReader
}

// NewActivityLogHandler creates a new activity log handler.
func NewActivityLogHandler(base *BaseHandler, reader ActivityLogReader) *ActivityLogHandler {
	return &ActivityLogHandler{BaseHandler: base, reader: reader}
}

// List handles GET /activity-log?user_id=&limit=.
func (h *ActivityLogHandler) List(c *gin.Context) {
	var q dto.ActivityLogQuery
	if !h.BindQuery(c, &q) {
		return
	}

	userID, err := dto.ParseOptionalID("user_id", q.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entries, err := h.reader.List(c.Request.Context(), userID, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []postgres.ActivityEntry{}
	}
	h.OK(c, gin.H{"items": entries})
}
