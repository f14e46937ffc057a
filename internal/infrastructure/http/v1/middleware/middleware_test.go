package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	appctx "billing/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
	SetupValidator()
}

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (v stubValidator) ValidateToken(string) (*appctx.UserContext, error) {
	return v.user, v.err
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Trace(), ErrorHandler())
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("invoice", "2025-0001"))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, body["code"])
	assert.Equal(t, "invoice", body["details"].(map[string]any)["entity"])
}

func TestErrorHandler_PlainErrorIsHidden(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w, body := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Equal(t, "req-42", body["details"].(map[string]any)["request_id"])
}

func TestErrorHandler_WrittenResponseWins(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, body["ok"])
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), Recovery())
	r.GET("/x", func(*gin.Context) { panic("boom") })

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
}

type bindTarget struct {
	Code      string `json:"code" binding:"required"`
	UnitPrice *int   `json:"unitPrice" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
}

func TestBindError_UsesJSONNames(t *testing.T) {
	r := newEngine()
	r.POST("/x", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(BindError(err, "invalid request body"))
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := serve(r, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	fields := body["details"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "This field is required", fields["code"])
	assert.Equal(t, "This field is required", fields["unitPrice"])
	assert.Equal(t, "Invalid email format", fields["email"])
}

func TestBindError_MalformedJSON(t *testing.T) {
	err := BindError(errors.New("unexpected EOF"), "invalid request body")

	assert.Equal(t, apperror.CodeValidation, err.Code)
	assert.Equal(t, "unexpected EOF", err.Details["error"])
}

func TestAuth_DisabledInjectsDevUser(t *testing.T) {
	var got *appctx.UserContext
	r := newEngine(Auth(nil, false))
	r.GET("/x", func(c *gin.Context) {
		got = appctx.GetUser(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, DevUser.Email, got.Email)
	assert.True(t, got.HasPermission("anything:edit"))
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"invalid token", "Bearer abc", errors.New("expired")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Auth(stubValidator{err: tt.err}, true))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, body := serve(r, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, apperror.CodeUnauthorized, body["code"])
		})
	}
}

func TestAuth_BearerIsCaseInsensitive(t *testing.T) {
	user := &appctx.UserContext{UserID: "u1"}
	r := newEngine(Auth(stubValidator{user: user}, true))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "bearer token")
	w, _ := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	withUser := func(perms ...string) gin.HandlerFunc {
		return func(c *gin.Context) {
			setUser(c, &appctx.UserContext{UserID: "u1", Permissions: perms})
		}
	}

	tests := []struct {
		name string
		mw   []gin.HandlerFunc
		want int
	}{
		{"no user", []gin.HandlerFunc{RequirePermission("invoices:edit")}, http.StatusUnauthorized},
		{"missing permission", []gin.HandlerFunc{withUser("invoices:view"), RequirePermission("invoices:edit")}, http.StatusForbidden},
		{"granted", []gin.HandlerFunc{withUser("invoices:edit"), RequirePermission("invoices:edit")}, http.StatusOK},
		{"wildcard", []gin.HandlerFunc{withUser(appctx.PermissionAll), RequirePermission("invoices:edit")}, http.StatusOK},
		{"any of", []gin.HandlerFunc{withUser("offers:promote"), RequireAnyPermission("invoices:edit", "offers:promote")}, http.StatusOK},
		{"none of", []gin.HandlerFunc{withUser("reports:view"), RequireAnyPermission("invoices:edit", "offers:promote")}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(tt.mw...)
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestTrace_GeneratesRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
}
