package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/pkg/jwt"
	"github.com/123ang/iso-document/pkg/logger"
)

func newTestJWTService() *jwt.JWTService {
	return jwt.NewJWTService(jwt.Config{
		SecretKey:         "test-secret-key-with-enough-length",
		Issuer:            "iso-document",
		Audience:          []string{"iso-document-api"},
		AccessTokenExpiry: time.Minute,
	})
}

func runAuthenticated(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) (entity.Caller, string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller entity.Caller
	var ctxUserID string
	h := func(c echo.Context) error {
		caller, _ = GetCaller(c)
		ctxUserID, _ = c.Request().Context().Value(logger.UserIDKey).(string)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return caller, ctxUserID, h(c)
}

func TestJWTAuthMiddleware_Authenticate_SetsCaller(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	groupID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, "user", []uuid.UUID{groupID})
	require.NoError(t, err)

	caller, ctxUserID, err := runAuthenticated(t, "Bearer "+token, NewJWTAuthMiddleware(svc).Authenticate())

	require.NoError(t, err)
	assert.Equal(t, userID, caller.UserID)
	assert.False(t, caller.IsAdmin())
	assert.Equal(t, []uuid.UUID{groupID}, caller.GroupIDs)
	assert.Equal(t, userID.String(), ctxUserID)
}

func TestJWTAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	svc := newTestJWTService()
	badRole, err := svc.GenerateAccessToken(uuid.New(), "superuser", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"unknown role", "Bearer " + badRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runAuthenticated(t, tt.header, NewJWTAuthMiddleware(svc).Authenticate())
			code, ok := apperror.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeUnauthorized, code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestJWTService()
	adminToken, err := svc.GenerateAccessToken(uuid.New(), "admin", nil)
	require.NoError(t, err)
	userToken, err := svc.GenerateAccessToken(uuid.New(), "user", nil)
	require.NoError(t, err)
	auth := NewJWTAuthMiddleware(svc).Authenticate()

	_, _, err = runAuthenticated(t, "Bearer "+adminToken, auth, RequireAdmin())
	assert.NoError(t, err)

	_, _, err = runAuthenticated(t, "Bearer "+userToken, auth, RequireAdmin())
	assert.True(t, apperror.IsForbidden(err))
}
