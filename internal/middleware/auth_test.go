package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-checkout/internal/logger"
	"course-checkout/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *echo.Echo {
	e := echo.New()
	auth := middleware.NewAuthMiddleware(secret, logger.Discard())
	e.GET("/me", func(c echo.Context) error {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, userID)
	}, auth.RequireAuth())
	return e
}

func TestRequireAuth(t *testing.T) {
	valid, err := middleware.GenerateToken(secret, "user-1", time.Hour)
	require.NoError(t, err)
	expired, err := middleware.GenerateToken(secret, "user-1", -time.Minute)
	require.NoError(t, err)
	foreign, err := middleware.GenerateToken("other-secret", "user-1", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
	}

	e := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
