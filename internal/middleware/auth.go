package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"course-checkout/internal/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ctxUserIDKey = "user_id"

type AuthMiddleware struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewAuthMiddleware(secretKey string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

// RequireAuth accepts an HS256 bearer token and exposes its subject as the
// caller's user id.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}
			token := strings.TrimSpace(authHeader[len("Bearer "):])

			userID, err := m.validateToken(token)
			if err != nil {
				m.logger.Warn("token validation failed", "error", err.Error())
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ctxUserIDKey, userID)
			return next(c)
		}
	}
}

func (m *AuthMiddleware) validateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errs.Wrap(err, "parse token")
	}
	if !token.Valid || claims.Subject == "" {
		return "", errs.New("token has no subject")
	}

	return claims.Subject, nil
}

// GenerateToken issues a token for userID. Used by local tooling and tests;
// production tokens come from the identity provider.
func GenerateToken(secretKey, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func GetUserID(c echo.Context) (string, bool) {
	userID, ok := c.Get(ctxUserIDKey).(string)
	return userID, ok && userID != ""
}
