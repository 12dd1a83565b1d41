package middleware

import (
	"net/http"
	"strings"

	"github.com/example/storefront/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CookieName carries the session token for browsers.
	CookieName = "session_token"
	// TokenHeader returns a freshly issued token to API clients.
	TokenHeader = "X-Session-Token"

	SessionIDKey = "session_id"
)

// ExtractToken extracts the session token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Session resolves the visitor's session id. A missing, expired or invalid
// token starts a new anonymous session and issues a token for it.
func Session(jwtService *auth.JWTService, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c.Request); token != "" {
			claims, err := jwtService.ValidateSessionToken(token)
			if err == nil {
				c.Set(SessionIDKey, claims.SessionID)
				c.Next()
				return
			}
			logger.Debug("discarding session token", zap.Error(err))
		}

		sessionID := uuid.New().String()
		token, _, err := jwtService.GenerateSessionToken(sessionID)
		if err != nil {
			logger.Error("failed to issue session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(jwtService.TTL().Seconds()), "/", "", secure, true)
		c.Header(TokenHeader, token)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside it.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
