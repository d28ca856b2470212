package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	authViaKey   = "authVia"
)

type ctxKey string

const userIDCtxKey ctxKey = "user_id"

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// UserChecker confirms a user id refers to a stored user.
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// AuthConfig configures RequireUser.
type AuthConfig struct {
	Tokens TokenVerifier
	Users  UserChecker
	// AllowUserIDHeader accepts a bare caller-asserted user id header when no
	// bearer token is sent.
	AllowUserIDHeader bool
}

// RequireUser resolves the caller identity, confirms the user exists and
// binds the id to the gin and request contexts.
func RequireUser(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		userID, email, via, ok := resolveIdentity(c, cfg)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "Authentication required", nil)
			return
		}

		if cfg.Users == nil {
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Server error", nil)
			return
		}
		exists, err := cfg.Users.Exists(c.Request.Context(), userID)
		if err != nil {
			respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Server error", nil, err)
			return
		}
		if !exists {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "User not found", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Set(authViaKey, via)
		if email != "" {
			c.Set(userEmailKey, email)
		}
		ctx := context.WithValue(c.Request.Context(), userIDCtxKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, cfg AuthConfig) (int64, string, string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		// The auth scheme is case-insensitive.
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || cfg.Tokens == nil {
			return 0, "", "", false
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return 0, "", "", false
		}
		claims, err := cfg.Tokens.Verify(token)
		if err != nil {
			return 0, "", "", false
		}
		id, err := claims.UserID()
		if err != nil {
			return 0, "", "", false
		}
		return id, claims.Email, "token", true
	}

	if !cfg.AllowUserIDHeader {
		return 0, "", "", false
	}
	raw := strings.TrimSpace(c.GetHeader("userId"))
	if raw == "" {
		raw = strings.TrimSpace(c.GetHeader("X-User-Id"))
	}
	if raw == "" {
		return 0, "", "", false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", "", false
	}
	return id, "", "header", true
}

// UserIDFromContext fetches the user ID set by RequireUser.
func UserIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}

// UserIDFromRequestContext fetches the user ID from a context populated by RequireUser.
func UserIDFromRequestContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(userIDCtxKey).(int64); ok {
		return id
	}
	return 0
}
