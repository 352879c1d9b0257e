package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// TokenValidator is an interface for validating auth tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// bearerToken extracts the token from "Bearer <token>" or "Token <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch parts[0] {
	case "Bearer", "Token":
		return parts[1], true
	}
	return "", false
}

func authenticate(c *gin.Context, validator TokenValidator, header string) bool {
	token, ok := bearerToken(header)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return false
	}

	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return false
	}

	// Store user info in context
	c.Set(userIDKey, claims.UserID)
	c.Set(usernameKey, claims.Username)
	return true
}

// AuthMiddleware rejects requests without a valid token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		if authenticate(c, validator, header) {
			c.Next()
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if authenticate(c, validator, header) {
			c.Next()
		}
	}
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// ViewerID returns the authenticated user's id or 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	id, _ := UserID(c)
	return id
}
