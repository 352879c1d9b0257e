package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// currentUser returns the authenticated user id or answers 401.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return 0, false
	}
	return id, true
}

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name an object, so it is answered with 404.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// recipesLimit reads ?recipes_limit=. Absent means no limit (-1).
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, &service.ValidationError{Fields: service.Violations{
			"recipes_limit": "must be a non-negative integer",
		}})
		return 0, false
	}
	return n, true
}
