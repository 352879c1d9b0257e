package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles everything the HTTP layer needs.
type Services struct {
	DB         *gorm.DB
	Auth       service.IAuthService
	Users      service.IUserService
	Follows    service.IFollowService
	Recipes    service.IRecipeService
	Ledger     service.ILedgerService
	References service.IReferenceService

	// Rate limiters are nil when Redis is not configured.
	CreateLimiter *middleware.RateLimiter
	UpdateLimiter *middleware.RateLimiter

	Paging Paging
}

// SetupAPI registers every route under /api.
func SetupAPI(router *gin.Engine, s Services) {
	api := router.Group("/api")
	{
		NewHealthHandler(s.DB).RegisterRoutes(api)
		NewAuthHandler(s.Auth).RegisterRoutes(api)
		NewReferenceHandler(s.References).RegisterRoutes(api)
		NewUserHandler(s.Users, s.Follows, s.Auth, s.Paging).RegisterRoutes(api)
		NewRecipeHandler(s.Recipes, s.Ledger, s.Auth, s.Paging).
			WithRateLimits(s.CreateLimiter, s.UpdateLimiter).
			RegisterRoutes(api)
	}
}
