package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	users   service.IUserService
	follows service.IFollowService
	auth    middleware.TokenValidator
	paging  Paging
}

func NewUserHandler(users service.IUserService, follows service.IFollowService, auth middleware.TokenValidator, paging Paging) *UserHandler {
	return &UserHandler{users: users, follows: follows, auth: auth, paging: paging}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	users := router.Group("/users")
	{
		users.GET("", optional, h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", required, h.Me)
		users.POST("/set_password", required, h.SetPassword)
		users.GET("/subscriptions", required, h.ListSubscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", required, h.Subscribe)
		users.DELETE("/:id/subscribe", required, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := h.paging.parsePage(c)
	if !ok {
		return
	}
	users, count, err := h.users.ListUsers(c.Request.Context(), middleware.ViewerID(c), page.request())
	if err != nil {
		respondError(c, err)
		return
	}
	renderPage(c, page, OpListUsers, count, users)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusCreated, OpRegister, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpGetUser, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpMe, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.users.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	page, ok := h.paging.parsePage(c)
	if !ok {
		return
	}

	subs, count, err := h.follows.ListSubscriptions(c.Request.Context(), userID, limit, page.request())
	if err != nil {
		respondError(c, err)
		return
	}
	renderPage(c, page, OpListSubscriptions, count, subs)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	sub, err := h.follows.Follow(c.Request.Context(), userID, targetID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusCreated, OpSubscribe, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.follows.Unfollow(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, result, "you are not subscribed to this user")
}

// respondRemoved answers a delete of a membership row. A row that was not
// there is not an error.
func respondRemoved(c *gin.Context, result service.RemoveResult, notPresent string) {
	if result == service.NotPresent {
		c.JSON(http.StatusOK, gin.H{"errors": notPresent})
		return
	}
	c.Status(http.StatusNoContent)
}
