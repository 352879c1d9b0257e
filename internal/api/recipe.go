package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes       service.IRecipeService
	ledger        service.ILedgerService
	auth          middleware.TokenValidator
	paging        Paging
	createLimiter *middleware.RateLimiter
	updateLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes service.IRecipeService, ledger service.ILedgerService, auth middleware.TokenValidator, paging Paging) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		ledger:  ledger,
		auth:    auth,
		paging:  paging,
	}
}

// WithRateLimits enables per-user limits on recipe writes. Nil limiters are skipped.
func (h *RecipeHandler) WithRateLimits(create, update *middleware.RateLimiter) *RecipeHandler {
	h.createLimiter = create
	h.updateLimiter = update
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuth(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", withLimit(h.createLimiter, required, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PATCH("/:id", withLimit(h.updateLimiter, required, h.UpdateRecipe)...)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite", required, h.AddFavorite)
		recipes.DELETE("/:id/favorite", required, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)
	}
}

func withLimit(limiter *middleware.RateLimiter, auth, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{auth, handler}
	}
	return []gin.HandlerFunc{auth, limiter.RateLimitMiddleware(), handler}
}

// ListRecipes supports ?author=, repeated ?tags=<slug>, ?is_favorited=1 and
// ?is_in_shopping_cart=1 on top of pagination.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := h.paging.parsePage(c)
	if !ok {
		return
	}

	filter := service.RecipeFilter{
		TagSlugs:           c.QueryArray("tags"),
		OnlyFavorited:      c.Query("is_favorited") == "1",
		OnlyInShoppingCart: c.Query("is_in_shopping_cart") == "1",
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, &service.ValidationError{Fields: service.Violations{"author": "must be a user id"}})
			return
		}
		filter.AuthorID = uint(author)
	}

	recipes, count, err := h.recipes.ListRecipes(c.Request.Context(), middleware.ViewerID(c), filter, page.request())
	if err != nil {
		respondError(c, err)
		return
	}
	renderPage(c, page, OpListRecipes, count, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpGetRecipe, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusCreated, OpCreateRecipe, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpUpdateRecipe, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.ledger.AddFavorite(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusCreated, OpAddFavorite, recipe)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.ledger.RemoveFavorite(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, result, "recipe is not in favorites")
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.ledger.AddToCart(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusCreated, OpAddToCart, recipe)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.ledger.RemoveFromCart(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRemoved(c, result, "recipe is not in the shopping cart")
}

// DownloadShoppingCart serves the aggregated shopping list as a text file.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lines, err := h.ledger.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.FormatShoppingList(lines)))
}
