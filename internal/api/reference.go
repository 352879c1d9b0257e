package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ReferenceHandler serves the read-only tag and ingredient catalogs.
type ReferenceHandler struct {
	references service.IReferenceService
}

func NewReferenceHandler(references service.IReferenceService) *ReferenceHandler {
	return &ReferenceHandler{references: references}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.references.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpListTags, tags)
}

func (h *ReferenceHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.references.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpGetTag, tag)
}

// ListIngredients supports ?name= as a case-sensitive prefix filter
func (h *ReferenceHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.references.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpListIngredients, ingredients)
}

func (h *ReferenceHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ingredient, err := h.references.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	render(c, http.StatusOK, OpGetIngredient, ingredient)
}
