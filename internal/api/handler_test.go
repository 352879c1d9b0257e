package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newMockedRecipeRouter(recipes *mocks.MockRecipeService, ledger *mocks.MockLedgerService, auth *mocks.MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.NewRecipeHandler(recipes, ledger, auth, api.Paging{DefaultLimit: 6, MaxLimit: 10}).
		RegisterRoutes(router.Group("/api"))
	return router
}

func TestRecipeHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"validation", &service.ValidationError{Fields: service.Violations{"name": "required"}}, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes := new(mocks.MockRecipeService)
			recipes.On("GetRecipe", mock.Anything, uint(0), uint(5)).Return(nil, tt.err)

			w := httptest.NewRecorder()
			router := newMockedRecipeRouter(recipes, new(mocks.MockLedgerService), new(mocks.MockAuthService))
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/5", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			recipes.AssertExpectations(t)
		})
	}
}

func TestListRecipesPassesFilter(t *testing.T) {
	recipes := new(mocks.MockRecipeService)
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "tok").Return(&types.TokenClaims{UserID: 3}, nil)

	want := service.RecipeFilter{
		AuthorID:      7,
		TagSlugs:      []string{"lunch", "dinner"},
		OnlyFavorited: true,
	}
	recipes.On("ListRecipes", mock.Anything, uint(3), want, service.PageRequest{Limit: 10, Offset: 10}).
		Return([]service.RecipeView{}, int64(25), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recipes?author=7&tags=lunch&tags=dinner&is_favorited=1&is_in_shopping_cart=0&page=2&limit=50", nil)
	req.Header.Set("Authorization", "Bearer tok")
	newMockedRecipeRouter(recipes, new(mocks.MockLedgerService), auth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"count": 25,
		"next": "http://example.com/api/recipes?author=7&is_favorited=1&is_in_shopping_cart=0&limit=50&page=3&tags=lunch&tags=dinner",
		"previous": "http://example.com/api/recipes?author=7&is_favorited=1&is_in_shopping_cart=0&limit=50&tags=lunch&tags=dinner",
		"results": []
	}`, w.Body.String())
	recipes.AssertExpectations(t)
}

func TestRemoveFromCartNotPresent(t *testing.T) {
	ledger := new(mocks.MockLedgerService)
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "tok").Return(&types.TokenClaims{UserID: 3}, nil)
	ledger.On("RemoveFromCart", mock.Anything, uint(3), uint(8)).Return(service.NotPresent, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/8/shopping_cart", nil)
	req.Header.Set("Authorization", "Token tok")
	newMockedRecipeRouter(new(mocks.MockRecipeService), ledger, auth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"errors":"recipe is not in the shopping cart"}`, w.Body.String())
}

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	w := httptest.NewRecorder()
	newMockedRecipeRouter(new(mocks.MockRecipeService), new(mocks.MockLedgerService), new(mocks.MockAuthService)).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
