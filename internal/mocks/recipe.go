package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uint, req *types.RecipeRequest) (*service.RecipeView, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, req *types.RecipeRequest) (*service.RecipeView, error) {
	args := m.Called(ctx, userID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, viewerID, id uint) (*service.RecipeView, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewerID uint, filter service.RecipeFilter, page service.PageRequest) ([]service.RecipeView, int64, error) {
	args := m.Called(ctx, viewerID, filter, page)
	recipes, _ := args.Get(0).([]service.RecipeView)
	return recipes, args.Get(1).(int64), args.Error(2)
}

// MockLedgerService is a mock implementation of the LedgerService interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockLedgerService) RemoveFavorite(ctx context.Context, userID, recipeID uint) (service.RemoveResult, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Get(0).(service.RemoveResult), args.Error(1)
}

func (m *MockLedgerService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockLedgerService) RemoveFromCart(ctx context.Context, userID, recipeID uint) (service.RemoveResult, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Get(0).(service.RemoveResult), args.Error(1)
}

func (m *MockLedgerService) ShoppingList(ctx context.Context, userID uint) ([]service.ShoppingListLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]service.ShoppingListLine)
	return lines, args.Error(1)
}

var (
	_ service.IRecipeService = (*MockRecipeService)(nil)
	_ service.ILedgerService = (*MockLedgerService)(nil)
)
