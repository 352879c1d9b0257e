package service

import (
	"context"
	"io"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, userID uint) error
}

// IUserService defines the interface for user account operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	GetUser(ctx context.Context, viewerID, id uint) (*UserView, error)
	ListUsers(ctx context.Context, viewerID uint, page PageRequest) ([]UserView, int64, error)
	SetPassword(ctx context.Context, userID uint, current, next string) error
}

// IFollowService defines the interface for subscription operations
type IFollowService interface {
	Follow(ctx context.Context, followerID, targetID uint, recipesLimit int) (*SubscriptionView, error)
	Unfollow(ctx context.Context, followerID, targetID uint) (RemoveResult, error)
	ListSubscriptions(ctx context.Context, userID uint, recipesLimit int, page PageRequest) ([]SubscriptionView, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, req *types.RecipeRequest) (*RecipeView, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uint, req *types.RecipeRequest) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uint) error
	GetRecipe(ctx context.Context, viewerID, id uint) (*RecipeView, error)
	ListRecipes(ctx context.Context, viewerID uint, filter RecipeFilter, page PageRequest) ([]RecipeView, int64, error)
}

// ILedgerService defines the interface for favorites and the shopping cart
type ILedgerService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) (RemoveResult, error)
	AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) (RemoveResult, error)
	ShoppingList(ctx context.Context, userID uint) ([]ShoppingListLine, error)
}

// IReferenceService defines the interface for tags and ingredients
type IReferenceService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	ImportIngredients(ctx context.Context, r io.Reader) (ImportStats, error)
	ImportTags(ctx context.Context, r io.Reader) (ImportStats, error)
}

var (
	_ IAuthService      = (*AuthService)(nil)
	_ IUserService      = (*UserService)(nil)
	_ IFollowService    = (*FollowService)(nil)
	_ IRecipeService    = (*RecipeService)(nil)
	_ ILedgerService    = (*LedgerService)(nil)
	_ IReferenceService = (*ReferenceService)(nil)
)
