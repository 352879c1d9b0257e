package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// LedgerService keeps the favorites and shopping cart sets. Both are
// independent sets of (user, recipe) pairs with the same rules.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

func (s *LedgerService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID}, recipeID, "recipe is already in favorites")
}

func (s *LedgerService) RemoveFavorite(ctx context.Context, userID, recipeID uint) (RemoveResult, error) {
	return s.remove(ctx, &models.Favorite{}, userID, recipeID)
}

func (s *LedgerService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}, recipeID, "recipe is already in the shopping cart")
}

func (s *LedgerService) RemoveFromCart(ctx context.Context, userID, recipeID uint) (RemoveResult, error) {
	return s.remove(ctx, &models.ShoppingCartItem{}, userID, recipeID)
}

// add inserts row and returns the recipe it points at. The unique index on
// (user_id, recipe_id) turns a duplicate, racing or not, into a ConflictError.
func (s *LedgerService) add(ctx context.Context, row interface{}, recipeID uint, conflict string) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)
	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	if err := db.Omit(clause.Associations).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: conflict}
		}
		return nil, fmt.Errorf("failed to add recipe: %w", err)
	}
	return &recipe, nil
}

func (s *LedgerService) remove(ctx context.Context, model interface{}, userID, recipeID uint) (RemoveResult, error) {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return NotPresent, fmt.Errorf("failed to load recipe: %w", err)
	}
	if count == 0 {
		return NotPresent, ErrNotFound
	}

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(model)
	if res.Error != nil {
		return NotPresent, fmt.Errorf("failed to remove recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotPresent, nil
	}
	return Removed, nil
}

// memberSet reports which of recipeIDs the viewer has in the set stored by model.
func memberSet(ctx context.Context, db *gorm.DB, model interface{}, viewerID uint, recipeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(recipeIDs))
	if viewerID == Anonymous || len(recipeIDs) == 0 {
		return out, nil
	}

	var present []uint
	if err := db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &present).Error; err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	for _, id := range present {
		out[id] = true
	}
	return out, nil
}
