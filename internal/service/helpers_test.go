package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newImageService(t *testing.T) *ImageService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)
	return NewImageService(store)
}

func newRecipeService(t *testing.T) (*RecipeService, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	return NewRecipeService(db, newImageService(t)), db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func line(id uint, amount string) types.IngredientLine {
	return types.IngredientLine{ID: id, Amount: decimal.RequireFromString(amount)}
}

func recipeRequest(tags []uint, lines ...types.IngredientLine) *types.RecipeRequest {
	return &types.RecipeRequest{
		Name:        strPtr("Pancakes"),
		Text:        strPtr("Mix and fry."),
		Image:       strPtr(testhelpers.PNGDataURI()),
		CookingTime: intPtr(20),
		Tags:        &tags,
		Ingredients: &lines,
	}
}
