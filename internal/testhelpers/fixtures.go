package testhelpers

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the plain password of users made by CreateUser.
const TestPassword = "s3cret-pass"

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// PNGDataURI returns a small valid base64 PNG data URI.
func PNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
}

// CreateUser inserts a user whose password is TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// Line pairs an ingredient with an amount written as a decimal string.
type Line struct {
	Ingredient *models.Ingredient
	Amount     string
}

// CreateRecipe inserts a recipe with the given lines directly, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines ...Line) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "/media/recipes/images/" + name + ".png",
		CookingTime: 10,
	}
	if err := db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for i, l := range lines {
		row := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: l.Ingredient.ID,
			Amount:       decimal.RequireFromString(l.Amount),
			Position:     i,
		}
		if err := db.Omit("Ingredient").Create(&row).Error; err != nil {
			t.Fatalf("failed to create recipe line: %v", err)
		}
	}
	return recipe
}
