package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uint               `gorm:"not null;index" json:"author_id"`
	Author      User               `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	Image       string             `gorm:"size:500;not null" json:"image"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient is one line item of a recipe.
type RecipeIngredient struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RecipeID     uint            `gorm:"not null;uniqueIndex:unique_recipe_ingredient" json:"recipe_id"`
	IngredientID uint            `gorm:"not null;uniqueIndex:unique_recipe_ingredient;index" json:"ingredient_id"`
	Ingredient   Ingredient      `gorm:"constraint:OnDelete:CASCADE" json:"ingredient"`
	Amount       decimal.Decimal `gorm:"type:numeric(7,2);not null" json:"amount"`
	// Position keeps the order the lines were submitted in.
	Position int `gorm:"not null;default:0" json:"-"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_favorite_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:unique_favorite_recipe;index" json:"recipe_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ShoppingCartItem places a recipe in a user's shopping list.
type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:unique_shopping_cart_item" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:unique_shopping_cart_item;index" json:"recipe_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
