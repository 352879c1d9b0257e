package types

import (
	"github.com/shopspring/decimal"
)

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// IngredientLine is one (ingredient, amount) pair of a recipe write request.
type IngredientLine struct {
	ID     uint            `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// RecipeRequest is the body of both recipe create and partial update.
// A nil field was not supplied; an empty Ingredients slice was supplied
// and clears the recipe's lines.
type RecipeRequest struct {
	Name        *string           `json:"name"`
	Text        *string           `json:"text"`
	Image       *string           `json:"image"`
	CookingTime *int              `json:"cooking_time"`
	Tags        *[]uint           `json:"tags"`
	Ingredients *[]IngredientLine `json:"ingredients"`
}
