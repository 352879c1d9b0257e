package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Operation names one endpoint action.
type Operation string

const (
	OpListRecipes       Operation = "recipes.list"
	OpGetRecipe         Operation = "recipes.retrieve"
	OpCreateRecipe      Operation = "recipes.create"
	OpUpdateRecipe      Operation = "recipes.partial_update"
	OpAddFavorite       Operation = "recipes.favorite"
	OpAddToCart         Operation = "recipes.shopping_cart"
	OpListUsers         Operation = "users.list"
	OpGetUser           Operation = "users.retrieve"
	OpMe                Operation = "users.me"
	OpRegister          Operation = "users.create"
	OpListSubscriptions Operation = "users.subscriptions"
	OpSubscribe         Operation = "users.subscribe"
	OpListTags          Operation = "tags.list"
	OpGetTag            Operation = "tags.retrieve"
	OpListIngredients   Operation = "ingredients.list"
	OpGetIngredient     Operation = "ingredients.retrieve"
	OpLogin             Operation = "auth.login"
)

// Schema names a response representation.
type Schema string

const (
	SchemaRecipe        Schema = "recipe"
	SchemaRecipeSummary Schema = "recipe_summary"
	SchemaUser          Schema = "user"
	SchemaCreatedUser   Schema = "created_user"
	SchemaSubscription  Schema = "subscription"
	SchemaTag           Schema = "tag"
	SchemaIngredient    Schema = "ingredient"
	SchemaToken         Schema = "token"
)

var responseSchemas = map[Operation]Schema{
	OpListRecipes:       SchemaRecipe,
	OpGetRecipe:         SchemaRecipe,
	OpCreateRecipe:      SchemaRecipe,
	OpUpdateRecipe:      SchemaRecipe,
	OpAddFavorite:       SchemaRecipeSummary,
	OpAddToCart:         SchemaRecipeSummary,
	OpListUsers:         SchemaUser,
	OpGetUser:           SchemaUser,
	OpMe:                SchemaUser,
	OpRegister:          SchemaCreatedUser,
	OpListSubscriptions: SchemaSubscription,
	OpSubscribe:         SchemaSubscription,
	OpListTags:          SchemaTag,
	OpGetTag:            SchemaTag,
	OpListIngredients:   SchemaIngredient,
	OpGetIngredient:     SchemaIngredient,
	OpLogin:             SchemaToken,
}

// ResponseSchema returns the representation an operation answers with.
func ResponseSchema(op Operation) (Schema, bool) {
	s, ok := responseSchemas[op]
	return s, ok
}

// present renders v in the representation of op. v is the service result
// for a single object or a slice of them for list operations.
func present(op Operation, v interface{}) (interface{}, error) {
	schema, ok := ResponseSchema(op)
	if !ok {
		return nil, fmt.Errorf("no response schema for %s", op)
	}

	switch schema {
	case SchemaRecipe:
		switch r := v.(type) {
		case *service.RecipeView:
			return recipeResponse(r), nil
		case []service.RecipeView:
			out := make([]types.RecipeResponse, 0, len(r))
			for i := range r {
				out = append(out, recipeResponse(&r[i]))
			}
			return out, nil
		}
	case SchemaRecipeSummary:
		if r, ok := v.(*models.Recipe); ok {
			return recipeSummary(r), nil
		}
	case SchemaUser:
		switch u := v.(type) {
		case *service.UserView:
			return userResponse(&u.User, u.IsSubscribed), nil
		case []service.UserView:
			out := make([]types.UserResponse, 0, len(u))
			for i := range u {
				out = append(out, userResponse(&u[i].User, u[i].IsSubscribed))
			}
			return out, nil
		}
	case SchemaCreatedUser:
		if u, ok := v.(*models.User); ok {
			return types.CreatedUserResponse{
				Email:     u.Email,
				ID:        u.ID,
				Username:  u.Username,
				FirstName: u.FirstName,
				LastName:  u.LastName,
			}, nil
		}
	case SchemaSubscription:
		switch s := v.(type) {
		case *service.SubscriptionView:
			return subscriptionResponse(s), nil
		case []service.SubscriptionView:
			out := make([]types.SubscriptionResponse, 0, len(s))
			for i := range s {
				out = append(out, subscriptionResponse(&s[i]))
			}
			return out, nil
		}
	case SchemaTag:
		switch t := v.(type) {
		case *models.Tag:
			return tagResponse(t), nil
		case []models.Tag:
			out := make([]types.TagResponse, 0, len(t))
			for i := range t {
				out = append(out, tagResponse(&t[i]))
			}
			return out, nil
		}
	case SchemaIngredient:
		switch in := v.(type) {
		case *models.Ingredient:
			return ingredientResponse(in), nil
		case []models.Ingredient:
			out := make([]types.IngredientResponse, 0, len(in))
			for i := range in {
				out = append(out, ingredientResponse(&in[i]))
			}
			return out, nil
		}
	case SchemaToken:
		if token, ok := v.(string); ok {
			return types.TokenResponse{AuthToken: token}, nil
		}
	}
	return nil, fmt.Errorf("cannot render %T as %s", v, schema)
}

func userResponse(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func tagResponse(t *models.Tag) types.TagResponse {
	return types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientResponse(in *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: in.ID, Name: in.Name, MeasurementUnit: in.MeasurementUnit}
}

func recipeSummary(r *models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func recipeResponse(v *service.RecipeView) types.RecipeResponse {
	r := &v.Recipe

	tags := make([]types.TagResponse, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, tagResponse(&r.Tags[i]))
	}
	lines := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, types.RecipeIngredientResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount.StringFixed(2),
		})
	}

	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           userResponse(&r.Author, v.AuthorSubscribed),
		Ingredients:      lines,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func subscriptionResponse(s *service.SubscriptionView) types.SubscriptionResponse {
	recipes := make([]types.RecipeSummary, 0, len(s.Recipes))
	for i := range s.Recipes {
		recipes = append(recipes, recipeSummary(&s.Recipes[i]))
	}
	return types.SubscriptionResponse{
		UserResponse: userResponse(&s.User, true),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}

// render writes v in the representation of op.
func render(c *gin.Context, status int, op Operation, v interface{}) {
	body, err := present(op, v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, body)
}

// renderPage writes a page of results in the representation of op.
func renderPage(c *gin.Context, p pageParams, op Operation, count int64, v interface{}) {
	body, err := present(op, v)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, p, count, body)
}
