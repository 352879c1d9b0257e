package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const maxRecipeNameLength = 200

// numeric(7,2): at most five digits before the point.
var maxAmount = decimal.NewFromInt(100000)

// RecipeView is a recipe with its flags evaluated for one viewer.
type RecipeView struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeFilter narrows a recipe listing. Zero values do not filter.
type RecipeFilter struct {
	AuthorID uint
	TagSlugs []string
	// The two flags below only apply to authenticated viewers.
	OnlyFavorited      bool
	OnlyInShoppingCart bool
}

// RecipeService composes recipes with their ingredient lines and tags.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// CreateRecipe stores a new recipe, its ingredient lines and its tags as one unit.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req *types.RecipeRequest) (*RecipeView, error) {
	if err := validateRecipeRequest(req, false); err != nil {
		return nil, err
	}
	tags, err := s.resolveReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	image, err := s.images.Save(ctx, *req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*req.Name),
		Text:        *req.Text,
		Image:       image,
		CookingTime: *req.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := replaceLines(tx, recipe.ID, *req.Ingredients); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to set tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, image)
		return nil, err
	}

	return s.GetRecipe(ctx, authorID, recipe.ID)
}

// UpdateRecipe applies a partial update. Supplied ingredients replace every
// existing line; supplied tags replace the tag set; other fields are kept.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, req *types.RecipeRequest) (*RecipeView, error) {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := validateRecipeRequest(req, true); err != nil {
		return nil, err
	}
	tags, err := s.resolveReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}

	var newImage string
	if req.Image != nil {
		newImage, err = s.images.Save(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredients: %w", err)
			}
			if err := replaceLines(tx, recipe.ID, *req.Ingredients); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			assoc := tx.Model(recipe).Association("Tags")
			var err error
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return fmt.Errorf("failed to set tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, newImage)
		return nil, err
	}
	if newImage != "" {
		s.images.Discard(ctx, recipe.Image)
	}

	return s.GetRecipe(ctx, userID, recipe.ID)
}

// DeleteRecipe removes a recipe and everything that references it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.images.Discard(ctx, recipe.Image)
	return nil
}

// GetRecipe returns one fully loaded recipe as seen by viewerID.
func (s *RecipeService) GetRecipe(ctx context.Context, viewerID, id uint) (*RecipeView, error) {
	views, err := s.loadViews(ctx, viewerID, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListRecipes returns one page of recipes matching filter, oldest first.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID uint, filter RecipeFilter, page PageRequest) ([]RecipeView, int64, error) {
	var total int64
	if err := s.filtered(ctx, viewerID, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var ids []uint
	if err := s.filtered(ctx, viewerID, filter).
		Order("recipes.id").
		Limit(page.Limit).Offset(page.Offset).
		Pluck("recipes.id", &ids).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := s.loadViews(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *RecipeService) filtered(ctx context.Context, viewerID uint, filter RecipeFilter) *gorm.DB {
	db := s.db.WithContext(ctx)
	q := db.Model(&models.Recipe{})

	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if viewerID != Anonymous && filter.OnlyFavorited {
		q = q.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	if viewerID != Anonymous && filter.OnlyInShoppingCart {
		q = q.Where("recipes.id IN (?)", db.Model(&models.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	return q
}

// loadViews loads recipes with all associations, keeping the order of ids.
func (s *RecipeService) loadViews(ctx context.Context, viewerID uint, ids []uint) ([]RecipeView, error) {
	if len(ids) == 0 {
		return []RecipeView{}, nil
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Ingredients.Ingredient").
		Where("id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := memberSet(ctx, s.db, &models.Favorite{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := memberSet(ctx, s.db, &models.ShoppingCartItem{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedTo(ctx, s.db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, RecipeView{
			Recipe:           r,
			IsFavorited:      favorited[id],
			IsInShoppingCart: inCart[id],
			AuthorSubscribed: subscribed[r.AuthorID],
		})
	}
	return views, nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

// resolveReferences checks that every referenced ingredient and tag exists
// and returns the tags to associate.
func (s *RecipeService) resolveReferences(ctx context.Context, req *types.RecipeRequest) ([]models.Tag, error) {
	db := s.db.WithContext(ctx)
	v := Violations{}

	if req.Ingredients != nil && len(*req.Ingredients) > 0 {
		ids := make([]uint, 0, len(*req.Ingredients))
		for _, line := range *req.Ingredients {
			ids = append(ids, line.ID)
		}
		var found []uint
		if err := db.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return nil, fmt.Errorf("failed to check ingredients: %w", err)
		}
		known := make(map[uint]bool, len(found))
		for _, id := range found {
			known[id] = true
		}
		for i, line := range *req.Ingredients {
			if !known[line.ID] {
				v[fmt.Sprintf("ingredients[%d].id", i)] = fmt.Sprintf("invalid ingredient id %d", line.ID)
			}
		}
	}

	var tags []models.Tag
	if req.Tags != nil && len(*req.Tags) > 0 {
		if err := db.Where("id IN ?", *req.Tags).Find(&tags).Error; err != nil {
			return nil, fmt.Errorf("failed to check tags: %w", err)
		}
		known := make(map[uint]bool, len(tags))
		for _, t := range tags {
			known[t.ID] = true
		}
		for _, id := range *req.Tags {
			if !known[id] {
				v["tags"] = fmt.Sprintf("invalid tag id %d", id)
				break
			}
		}
	}

	if !v.Empty() {
		return nil, &ValidationError{Fields: v}
	}
	return tags, nil
}

// replaceLines inserts the ingredient lines of a recipe in submission order.
func replaceLines(tx *gorm.DB, recipeID uint, lines []types.IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
			Position:     i,
		}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newValidationError("ingredients", "ingredients must be unique")
		}
		return fmt.Errorf("failed to create ingredient lines: %w", err)
	}
	return nil
}

// validateRecipeRequest runs the checks that need no database access.
func validateRecipeRequest(req *types.RecipeRequest, partial bool) error {
	v := Violations{}
	const required = "this field is required"

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		switch {
		case name == "":
			v["name"] = "this field may not be blank"
		case utf8.RuneCountInString(name) > maxRecipeNameLength:
			v["name"] = fmt.Sprintf("ensure this field has no more than %d characters", maxRecipeNameLength)
		}
	} else if !partial {
		v["name"] = required
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			v["text"] = "this field may not be blank"
		}
	} else if !partial {
		v["text"] = required
	}

	if req.Image == nil && !partial {
		v["image"] = required
	}

	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			v["cooking_time"] = "ensure this value is greater than or equal to 1"
		}
	} else if !partial {
		v["cooking_time"] = required
	}

	if req.Ingredients != nil {
		lines := *req.Ingredients
		if len(lines) == 0 && !partial {
			v["ingredients"] = "at least one ingredient is required"
		}
		seen := make(map[uint]int, len(lines))
		for i, line := range lines {
			if first, dup := seen[line.ID]; dup {
				v[fmt.Sprintf("ingredients[%d].id", i)] = fmt.Sprintf("duplicate of ingredients[%d]", first)
			} else {
				seen[line.ID] = i
			}
			if msg := amountProblem(line.Amount); msg != "" {
				v[fmt.Sprintf("ingredients[%d].amount", i)] = msg
			}
		}
	} else if !partial {
		v["ingredients"] = required
	}

	if !v.Empty() {
		return &ValidationError{Fields: v}
	}
	return nil
}

func amountProblem(amount decimal.Decimal) string {
	switch {
	case !amount.IsPositive():
		return "amount must be greater than 0"
	case !amount.Equal(amount.Round(2)):
		return "ensure there are no more than 2 decimal places"
	case amount.GreaterThanOrEqual(maxAmount):
		return "ensure there are no more than 5 digits before the decimal point"
	}
	return ""
}
