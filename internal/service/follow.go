package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// SubscriptionView is a followed user with a preview of their recipes.
type SubscriptionView struct {
	User         models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// FollowService manages user subscriptions.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow subscribes followerID to targetID. recipesLimit bounds the recipe
// preview of the result; a negative value means no limit.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint, recipesLimit int) (*SubscriptionView, error) {
	if followerID == targetID {
		return nil, newValidationError("following", "cannot follow self")
	}

	db := s.db.WithContext(ctx)
	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	follow := models.Follow{UserID: followerID, FollowingID: targetID}
	if err := db.Omit("User", "Following").Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "already subscribed to this user"}
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	views, err := s.withRecipes(ctx, []models.User{target}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) (RemoveResult, error) {
	db := s.db.WithContext(ctx)
	var target models.User
	if err := db.Select("id").First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotPresent, ErrNotFound
		}
		return NotPresent, fmt.Errorf("failed to load user: %w", err)
	}

	res := db.Where("user_id = ? AND following_id = ?", followerID, targetID).Delete(&models.Follow{})
	if res.Error != nil {
		return NotPresent, fmt.Errorf("failed to delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotPresent, nil
	}
	return Removed, nil
}

// ListSubscriptions returns one page of the users userID follows.
func (s *FollowService) ListSubscriptions(ctx context.Context, userID uint, recipesLimit int, page PageRequest) ([]SubscriptionView, int64, error) {
	db := s.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("following_id").Where("user_id = ?", userID)

	var total int64
	if err := db.Model(&models.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var users []models.User
	if err := db.Where("id IN (?)", followed).
		Order("id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views, err := s.withRecipes(ctx, users, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *FollowService) withRecipes(ctx context.Context, users []models.User, recipesLimit int) ([]SubscriptionView, error) {
	views := make([]SubscriptionView, len(users))
	if len(users) == 0 {
		return views, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	type authorCount struct {
		AuthorID uint
		Count    int64
	}
	var counts []authorCount
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	byAuthor := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byAuthor[c.AuthorID] = c.Count
	}

	for i, u := range users {
		views[i] = SubscriptionView{User: u, RecipesCount: byAuthor[u.ID], Recipes: []models.Recipe{}}
		if recipesLimit == 0 {
			continue
		}
		q := s.db.WithContext(ctx).Where("author_id = ?", u.ID).Order("id")
		if recipesLimit > 0 {
			q = q.Limit(recipesLimit)
		}
		if err := q.Find(&views[i].Recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to load recipes: %w", err)
		}
	}
	return views, nil
}

// subscribedTo reports which of ids viewerID follows.
func subscribedTo(ctx context.Context, db *gorm.DB, viewerID uint, ids []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(ids))
	if viewerID == Anonymous || len(ids) == 0 {
		return out, nil
	}

	var following []uint
	if err := db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", viewerID, ids).
		Pluck("following_id", &following).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	for _, id := range following {
		out[id] = true
	}
	return out, nil
}
