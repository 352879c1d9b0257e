package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const minPasswordLength = 8

// UserView is a user as seen by a particular viewer.
type UserView struct {
	User         models.User
	IsSubscribed bool
}

// UserService handles registration, lookup and password changes.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user after validating the username and password.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	v := Violations{}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	switch {
	case username == "me":
		v["username"] = `username cannot be "me"`
	case !usernamePattern.MatchString(username):
		v["username"] = "enter a valid username; it may contain only letters, numbers, and @/./+/-/_ characters"
	}
	if msg := passwordProblem(req.Password); msg != "" {
		v["password"] = msg
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		v["email"] = "user with this email already exists"
	}
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		v["username"] = "a user with that username already exists"
	}
	if !v.Empty() {
		return nil, &ValidationError{Fields: v}
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashed,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "user with this email or username already exists"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Registered user %d (%s)", user.ID, user.Username)
	return &user, nil
}

// GetUser returns the user with the given id as seen by viewerID.
func (s *UserService) GetUser(ctx context.Context, viewerID, id uint) (*UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	subscribed, err := subscribedTo(ctx, s.db, viewerID, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	return &UserView{User: user, IsSubscribed: subscribed[user.ID]}, nil
}

// ListUsers returns one page of users, newest first.
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, page PageRequest) ([]UserView, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := db.Order("id DESC").Limit(page.Limit).Offset(page.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := subscribedTo(ctx, s.db, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = UserView{User: u, IsSubscribed: subscribed[u.ID]}
	}
	return views, total, nil
}

// SetPassword replaces the user's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return newValidationError("current_password", "invalid password")
	}
	if msg := passwordProblem(next); msg != "" {
		return newValidationError("new_password", msg)
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", hashed).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func passwordProblem(password string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("this password is too short; it must contain at least %d characters", minPasswordLength)
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return "this password is entirely numeric"
	}
	return ""
}
