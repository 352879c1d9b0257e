package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TokenStore tracks a per-user token version. Tokens carry the version they
// were issued under and stop validating once the version moves on.
type TokenStore interface {
	Version(ctx context.Context, userID uint) (int64, error)
	Revoke(ctx context.Context, userID uint) error
}

// DBTokenStore keeps token versions in the users.token_version column, so a
// logout holds no matter which optional backends the server starts with.
type DBTokenStore struct {
	db *gorm.DB
}

func NewDBTokenStore(db *gorm.DB) *DBTokenStore {
	return &DBTokenStore{db: db}
}

func (s *DBTokenStore) Version(ctx context.Context, userID uint) (int64, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("token_version").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrInvalidToken
	}
	return user.TokenVersion, err
}

func (s *DBTokenStore) Revoke(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

var _ TokenStore = (*DBTokenStore)(nil)
