package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestLoginAndValidateToken(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "tester")

	token, err := svc.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "tester", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "tester")

	_, err := svc.Login(ctx, user.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenInvalid(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	user := testhelpers.CreateUser(t, db, "tester")

	claims, err := svc.ValidateToken(context.Background(), "invalid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)

	other := NewAuthService(db, "other-secret", time.Hour, NewDBTokenStore(db))
	token, err := other.GenerateToken(user, 0)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(db, "test-secret", -time.Minute, NewDBTokenStore(db))
	token, err = expired.GenerateToken(user, 0)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "tester")

	first, err := svc.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	second, err := svc.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err = svc.ValidateToken(ctx, first)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = svc.ValidateToken(ctx, second)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	fresh, err := svc.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, fresh)
	assert.NoError(t, err)
}

func TestLogoutSurvivesStoreRestart(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "tester")

	before := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	token, err := before.Login(ctx, user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	require.NoError(t, before.Logout(ctx, user.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, int64(1), stored.TokenVersion)

	after := NewAuthService(db, "test-secret", time.Hour, NewDBTokenStore(db))
	_, err = after.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
