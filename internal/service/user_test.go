package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.Register(ctx, registerRequest("ada"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*types.RegisterRequest)
		field  string
	}{
		{"reserved username", func(r *types.RegisterRequest) { r.Username = "me" }, "username"},
		{"bad username", func(r *types.RegisterRequest) { r.Username = "a b" }, "username"},
		{"short password", func(r *types.RegisterRequest) { r.Password = "short" }, "password"},
		{"numeric password", func(r *types.RegisterRequest) { r.Password = "1234567890" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest("valid")
			tt.mutate(req)
			_, err := svc.Register(ctx, req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestGetAndListUsersIsSubscribed(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewUserService(db)
	follows := NewFollowService(db)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	_, err := follows.Follow(ctx, alice.ID, bob.ID, 0)
	require.NoError(t, err)

	view, err := svc.GetUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	view, err = svc.GetUser(ctx, Anonymous, bob.ID)
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)

	_, err = svc.GetUser(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	views, total, err := svc.ListUsers(ctx, alice.ID, PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, views, 1)
	assert.Equal(t, bob.ID, views[0].User.ID)
	assert.True(t, views[0].IsSubscribed)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "alice")

	err := svc.SetPassword(ctx, user.ID, "not-my-password", "brand-new-pass")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	err = svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "123")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "new_password")

	require.NoError(t, svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "brand-new-pass"))

	auth := NewAuthService(db, "secret", 0, NewDBTokenStore(db))
	_, err = auth.Login(ctx, user.Email, "brand-new-pass")
	assert.NoError(t, err)
}
