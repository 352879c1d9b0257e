package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFavoriteTwiceConflicts(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewLedgerService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user, "soup")

	got, err := svc.AddFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)
	assert.Equal(t, "soup", got.Name)

	_, err = svc.AddFavorite(ctx, user.ID, recipe.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	res, err := svc.RemoveFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, Removed, res)

	res, err = svc.RemoveFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, NotPresent, res)
}

func TestFavoritesAndCartAreIndependent(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewLedgerService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user, "soup")

	_, err := svc.AddFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	res, err := svc.RemoveFromCart(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, Removed, res)

	// Still a favorite.
	_, err = svc.AddFavorite(ctx, user.ID, recipe.ID)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestLedgerMissingRecipe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewLedgerService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "alice")

	_, err := svc.AddToCart(ctx, user.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RemoveFavorite(ctx, user.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveResultString(t *testing.T) {
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "not present", NotPresent.String())
}
