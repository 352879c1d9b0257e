package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	auth := service.NewAuthService(db, "test-secret", time.Hour, service.NewDBTokenStore(db))
	router := gin.New()
	api.SetupAPI(router, api.Services{
		DB:         db,
		Auth:       auth,
		Users:      service.NewUserService(db),
		Follows:    service.NewFollowService(db),
		Recipes:    service.NewRecipeService(db, service.NewImageService(store)),
		Ledger:     service.NewLedgerService(db),
		References: service.NewReferenceService(db),
		Paging:     api.Paging{DefaultLimit: 6, MaxLimit: 100},
	})
	return &testAPI{router: router, db: db, auth: auth}
}

// login returns a token for a user created by testhelpers.CreateUser.
func (a *testAPI) login(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := a.auth.Login(context.Background(), user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func recipeBody(tagIDs []uint, lines ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        testhelpers.PNGDataURI(),
		"cooking_time": 20,
		"tags":         tagIDs,
		"ingredients":  lines,
	}
}

func ingredientLine(id uint, amount string) map[string]interface{} {
	return map[string]interface{}{"id": id, "amount": amount}
}
