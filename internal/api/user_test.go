package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/users", "", map[string]interface{}{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ann",
		"last_name":  "Cook",
		"password":   "long-enough-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)
	assert.Equal(t, "cook", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "is_subscribed")

	w = a.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "cook@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "cook@example.com", "password": "long-enough-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["auth_token"].(string)
	require.NotEmpty(t, token)

	w = a.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cook@example.com", decode(t, w)["email"])

	w = a.do(t, http.MethodPost, "/api/auth/token/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/users", "", map[string]interface{}{
		"email":    "not-an-email",
		"username": "me",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "password")

	w = a.do(t, http.MethodPost, "/api/users", "", map[string]interface{}{
		"email":      "me@example.com",
		"username":   "me",
		"first_name": "M",
		"last_name":  "E",
		"password":   "12345678",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields = decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}

func TestSetPassword(t *testing.T) {
	a := newTestAPI(t)
	user := testhelpers.CreateUser(t, a.db, "cook")
	token := a.login(t, user)

	w := a.do(t, http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": "wrong", "new_password": "another-pass-2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": testhelpers.TestPassword, "new_password": "another-pass-2",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": user.Email, "password": "another-pass-2",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubscriptions(t *testing.T) {
	a := newTestAPI(t)
	reader := testhelpers.CreateUser(t, a.db, "reader")
	chef := testhelpers.CreateUser(t, a.db, "chef")
	testhelpers.CreateRecipe(t, a.db, chef, "stew")
	testhelpers.CreateRecipe(t, a.db, chef, "pie")
	token := a.login(t, reader)

	w := a.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", reader.ID), token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "following")

	w = a.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe?recipes_limit=1", chef.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode(t, w)
	assert.Equal(t, true, sub["is_subscribed"])
	assert.Equal(t, float64(2), sub["recipes_count"])
	assert.Len(t, sub["recipes"], 1)

	w = a.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", chef.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", chef.ID), token, nil)
	assert.Equal(t, true, decode(t, w)["is_subscribed"])
	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", chef.ID), "", nil)
	assert.Equal(t, false, decode(t, w)["is_subscribed"])

	w = a.do(t, http.MethodGet, "/api/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["count"])
	assert.Len(t, page["results"].([]interface{})[0].(map[string]interface{})["recipes"], 2)

	w = a.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", chef.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", chef.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/users/9999/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	a := newTestAPI(t)
	testhelpers.CreateUser(t, a.db, "first")
	testhelpers.CreateUser(t, a.db, "second")

	w := a.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(2), page["count"])
	assert.Equal(t, "second", page["results"].([]interface{})[0].(map[string]interface{})["username"])

	w = a.do(t, http.MethodGet, "/api/users/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
