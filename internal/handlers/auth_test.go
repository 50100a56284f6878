package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shard-legends/cocktails-service/internal/models"
)

func register(t *testing.T, f *apiFixture, name, email, password string) models.TokenResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.TokenResponse](t, w)
}

func TestAuthHandler_Register(t *testing.T) {
	f := newAPIFixture(t)

	resp := register(t, f, "Nick", testEmail, "secret1")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserProfile{Name: "Nick", Email: testEmail}, resp.User)

	t.Run("duplicate email", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Name:     "Other",
			Email:    testEmail,
			Password: "secret2",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "user_exists", decode[models.ErrorResponse](t, w).Error)
	})

	t.Run("invalid email", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Name:     "Nick",
			Email:    "not-an-email",
			Password: "secret1",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "validation_failed", resp.Error)
		assert.Equal(t, "email", resp.Details["Email"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Nick"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decode[models.ErrorResponse](t, w).Error)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAPIFixture(t)
	register(t, f, "Nick", testEmail, "secret1")

	w := f.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: testEmail, Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[models.TokenResponse](t, w).Token)

	w = f.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: testEmail, Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[models.ErrorResponse](t, w).Error)

	w = f.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "nobody@example.com", Password: "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Profile(t *testing.T) {
	f := newAPIFixture(t)
	token := register(t, f, "Nick", testEmail, "secret1").Token

	w := f.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserProfile{Name: "Nick", Email: testEmail}, decode[models.UserProfile](t, w))

	w = f.do(t, http.MethodPut, "/api/auth/me/name", models.EditNameRequest{Name: "Nicholas"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nicholas", decode[models.UserProfile](t, w).Name)

	w = f.do(t, http.MethodPut, "/api/auth/me/password", models.EditPasswordRequest{Password: "better-secret"}, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: testEmail, Password: "better-secret"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/api/auth/me/password", models.EditPasswordRequest{Password: "123"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_ProfileOfDeletedUser(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/auth/me", nil, f.token(t, "ghost@example.com"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user_not_found", decode[models.ErrorResponse](t, w).Error)
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAPIFixture(t)
	token := register(t, f, "Nick", testEmail, "secret1").Token

	w := f.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, f.revocations.revoked, 1)

	w = f.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_revoked", decode[models.ErrorResponse](t, w).Error)
}

func TestAuthHandler_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/api/auth/me", "/api/cocktails?filter=glass&value=x", "/api/favorites"} {
		w := f.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
