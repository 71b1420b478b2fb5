package jwtsignin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"survey_backend/internal/http_server/handlers/jwtsignin"
	"survey_backend/internal/lib/jwt"
	"survey_backend/internal/middleware/authn"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]models.User
}

func (f *fakeUsers) UserByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJwtSigninReturnsUser(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{users: map[string]models.User{
		"user-1": {ID: "user-1", Email: "test@test.com", FirstName: "Joe", LastName: "Smith"},
	}}

	tokens := jwt.NewManager("secret", time.Hour)
	route := authn.RequireAuth(discardLogger(), users, tokens)(jwtsignin.New(discardLogger()))

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt-signin", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	route.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "user-1", body.User.ID)
	assert.Equal(t, "Joe Smith", body.User.FullName)
}

func TestJwtSigninRejectsWithoutToken(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{users: map[string]models.User{}}
	route := authn.RequireAuth(discardLogger(), users, jwt.NewManager("secret", time.Hour))(jwtsignin.New(discardLogger()))

	rec := httptest.NewRecorder()
	route.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/jwt-signin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
