package signin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"survey_backend/internal/auth"
	"survey_backend/internal/http_server/handlers/signin"
	"survey_backend/internal/lib/jwt"
	"survey_backend/internal/lib/passwords"
	"survey_backend/internal/middleware/authn"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byEmail map[string]models.User
}

func (s *fakeUserStore) SaveUser(_ context.Context, email string, passHash []byte, firstName, lastName string) (models.User, error) {
	u := models.User{ID: "user-" + email, Email: email, PassHash: passHash, FirstName: firstName, LastName: lastName}
	s.byEmail[email] = u
	return u, nil
}

func (s *fakeUserStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UserByID(_ context.Context, id string) (models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, storage.ErrUserNotFound
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// signinRoute builds the route as main does: RequireSignin in front of the
// token-issuing handler.
func signinRoute(t *testing.T, store *fakeUserStore, tokens *jwt.Manager) http.Handler {
	t.Helper()

	svc := auth.New(discardLogger(), store, store, bcrypt.MinCost)

	return authn.RequireSignin(discardLogger(), svc)(signin.New(discardLogger(), tokens))
}

func seedUser(t *testing.T, store *fakeUserStore) models.User {
	t.Helper()

	hash, err := passwords.Hash("password", bcrypt.MinCost)
	require.NoError(t, err)

	u := models.User{ID: "user-1", Email: "test@test.com", PassHash: hash, FirstName: "Joe", LastName: "Smith"}
	store.byEmail[u.Email] = u

	return u
}

func TestSigninIssuesDecodableToken(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	seeded := seedUser(t, store)

	tokens := jwt.NewManager("secret", time.Hour)
	route := signinRoute(t, store, tokens)

	req := httptest.NewRequest(http.MethodPost, "/auth/signin",
		strings.NewReader(`{"email":"test@test.com","password":"password"}`))

	rec := httptest.NewRecorder()
	route.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, seeded.ID, body.User.ID)

	subject, err := tokens.Decode(body.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, subject)
}

func TestSigninBadCredentials(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	seedUser(t, store)

	route := signinRoute(t, store, jwt.NewManager("secret", time.Hour))

	cases := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "unknown email",
			body:     `{"email":"nobody@test.com","password":"password"}`,
			wantCode: http.StatusUnauthorized,
			wantMsg:  "Email address not associated with a user",
		},
		{
			name:     "wrong password",
			body:     `{"email":"test@test.com","password":"wrong"}`,
			wantCode: http.StatusUnauthorized,
			wantMsg:  "Incorrect password",
		},
		{
			name:     "missing password",
			body:     `{"email":"test@test.com"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Field 'password' not found in request body",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(tc.body))

			rec := httptest.NewRecorder()
			route.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)

			var payload struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
			assert.Equal(t, tc.wantMsg, payload.Message)
			assert.NotContains(t, rec.Body.String(), `"token"`)
		})
	}
}
