package signup_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"survey_backend/internal/auth"
	"survey_backend/internal/http_server/handlers/signup"
	"survey_backend/internal/lib/jwt"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byEmail map[string]models.User
	saves   int
}

func (s *fakeUserStore) SaveUser(_ context.Context, email string, passHash []byte, firstName, lastName string) (models.User, error) {
	s.saves++

	if _, ok := s.byEmail[email]; ok {
		return models.User{}, storage.ErrUserExists
	}

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

type fakeMail struct {
	sent []models.User
}

func (m *fakeMail) PublishWelcome(_ context.Context, user models.User) error {
	m.sent = append(m.sent, user)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(store *fakeUserStore, mail *fakeMail, tokens *jwt.Manager) http.HandlerFunc {
	svc := auth.New(discardLogger(), store, store, bcrypt.MinCost)

	return signup.New(discardLogger(), validator.New(), svc, tokens, mail)
}

const validBody = `{
	"email": "test@test.com",
	"password": "password",
	"first_name": "Joe",
	"last_name": "Smith"
}`

func TestSignupSuccess(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	mail := &fakeMail{}
	tokens := jwt.NewManager("secret", time.Hour)

	handler := newHandler(store, mail, tokens)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			FullName  string `json:"full_name"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "test@test.com", body.User.Email)
	assert.Equal(t, "Joe Smith", body.User.FullName)

	subject, err := tokens.Decode(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, subject)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "test@test.com", mail.sent[0].Email)
}

func TestSignupDoesNotLeakPasswordHash(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	handler := newHandler(store, &fakeMail{}, jwt.NewManager("secret", time.Hour))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	user := payload["user"].(map[string]any)
	_, leaked := user["password"]
	assert.False(t, leaked)
	_, leaked = user["PassHash"]
	assert.False(t, leaked)
}

func TestSignupMissingFields(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	handler := newHandler(store, &fakeMail{}, jwt.NewManager("secret", time.Hour))

	fields := map[string]string{
		"email":      `{"password":"p","first_name":"Joe","last_name":"Smith"}`,
		"password":   `{"email":"a@b.com","first_name":"Joe","last_name":"Smith"}`,
		"first_name": `{"email":"a@b.com","password":"p","last_name":"Smith"}`,
		"last_name":  `{"email":"a@b.com","password":"p","first_name":"Joe"}`,
	}

	for field, body := range fields {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code, field)

		var payload struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

		assert.Equal(t, "Request error", payload.Message, field)
		require.Len(t, payload.Errors, 1, field)
		assert.Equal(t, fmt.Sprintf("'%s' is required", field), payload.Errors[0])
	}

	assert.Zero(t, store.saves)
}

func TestSignupEmailTaken(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byEmail: map[string]models.User{}}
	handler := newHandler(store, &fakeMail{}, jwt.NewManager("secret", time.Hour))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(validBody)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"token"`)
}
