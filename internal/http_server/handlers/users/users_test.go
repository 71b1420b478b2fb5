package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"survey_backend/internal/auth"
	"survey_backend/internal/http_server/handlers/users"
	"survey_backend/internal/lib/passwords"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byID map[string]models.User
}

func (s *fakeUserStore) SaveUser(_ context.Context, email string, passHash []byte, firstName, lastName string) (models.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return models.User{}, storage.ErrUserExists
		}
	}

	u := models.User{ID: "user-" + email, Email: email, PassHash: passHash, FirstName: firstName, LastName: lastName}
	s.byID[u.ID] = u

	return u, nil
}

func (s *fakeUserStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrUserNotFound
}

func (s *fakeUserStore) UserByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Users(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) UpdateUser(_ context.Context, id string, upd storage.UserUpdate) (models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PassHash != nil {
		u.PassHash = upd.PassHash
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}

	s.byID[id] = u

	return u, nil
}

func (s *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return storage.ErrUserNotFound
	}
	delete(s.byID, id)
	return nil
}

func newRouter(store *fakeUserStore) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	validate := validator.New()
	svc := auth.New(log, store, store, bcrypt.MinCost)

	r := chi.NewRouter()
	r.Get("/users", users.List(log, store))
	r.Post("/users", users.Create(log, validate, svc))
	r.Get("/users/{id}", users.Get(log, store))
	r.Put("/users/{id}", users.Update(log, validate, store, svc))
	r.Delete("/users/{id}", users.Delete(log, store))

	return r
}

func TestCreateUserHashesPassword(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byID: map[string]models.User{}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"email":"test@test.com","password":"password","first_name":"Joe","last_name":"Smith"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	stored := store.byID["user-test@test.com"]
	assert.NotEqual(t, "password", string(stored.PassHash))

	ok, err := passwords.Verify("password", stored.PassHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUserRehashesChangedPassword(t *testing.T) {
	t.Parallel()

	oldHash, err := passwords.Hash("old password", bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeUserStore{byID: map[string]models.User{
		"user-1": {ID: "user-1", Email: "test@test.com", PassHash: oldHash},
	}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/user-1",
		strings.NewReader(`{"password":"new password"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	stored := store.byID["user-1"]
	assert.NotEqual(t, "new password", string(stored.PassHash))

	ok, err := passwords.Verify("new password", stored.PassHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = passwords.Verify("old password", stored.PassHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUserWithoutPasswordKeepsHash(t *testing.T) {
	t.Parallel()

	oldHash, err := passwords.Hash("password", bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeUserStore{byID: map[string]models.User{
		"user-1": {ID: "user-1", Email: "test@test.com", PassHash: oldHash},
	}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/user-1",
		strings.NewReader(`{"first_name":"Joe"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(oldHash), string(store.byID["user-1"].PassHash))
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byID: map[string]models.User{}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var payload struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, "Request error", payload.Message)
	assert.Equal(t, []string{"Document with id 'missing' not found"}, payload.Errors)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{byID: map[string]models.User{
		"user-1": {ID: "user-1", Email: "test@test.com"},
	}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/user-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with id: user-1 was successfully deleted")
	assert.Empty(t, store.byID)
}
