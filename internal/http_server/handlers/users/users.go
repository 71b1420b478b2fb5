// Package users implements the /users collection. Every route sits behind
// the bearer-token gate.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"survey_backend/internal/auth"
	resp "survey_backend/internal/lib/api/response"
	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type UserStore interface {
	Users(ctx context.Context) ([]models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type CreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type UpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func List(log *slog.Logger, store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.List"

		log := requestLogger(log, op, r)

		users, err := store.Users(r.Context())
		if err != nil {
			log.Error("failed to list users", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, users)
	}
}

func Create(log *slog.Logger, validate *validator.Validate, authService *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.Create"

		log := requestLogger(log, op, r)

		var req CreateRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Warn("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		user, err := authService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("Email address already associated to a user"))

				return
			}

			log.Error("failed to create user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, user)
	}
}

func Get(log *slog.Logger, store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.Get"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		user, err := store.UserByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to get user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, user)
	}
}

// Update applies a partial change. A new password is re-hashed here; the
// storage layer only ever sees the hash.
func Update(log *slog.Logger, validate *validator.Validate, store UserStore, authService *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.Update"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		var req UpdateRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Warn("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		upd := storage.UserUpdate{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}

		if req.Password != nil {
			passHash, err := authService.HashPassword(*req.Password)
			if err != nil {
				log.Error("failed to hash password", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.ServerError())

				return
			}

			upd.PassHash = passHash
		}

		user, err := store.UpdateUser(r.Context(), id, upd)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))
			case errors.Is(err, storage.ErrUserExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("Email address already associated to a user"))
			default:
				log.Error("failed to update user", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.ServerError())
			}

			return
		}

		render.JSON(w, r, user)
	}
}

func Delete(log *slog.Logger, store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.Delete"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		if err := store.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to delete user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, map[string]string{
			"message": fmt.Sprintf("User with id: %s was successfully deleted", id),
		})
	}
}

func requestLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
