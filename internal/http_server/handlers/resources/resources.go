// Package resources implements the /resources collection. Reads are public;
// mutations require a bearer token.
package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	resp "survey_backend/internal/lib/api/response"
	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ResourceStore interface {
	SaveResource(ctx context.Context, title, description string, value float64) (models.Resource, error)
	Resources(ctx context.Context) ([]models.Resource, error)
	ResourceByID(ctx context.Context, id string) (models.Resource, error)
	UpdateResource(ctx context.Context, id string, upd storage.ResourceUpdate) (models.Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

type CreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Value       *float64 `json:"value" validate:"required"`
}

type UpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
}

func List(log *slog.Logger, store ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resources.List"

		log := requestLogger(log, op, r)

		resources, err := store.Resources(r.Context())
		if err != nil {
			log.Error("failed to list resources", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, resources)
	}
}

func Create(log *slog.Logger, validate *validator.Validate, store ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resources.Create"

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

		resource, err := store.SaveResource(r.Context(), req.Title, req.Description, *req.Value)
		if err != nil {
			log.Error("failed to save resource", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resource)
	}
}

func Get(log *slog.Logger, store ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resources.Get"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		resource, err := store.ResourceByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrResourceNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to get resource", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, resource)
	}
}

func Update(log *slog.Logger, validate *validator.Validate, store ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resources.Update"

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

		resource, err := store.UpdateResource(r.Context(), id, storage.ResourceUpdate{
			Title:       req.Title,
			Description: req.Description,
			Value:       req.Value,
		})
		if err != nil {
			if errors.Is(err, storage.ErrResourceNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to update resource", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, resource)
	}
}

func Delete(log *slog.Logger, store ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resources.Delete"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		if err := store.DeleteResource(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrResourceNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to delete resource", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, map[string]string{
			"message": fmt.Sprintf("Resource with id: %s was successfully deleted", id),
		})
	}
}

func requestLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
