// Package responses implements the /responses collection. Submissions are
// intentionally open so respondents can answer without an account; update
// and delete require a bearer token.
package responses

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
)

type ResponseStore interface {
	SaveResponse(ctx context.Context, responses, scores map[string]any) (models.SurveyResponse, error)
	Responses(ctx context.Context) ([]models.SurveyResponse, error)
	ResponseByID(ctx context.Context, id string) (models.SurveyResponse, error)
	UpdateResponse(ctx context.Context, id string, upd storage.ResponseUpdate) (models.SurveyResponse, error)
	DeleteResponse(ctx context.Context, id string) error
}

type Request struct {
	Responses map[string]any `json:"responses"`
	Scores    map[string]any `json:"scores"`
}

func List(log *slog.Logger, store ResponseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.responses.List"

		log := requestLogger(log, op, r)

		responses, err := store.Responses(r.Context())
		if err != nil {
			log.Error("failed to list responses", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, responses)
	}
}

func Create(log *slog.Logger, store ResponseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.responses.Create"

		log := requestLogger(log, op, r)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		response, err := store.SaveResponse(r.Context(), req.Responses, req.Scores)
		if err != nil {
			log.Error("failed to save response", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response)
	}
}

func Get(log *slog.Logger, store ResponseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.responses.Get"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		response, err := store.ResponseByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrResponseNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to get response", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, response)
	}
}

func Update(log *slog.Logger, store ResponseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.responses.Update"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		response, err := store.UpdateResponse(r.Context(), id, storage.ResponseUpdate{
			Responses: req.Responses,
			Scores:    req.Scores,
		})
		if err != nil {
			if errors.Is(err, storage.ErrResponseNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to update response", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, response)
	}
}

func Delete(log *slog.Logger, store ResponseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.responses.Delete"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		if err := store.DeleteResponse(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrResponseNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to delete response", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, map[string]string{
			"message": fmt.Sprintf("Response with id: %s was successfully deleted", id),
		})
	}
}

func requestLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
