// Package questionnaires implements the /questionnaires collection. Reads
// are public; mutations require a bearer token.
package questionnaires

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

type QuestionnaireStore interface {
	SaveQuestionnaire(ctx context.Context, q models.Questionnaire) (models.Questionnaire, error)
	Questionnaires(ctx context.Context) ([]models.Questionnaire, error)
	QuestionnaireByID(ctx context.Context, id string) (models.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, id string, upd storage.QuestionnaireUpdate) (models.Questionnaire, error)
	DeleteQuestionnaire(ctx context.Context, id string) error
}

type CreateRequest struct {
	Title             string         `json:"title" validate:"required"`
	Author            string         `json:"author" validate:"required"`
	StandardFrequency string         `json:"standard_frequency" validate:"required"`
	Description       string         `json:"description" validate:"required"`
	ScoringSchema     map[string]any `json:"scoring_schema" validate:"required"`
	Questions         map[string]any `json:"questions" validate:"required"`
}

type UpdateRequest struct {
	Title             *string        `json:"title"`
	Author            *string        `json:"author"`
	StandardFrequency *string        `json:"standard_frequency"`
	Description       *string        `json:"description"`
	ScoringSchema     map[string]any `json:"scoring_schema"`
	Questions         map[string]any `json:"questions"`
}

func List(log *slog.Logger, store QuestionnaireStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questionnaires.List"

		log := requestLogger(log, op, r)

		questionnaires, err := store.Questionnaires(r.Context())
		if err != nil {
			log.Error("failed to list questionnaires", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, questionnaires)
	}
}

func Create(log *slog.Logger, validate *validator.Validate, store QuestionnaireStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questionnaires.Create"

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

		questionnaire, err := store.SaveQuestionnaire(r.Context(), models.Questionnaire{
			Title:             req.Title,
			Author:            req.Author,
			StandardFrequency: req.StandardFrequency,
			Description:       req.Description,
			ScoringSchema:     req.ScoringSchema,
			Questions:         req.Questions,
		})
		if err != nil {
			log.Error("failed to save questionnaire", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, questionnaire)
	}
}

func Get(log *slog.Logger, store QuestionnaireStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questionnaires.Get"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		questionnaire, err := store.QuestionnaireByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrQuestionnaireNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to get questionnaire", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, questionnaire)
	}
}

func Update(log *slog.Logger, validate *validator.Validate, store QuestionnaireStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questionnaires.Update"

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

		questionnaire, err := store.UpdateQuestionnaire(r.Context(), id, storage.QuestionnaireUpdate{
			Title:             req.Title,
			Author:            req.Author,
			StandardFrequency: req.StandardFrequency,
			Description:       req.Description,
			ScoringSchema:     req.ScoringSchema,
			Questions:         req.Questions,
		})
		if err != nil {
			if errors.Is(err, storage.ErrQuestionnaireNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to update questionnaire", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, questionnaire)
	}
}

func Delete(log *slog.Logger, store QuestionnaireStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questionnaires.Delete"

		log := requestLogger(log, op, r)

		id := chi.URLParam(r, "id")

		if err := store.DeleteQuestionnaire(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrQuestionnaireNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.DocumentNotFound(id))

				return
			}

			log.Error("failed to delete questionnaire", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		render.JSON(w, r, map[string]string{
			"message": fmt.Sprintf("Questionnaire with id: %s was successfully deleted", id),
		})
	}
}

func requestLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
