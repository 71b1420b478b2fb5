package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"survey_backend/internal/auth"
	resp "survey_backend/internal/lib/api/response"
	"survey_backend/internal/lib/jwt"
	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type Response struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// WelcomePublisher enqueues the post-registration welcome email.
type WelcomePublisher interface {
	PublishWelcome(ctx context.Context, user models.User) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
	tokens *jwt.Manager,
	mail WelcomePublisher,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signup.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
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

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.ServerError())

			return
		}

		// The welcome email is best-effort; signup already succeeded.
		if mail != nil {
			if err := mail.PublishWelcome(r.Context(), user); err != nil {
				log.Warn("failed to enqueue welcome email", sl.Err(err))
			}
		}

		log.Info("user registered", slog.String("uid", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Token: token,
			User:  user,
		})
	}
}
