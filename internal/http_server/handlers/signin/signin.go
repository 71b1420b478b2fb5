// Package signin renders the signed-in response. Credential checking is
// done upstream by the authn.RequireSignin middleware.
package signin

import (
	"log/slog"
	"net/http"

	resp "survey_backend/internal/lib/api/response"
	"survey_backend/internal/lib/jwt"
	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/middleware/authn"
	"survey_backend/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func New(log *slog.Logger, tokens *jwt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signin.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			log.Error("no authenticated user on request context")

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

		render.JSON(w, r, Response{
			Token: token,
			User:  user,
		})
	}
}
