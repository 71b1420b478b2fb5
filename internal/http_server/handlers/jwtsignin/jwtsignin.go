// Package jwtsignin returns the identity a valid bearer token resolves to,
// letting clients restore a session from a stored token.
package jwtsignin

import (
	"log/slog"
	"net/http"

	resp "survey_backend/internal/lib/api/response"
	"survey_backend/internal/middleware/authn"
	"survey_backend/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	User models.User `json:"user"`
}

func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jwtsignin.New"

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

		render.JSON(w, r, Response{User: user})
	}
}
