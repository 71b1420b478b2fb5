// Package authn holds the two request-authentication middlewares: signin
// (email + password in the body) and bearer-token auth for protected routes.
package authn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"survey_backend/internal/auth"
	"survey_backend/internal/lib/api/response"
	"survey_backend/internal/lib/jwt"
	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ctxKey struct{}

type UserProvider interface {
	UserByID(ctx context.Context, id string) (models.User, error)
}

// UserFromContext returns the identity attached by RequireSignin or
// RequireAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RequireSignin authenticates the {email, password} request body and puts
// the matching user on the request context. Missing fields fail before any
// database lookup or hash computation.
func RequireSignin(log *slog.Logger, authService *auth.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn.RequireSignin"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			var req signinRequest

			// An empty body is reported as a missing field, not a decode
			// failure, so it falls through to the checks below.
			if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
				log.Error("failed to decode request body", sl.Err(err))

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Failed to decode request"))

				return
			}

			if req.Email == "" {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.FieldNotFound("email"))

				return
			}

			if req.Password == "" {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.FieldNotFound("password"))

				return
			}

			user, err := authService.Login(r.Context(), req.Email, req.Password)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrUnknownEmail):
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("Email address not associated with a user"))
				case errors.Is(err, auth.ErrWrongPassword):
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("Incorrect password"))
				default:
					log.Error("failed to login user", sl.Err(err))

					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.ServerError())
				}

				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireAuth guards token-protected routes. The decoded subject is always
// re-resolved against storage: deleting a user revokes every token they
// hold, signature and expiry notwithstanding.
func RequireAuth(log *slog.Logger, users UserProvider, tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn.RequireAuth"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearerToken(r)
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Authorization token required"))

				return
			}

			subject, err := tokens.Decode(token)
			if err != nil {
				log.Info("token rejected", sl.Err(err))

				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(jwt.ErrInvalidToken.Error()))

				return
			}

			user, err := users.UserByID(r.Context(), subject)
			if err != nil {
				log.Info("token subject not found", slog.String("sub", subject))

				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Error authenticating email and password"))

				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func withUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}

	return token, true
}
