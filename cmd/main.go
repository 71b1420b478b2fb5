package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey_backend/internal/auth"
	"survey_backend/internal/config"
	"survey_backend/internal/http_server/handlers/jwtsignin"
	"survey_backend/internal/http_server/handlers/questionnaires"
	"survey_backend/internal/http_server/handlers/resources"
	"survey_backend/internal/http_server/handlers/responses"
	"survey_backend/internal/http_server/handlers/signin"
	"survey_backend/internal/http_server/handlers/signup"
	"survey_backend/internal/http_server/handlers/users"
	"survey_backend/internal/lib/api/response"
	"survey_backend/internal/lib/jwt"
	"survey_backend/internal/middleware/authn"
	rateLimit "survey_backend/internal/middleware/ratelimit"
	"survey_backend/internal/rabbitmq"
	"survey_backend/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting survey backend", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	var mail signup.WelcomePublisher

	if cfg.RabbitMQ.URL != "" {
		msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer msgBroker.Close()

		mail = msgBroker
	} else {
		log.Warn("rabbitmq url not configured, welcome emails disabled")
	}

	authService := auth.New(log, storage, storage, cfg.Auth.BcryptCost)
	tokens := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	router := setupRouter(log, authService, tokens, storage, mail)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	tokens *jwt.Manager,
	storage *postgres.PostgresRepo,
	mail signup.WelcomePublisher,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	validate := validator.New()

	requireAuth := authn.RequireAuth(log, storage, tokens)
	requireSignin := authn.RequireSignin(log, authService)

	r.Route("/auth", func(r chi.Router) {
		r.With(rateLimit.Signup()).Post("/signup",
			signup.New(log, validate, authService, tokens, mail),
		)
		r.With(rateLimit.Signin(), requireSignin).Post("/signin",
			signin.New(log, tokens),
		)
		r.With(rateLimit.JwtSignin(), requireAuth).Get("/jwt-signin",
			jwtsignin.New(log),
		)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", users.List(log, storage))
		r.Post("/", users.Create(log, validate, authService))
		r.Get("/{id}", users.Get(log, storage))
		r.Put("/{id}", users.Update(log, validate, storage, authService))
		r.Delete("/{id}", users.Delete(log, storage))
	})

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", resources.List(log, storage))
		r.With(requireAuth).Post("/", resources.Create(log, validate, storage))
		r.Get("/{id}", resources.Get(log, storage))
		r.With(requireAuth).Put("/{id}", resources.Update(log, validate, storage))
		r.With(requireAuth).Delete("/{id}", resources.Delete(log, storage))
	})

	r.Route("/questionnaires", func(r chi.Router) {
		r.Get("/", questionnaires.List(log, storage))
		r.With(requireAuth).Post("/", questionnaires.Create(log, validate, storage))
		r.Get("/{id}", questionnaires.Get(log, storage))
		r.With(requireAuth).Put("/{id}", questionnaires.Update(log, validate, storage))
		r.With(requireAuth).Delete("/{id}", questionnaires.Delete(log, storage))
	})

	r.Route("/responses", func(r chi.Router) {
		r.Get("/", responses.List(log, storage))
		r.Post("/", responses.Create(log, storage))
		r.Get("/{id}", responses.Get(log, storage))
		r.With(requireAuth).Put("/{id}", responses.Update(log, storage))
		r.With(requireAuth).Delete("/{id}", responses.Delete(log, storage))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to backend!"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("The route you've requested doesn't exist"))
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
