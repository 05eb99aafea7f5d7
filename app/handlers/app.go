package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/narang24/Journal-Website-Backend/app/docs"
	"github.com/narang24/Journal-Website-Backend/app/logger"
	"github.com/narang24/Journal-Website-Backend/app/metrics"
	authmw "github.com/narang24/Journal-Website-Backend/app/middleware"
	"github.com/narang24/Journal-Website-Backend/app/services"
	"github.com/narang24/Journal-Website-Backend/app/store"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type config struct {
	addr string
	db   dbConfig
}

type application struct {
	config            config
	store             store.Storage
	authService       *services.AuthService
	userService       *services.UserService
	manuscriptService *services.ManuscriptService
	redisClient       *redis.Client
	db                *sql.DB
	// rabbitConn and rabbitCh are nil unless the amqp mail provider is active.
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(authmw.RequestIDTracing())
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(authmw.Metrics())
	r.Use(authmw.SecurityHeaders())

	// CORS must come early to catch preflight requests.
	r.Use(authmw.CORS())
	r.Use(authmw.BodyLimitFromEnv())
	r.Use(middleware.Timeout(60 * time.Second))

	healthLimit := authmw.RouteLimit{Name: "health", Capacity: 20, Window: time.Minute}
	registerLimit := authmw.RouteLimit{Name: "register", Capacity: 10, Window: 5 * time.Minute}
	loginLimit := authmw.RouteLimit{Name: "login", Capacity: 5, Window: time.Minute}
	verifyEmailLimit := authmw.RouteLimit{Name: "verifyEmail", Capacity: 10, Window: time.Minute}
	resendLimit := authmw.RouteLimit{Name: "resendVerification", Capacity: 3, Window: 15 * time.Minute}
	forgotPasswordLimit := authmw.RouteLimit{Name: "forgotPassword", Capacity: 3, Window: time.Hour}
	resetPasswordLimit := authmw.RouteLimit{Name: "resetPassword", Capacity: 5, Window: time.Minute}
	protectedLimit := authmw.RouteLimit{Name: "protected", Capacity: 120, Window: time.Minute}

	r.With(authmw.RateLimit(app.redisClient, healthLimit, authmw.PrincipalIP())).Get("/health", app.healthCheckHandler)
	r.Get("/health/cors", app.corsDiagnosticHandler)
	r.With(authmw.MetricsAuth()).Get("/metrics", metrics.MetricsHandler().ServeHTTP)
	r.Get("/openapi.json", docs.OpenAPIHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authmw.RateLimit(app.redisClient, registerLimit, authmw.PrincipalIP())).Post("/register", app.registerHandler)
			r.With(authmw.RateLimit(app.redisClient, loginLimit, authmw.PrincipalIP())).Post("/login", app.loginHandler)
			r.With(authmw.RateLimit(app.redisClient, verifyEmailLimit, authmw.PrincipalIP())).Get("/verify-email/{token}", app.verifyEmailHandler)
			r.With(authmw.RateLimit(app.redisClient, resendLimit, authmw.PrincipalIP())).Post("/resend-verification", app.resendVerificationHandler)
			r.With(authmw.RateLimit(app.redisClient, forgotPasswordLimit, authmw.PrincipalIP())).Post("/forgot-password", app.forgotPasswordHandler)
			r.With(authmw.RateLimit(app.redisClient, resetPasswordLimit, authmw.PrincipalIP())).Post("/reset-password/{token}", app.resetPasswordHandler)

			r.Group(func(pr chi.Router) {
				pr.Use(authmw.RequireAuth(app.store))
				pr.Use(authmw.RateLimit(app.redisClient, protectedLimit, authmw.PrincipalUserOrIP()))
				pr.Get("/me", app.meHandler)
				pr.Post("/logout", app.logoutHandler)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authmw.RequireAuth(app.store))
			r.Use(authmw.RateLimit(app.redisClient, protectedLimit, authmw.PrincipalUserOrIP()))
			r.Get("/profile", app.getProfileHandler)
			r.Put("/profile", app.updateProfileHandler)
			r.Get("/stats", app.statsHandler)
		})

		r.Group(func(mr chi.Router) {
			mr.Use(authmw.RequireAuth(app.store))
			mr.Use(authmw.RateLimit(app.redisClient, protectedLimit, authmw.PrincipalUserOrIP()))
			mr.Get("/manuscripts", app.listManuscriptsHandler)
			mr.With(authmw.RequireRoles("publisher", "admin")).Post("/manuscripts", app.submitManuscriptHandler)
		})
	})

	return r
}

// runWithGracefulShutdown starts the server and drains in-flight requests on
// SIGTERM/SIGINT before closing dependency connections.
func (app *application) runWithGracefulShutdown(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("addr", app.config.addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Logger.Info().Str("signal", sig.String()).Msg("received signal, starting graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logger.Logger.Info().Msg("server gracefully stopped")

	if err := app.db.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("error closing database")
	}
	if err := app.redisClient.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("error closing redis")
	}
	if app.rabbitCh != nil {
		if err := app.rabbitCh.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("error closing rabbitmq channel")
		}
	}
	if app.rabbitConn != nil {
		if err := app.rabbitConn.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("error closing rabbitmq connection")
		}
	}

	logger.Logger.Info().Msg("graceful shutdown completed")
	return nil
}
