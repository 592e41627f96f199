package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hearthapp/hearth-api/internal/api"
	apiMiddleware "github.com/hearthapp/hearth-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	// Create API handlers using the application's services
	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		tokenLifetime,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	suggestionHandler := api.NewSuggestionHandler(app.suggestionService, app.logger)
	aiHandler := api.NewAIHandler(app.insightService, app.recurrenceOracle, app.logger)
	statsHandler := api.NewStatsHandler(app.insightService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/reminders", taskHandler.ListReminders)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
			r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)

			// Statistics endpoint
			r.Get("/stats", statsHandler.GetStats)

			// Assistant endpoints
			r.Post("/ai/priority", aiHandler.SuggestPriority)
			r.Post("/ai/recurrence", aiHandler.CheckRecurrence)
			r.Get("/ai/summary", aiHandler.Summarize)

			// Recurrence suggestion endpoints
			r.Post("/suggestions/scan", suggestionHandler.Scan)
			r.Get("/suggestions", suggestionHandler.ListSuggestions)
			r.Post("/suggestions/{id}/accept", suggestionHandler.AcceptSuggestion)
			r.Post("/suggestions/{id}/dismiss", suggestionHandler.DismissSuggestion)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
