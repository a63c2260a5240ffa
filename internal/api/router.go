package api

import (
	"net/http"

	"github.com/dom/haikyu-team-builder/internal/api/handlers"
	"github.com/dom/haikyu-team-builder/internal/api/middleware"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/dom/haikyu-team-builder/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, recorder *metrics.Recorder, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics(recorder))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", recorder.Handler())

	// Initialize handlers
	rosterHandler := handlers.NewRosterHandler(services.Roster, logger)
	adminHandler := handlers.NewAdminHandler(services.Character, services.Image, logger)
	sessionHandler := handlers.NewSessionHandler(services.Builder, logger)
	savedTeamHandler := handlers.NewSavedTeamHandler(services.SavedTeam, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Builder, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Roster reads
		r.Get("/characters", rosterHandler.GetAll)
		r.Get("/characters/{id}", rosterHandler.Get)
		r.Get("/bonds", rosterHandler.GetBonds)
		r.Get("/bond-links", rosterHandler.GetBondLinks)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/characters", adminHandler.CreateCharacter)
			r.Put("/characters/{id}", adminHandler.UpdateCharacter)
			r.Get("/characters/{id}/bonds", adminHandler.GetBonds)
			r.Put("/characters/{id}/bonds", adminHandler.SetBonds)
			r.Get("/characters/{id}/skills", adminHandler.GetSkills)
			r.Get("/characters/{id}/stats-bonds", adminHandler.GetStatsBonds)
			r.Get("/images", adminHandler.ListImages)
			r.Post("/roster/reload", rosterHandler.Reload)
		})

		// Builder sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/{id}", sessionHandler.Get)
			r.Delete("/{id}", sessionHandler.Delete)
			r.Post("/{id}/commands", sessionHandler.Command)
		})

		// Saved teams, scoped to the caller's device
		r.Group(func(r chi.Router) {
			r.Use(middleware.Device(logger))

			r.Route("/saved-teams", func(r chi.Router) {
				r.Get("/", savedTeamHandler.List)
				r.Post("/", savedTeamHandler.Save)
				r.Post("/import", savedTeamHandler.Import)
				r.Delete("/{index}", savedTeamHandler.Delete)
				r.Post("/{index}/load", savedTeamHandler.Load)
				r.Get("/{index}/export", savedTeamHandler.Export)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
