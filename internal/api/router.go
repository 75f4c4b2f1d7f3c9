package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/roulettegame/internal/api/handler"
	"github.com/mcoot/roulettegame/internal/api/middleware"
	"github.com/mcoot/roulettegame/internal/display"
	"github.com/mcoot/roulettegame/internal/services/auth"
	"github.com/mcoot/roulettegame/internal/services/participant"
	"github.com/mcoot/roulettegame/internal/services/queue"
	"github.com/mcoot/roulettegame/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	SessionController  *session.Controller
	QueueService       *queue.Service
	ParticipantService *participant.Service
	DisplayHub         *display.Hub
	Broadcaster        *display.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.Broadcaster, cfg.Logger)
	queueHandler := handler.NewQueueHandler(cfg.QueueService, cfg.Broadcaster, cfg.Logger)
	participantHandler := handler.NewParticipantHandler(cfg.ParticipantService, cfg.SessionController, cfg.Broadcaster, cfg.Logger)
	displayHandler := handler.NewDisplayHandler(cfg.DisplayHub)

	// Create middleware
	requireAdmin := middleware.RequireAdmin(cfg.AuthService)
	optionalAdmin := middleware.OptionalAdmin(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/sessions/active", sessionHandler.PublicActive).Methods(http.MethodGet)
	api.HandleFunc("/sessions/events", displayHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/participants/register", participantHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/participants/update-status", participantHandler.PublicUpdateStatus).Methods(http.MethodPost)

	// Queue reads are open to the TV display; registered ahead of the admin
	// subrouter so its auth does not apply
	api.Handle("/admin/sessions/queue", optionalAdmin(http.HandlerFunc(queueHandler.Get))).Methods(http.MethodGet)

	// Admin routes (all require auth)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireAdmin)
	admin.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)

	admin.HandleFunc("/sessions/active", sessionHandler.Active).Methods(http.MethodGet)
	admin.HandleFunc("/sessions/list", sessionHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/sessions/create", sessionHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/sessions/close", sessionHandler.Close).Methods(http.MethodPost)
	admin.HandleFunc("/sessions/update-status", sessionHandler.UpdateStatus).Methods(http.MethodPost)
	admin.HandleFunc("/sessions/queue", queueHandler.Save).Methods(http.MethodPost)
	admin.HandleFunc("/sessions/update-participant-status", participantHandler.AdminUpdateStatus).Methods(http.MethodPost)

	// Must come after the literal session routes
	admin.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods(http.MethodGet)

	admin.HandleFunc("/participants", participantHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/participants/export", participantHandler.Export).Methods(http.MethodGet)

	return r
}
