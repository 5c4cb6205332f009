package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avolosh/tankarena-go/internal/api/handler"
	"github.com/avolosh/tankarena-go/internal/api/middleware"
	"github.com/avolosh/tankarena-go/internal/api/sse"
	"github.com/avolosh/tankarena-go/internal/services/room"
	"github.com/avolosh/tankarena-go/internal/session"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Sessions       *session.Manager
	Records        storage.RecordStore
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.HubManager)
	gameHandler := handler.NewGameHandler(cfg.Sessions)
	historyHandler := handler.NewHistoryHandler(cfg.Records)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Room lifecycle routes
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/events", roomHandler.Events).Methods(http.MethodGet)

	// In-game command routes
	rooms.HandleFunc("/{id}/move", gameHandler.Move).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/shoot", gameHandler.Shoot).Methods(http.MethodPost)

	// Match history and statistics routes
	api.HandleFunc("/players/{id}/stats", historyHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/matches", historyHandler.ListMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", historyHandler.GetMatch).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
