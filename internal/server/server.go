package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"tunebridge/internal/config"
	"tunebridge/internal/jellyfin"
	"tunebridge/internal/logging"
	"tunebridge/internal/provider"
)

// Server wires the HTTP API to the matching engine.
type Server struct {
	cfg     *config.Config
	library jellyfin.Client
	cache   *provider.Cache
	logger  *slog.Logger
}

// New constructs a server. The library client may be nil when no Jellyfin
// server is configured; affected endpoints then report an error.
func New(cfg *config.Config, library jellyfin.Client, cache *provider.Cache, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		library: library,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "server"),
	}
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/match/candidates", s.handleCandidates)
	mux.HandleFunc("POST /api/v1/match/accept", s.handleAccept)
	mux.HandleFunc("GET /api/v1/verified", s.handleVerifiedList)
	mux.HandleFunc("DELETE /api/v1/verified", s.handleVerifiedRemove)
	mux.HandleFunc("GET /api/v1/overrides", s.handleOverridesList)
	mux.HandleFunc("DELETE /api/v1/overrides", s.handleOverridesRemove)
	return s.withRecovery(s.withCorrelation(mux))
}

// withRecovery converts panics into a logged 500 so one bad request cannot
// take the daemon down.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic serving request",
					logging.String("url", r.URL.String()),
					logging.Any("panic", err),
					logging.String("stack", string(debug.Stack())))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		w.Header().Set("X-Correlation-Id", correlationID)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
