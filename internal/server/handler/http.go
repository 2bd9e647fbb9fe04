// Package handler provides HTTP request handling for the MCP server.
package handler

import (
	"net/http"

	"github.com/brizzai/auto-linkedin/internal/auth/middleware"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/utils"
)

// HealthPath answers liveness probes without authentication.
const HealthPath = "/healthz"

// Handler manages HTTP request handling and middleware configuration.
type Handler struct {
	requireAuth  bool
	allowOrigins []string
}

// NewHandler creates a new HTTP handler.
func NewHandler(requireAuth bool, allowOrigins []string) *Handler {
	return &Handler{
		requireAuth:  requireAuth,
		allowOrigins: allowOrigins,
	}
}

// CreateHTTPHandler wraps the MCP transport with bearer extraction and CORS.
// When auth is required, requests without a bearer token are rejected before
// they reach the MCP transport.
func (h *Handler) CreateHTTPHandler(mcpHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, map[string]string{"status": "ok"})
	})

	if h.requireAuth {
		mux.Handle("/", middleware.Authenticate(mcpHandler))
		logger.Info("Enabled authentication for all routes")
	} else {
		mux.Handle("/", middleware.OptionalAuthenticate(mcpHandler))
		logger.Info("Running without required authentication")
	}
	return middleware.CORS(h.allowOrigins)(mux)
}
