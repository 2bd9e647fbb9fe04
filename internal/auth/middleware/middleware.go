package middleware

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/brizzai/auto-linkedin/internal/auth/constants"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/utils"
	"go.uber.org/zap"
)

// AuthContext is the key type for the context
type authContextKey string

const (
	// AuthContextKey is used to store auth info in the request context
	AuthContextKey authContextKey = "auth"
)

// AuthInfo carries the LinkedIn access token presented by the MCP client.
type AuthInfo struct {
	Token string
}

// WithAuthInfo returns a copy of ctx carrying info.
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, AuthContextKey, info)
}

// FromContext returns the auth info stored by the middleware, if any.
func FromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(AuthContextKey).(*AuthInfo)
	return info, ok && info != nil && info.Token != ""
}

// Authenticate rejects requests without a bearer token. The token is not
// checked here; LinkedIn rejects it on first use.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			logger.Debug("Rejected unauthenticated request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthInfo(r.Context(), &AuthInfo{Token: token})))
	})
}

// OptionalAuthenticate allows both authenticated and unauthenticated access
func OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthInfo(r.Context(), &AuthInfo{Token: token})))
	})
}

// CORS middleware for MCP. An empty allow-list or "*" allows any origin.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowOrigins) == 0 || slices.Contains(allowOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			case origin != "":
				writeError(w, http.StatusForbidden, "origin_not_allowed", "Origin not allowed")
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", constants.CORSAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", constants.CORSAllowHeaders)
			w.Header().Set("Access-Control-Expose-Headers", constants.CORSExposeHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the Bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get(constants.AuthHeaderName)
	if strings.HasPrefix(authHeader, constants.AuthHeaderPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, constants.AuthHeaderPrefix))
	}
	return r.URL.Query().Get(constants.TokenQueryParam)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`%s realm=%q, error=%q, error_description=%q`, constants.TokenType, constants.Realm, code, message))
	}
	utils.WriteError(w, code, message, status)
}
