package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	ProjectKey contextKey = "project"
	APIKeyKey  contextKey = "api_key"
)

// ProjectKeyAuth validates the project key from the Authorization header.
// keys maps project name -> key. With no keys configured every request passes.
func ProjectKeyAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			project, ok := lookupProject(keys, apiKey)
			if !ok {
				http.Error(w, "invalid project key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ProjectKey, project)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// constant-time comparison against every key
func lookupProject(keys map[string]string, apiKey string) (string, bool) {
	project, found := "", false
	for p, key := range keys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
			project, found = p, true
		}
	}
	return project, found
}

// GetProjectFromContext extracts the authenticated project from context
func GetProjectFromContext(ctx context.Context) string {
	if project, ok := ctx.Value(ProjectKey).(string); ok {
		return project
	}
	return ""
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/ready", "/live", "/metrics":
		return true
	}
	return false
}
