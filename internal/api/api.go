package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mspro/rentalbooks/backend/internal/auth"
)

// UserIDHeader carries the authenticated user ID from the middleware to
// the handler.
const UserIDHeader = "X-User-ID"

// JSONResponse writes a JSON payload with the given status code
func JSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// JSONError writes an error message in the standard shape
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, map[string]string{"error": msg})
}

// AuthMiddleware validates the Bearer token and stamps the user ID onto
// the request before calling the next handler
func AuthMiddleware(m *auth.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			JSONError(w, http.StatusUnauthorized, "missing token")
			return
		}
		userID, err := m.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			JSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		r.Header.Set(UserIDHeader, userID)
		next(w, r)
	}
}

// CORSMiddleware adds permissive CORS headers and answers preflights
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
