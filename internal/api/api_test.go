package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mspro/rentalbooks/backend/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)
	token, err := m.GenerateToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	var gotUser string
	handler := AuthMiddleware(m, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get(UserIDHeader)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/filter_data", nil)
		if tc.authHeader != "" {
			req.Header.Set("Authorization", tc.authHeader)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
	}
	if gotUser != "alice" {
		t.Errorf("user header = %q, want alice", gotUser)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight reached the wrapped handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS headers on preflight")
	}
}
