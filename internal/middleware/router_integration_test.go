package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// TestRouterIntegration_MiddlewareChain はミドルウェアチェーンがchi.Routerで正しく動作することを検証する。
func TestRouterIntegration_MiddlewareChain(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate: 100, GeneralBurst: 100,
		WriteRate: 1, WriteBurst: 1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	var logs bytes.Buffer
	collector := &mockCollector{}

	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(collector))
	r.Use(NewLoggingMiddleware(slog.New(slog.NewJSONHandler(&logs, nil))))
	r.Use(NewRecoveryMiddleware())
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(NewCORSMiddleware("http://localhost:3000"))

	r.Route("/api", func(r chi.Router) {
		r.Use(rl.GeneralMiddleware())
		r.Use(rl.WriteMiddleware())
		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "[]")
		})
		r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("unexpected")
		})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be applied")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("CORS headers should be applied")
	}

	for i, want := range []int{http.StatusCreated, http.StatusTooManyRequests} {
		resp, err := http.Post(srv.URL+"/api/users", "application/json", nil)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("POST %d status = %d, want %d", i, resp.StatusCode, want)
		}
	}

	resp, err = http.Get(srv.URL + "/api/panic")
	if err != nil {
		t.Fatalf("GET panic failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("panic status = %d, want 500", resp.StatusCode)
	}

	if len(collector.statuses) != 4 {
		t.Errorf("recorded statuses = %v, want 4 entries", collector.statuses)
	}
	if logs.Len() == 0 {
		t.Error("request logs should be written")
	}
}
