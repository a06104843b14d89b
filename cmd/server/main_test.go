package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	var called bool
	handler := corsMiddleware("https://tabout.app", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("preflight", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/tabout.v1.SplitService/CreateSplit", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if called {
			t.Error("preflight should not reach the handler")
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://tabout.app" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("request", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tabout.v1.SplitService/CreateSplit", nil))
		if !called {
			t.Error("request should reach the handler")
		}
	})
}
