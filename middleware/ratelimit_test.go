// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestLoginLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewLoginLimiter(rate.Limit(1), 3)
	handler := limiter.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Request %d within burst rejected with %d", i+1, w.Code)
		}
	}
}

func TestLoginLimiterRejectsOverBurst(t *testing.T) {
	limiter := NewLoginLimiter(rate.Limit(0.001), 1)
	handler := limiter.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("First request rejected with %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 over the limit, got %d", w.Code)
	}
}

func TestLoginLimiterIsolatesClients(t *testing.T) {
	limiter := NewLoginLimiter(rate.Limit(0.001), 1)
	handler := limiter.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest("POST", "/login", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	handler(httptest.NewRecorder(), first)
	handler(httptest.NewRecorder(), first) // exhausts 10.0.0.3

	other := httptest.NewRequest("POST", "/login", nil)
	other.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()
	handler(w, other)

	if w.Code != http.StatusOK {
		t.Errorf("Unrelated client throttled: got %d", w.Code)
	}
}
