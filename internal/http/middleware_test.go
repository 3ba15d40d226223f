package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithaytham/Webkaru/internal/ratelimit"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	request := httptest.NewRequest("GET", "/health", nil)
	request.Header.Set("X-Request-ID", "req-from-client")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-from-client", recorder.Header().Get("X-Request-ID"))
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(time.Minute, 2)
	handler := RateLimit(limiter, "Too many requests")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/checkout-session/cs_1", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/checkout-session/cs_1", nil))
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Too many requests")
}

func TestRateLimit_KeysByForwardedFor(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(time.Minute, 1)
	handler := RateLimit(limiter, "Too many requests")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest("GET", "/health", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1, 192.168.1.1")
	second := httptest.NewRequest("GET", "/health", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.2, 192.168.1.1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, first)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, second)
	assert.Equal(t, http.StatusOK, recorder.Code, "distinct client IPs get separate budgets")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("backend down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	handler := RateLimit(failingLimiter{}, "Too many requests")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
