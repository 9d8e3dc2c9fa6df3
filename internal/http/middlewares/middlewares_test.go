package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/guardia/internal/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestWithRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}), WithRequestID())

	// Sin header: se genera uno.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), seen)

	// Con header del cliente: se propaga tal cual.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "rid-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "rid-123", seen)
}

func TestWithRecover_Returns500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), WithRecover())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestWithRateLimit_NilLimiterDisables(t *testing.T) {
	h := Chain(okHandler(), WithRateLimit(nil))
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWithRateLimit_BlocksOverLimit(t *testing.T) {
	h := Chain(okHandler(), WithRateLimit(rate.NewMemoryLimiter(2, time.Hour)))

	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		return r
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req())
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")

	// Otra IP no comparte la ventana.
	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithRateLimit_XForwardedForWins(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.1", clientIP(r))
}
