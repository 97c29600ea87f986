package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	ta := newTestApp(t)
	h := ta.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
	assert.Equal(t, "Internal server error.", decode[messageBody](t, rec).Message)
}

func TestPanicCarriesRequestID(t *testing.T) {
	ta := newTestApp(t)
	h := ta.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	var logged bool
	for _, entry := range ta.hook.AllEntries() {
		if entry.Message == "internal error" {
			logged = true
			assert.Equal(t, "abc-123", entry.Data["request_id"])
		}
	}
	assert.True(t, logged)

	last := ta.hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "request", last.Message)
	assert.Equal(t, http.StatusInternalServerError, last.Data["status"])
}

func TestRateLimit(t *testing.T) {
	ta := newTestApp(t, func(cfg *config) {
		cfg.limiter.enabled = true
		cfg.limiter.rps = 1
		cfg.limiter.burst = 1
	})

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		ta.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:5678"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234"))
}

func TestCORSPreflight(t *testing.T) {
	ta := newTestApp(t, func(cfg *config) {
		cfg.cors.trustedOrigins = []string{"https://tasks.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/tasks/1", nil)
	req.Header.Set("Origin", "https://tasks.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://tasks.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req = httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = ta.do(t, http.MethodGet, "/healthcheck", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	entry := ta.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}
