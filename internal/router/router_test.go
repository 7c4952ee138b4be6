// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/api"
	"catalogadmin/internal/api/apitest"
	"catalogadmin/internal/catalog"
	"catalogadmin/internal/handlers"
	"catalogadmin/internal/middleware"
	"catalogadmin/internal/models"
	"catalogadmin/internal/session"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	srv := apitest.New(t)
	srv.Seed("tags", models.Tag{Name: "new"})

	client := api.New(srv.URL, 5*time.Second, zerolog.Nop())
	svc := catalog.New(catalog.Config{API: api.NewCatalog(client), Log: zerolog.Nop()})
	store := session.NewStore(session.NewMemoryBackend(), false)

	return New(Options{
		Log:      zerolog.Nop(),
		Sessions: store,
		Limiter:  limiter,
	}, handlers.NewAdmin(svc, store, 10))
}

// bootstrap performs the first GET of a browser and returns the cookies it
// must send back plus the CSRF token.
func bootstrap(t *testing.T, h http.Handler) ([]*http.Cookie, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var token string
	cookies := w.Result().Cookies()
	for _, c := range cookies {
		if c.Name == middleware.CSRFCookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	return cookies, token
}

func post(h http.Handler, path string, cookies []*http.Cookie, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	if token != "" {
		r.Header.Set(middleware.CSRFHeaderName, token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRouter_HealthSkipsSession(t *testing.T) {
	h := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_AdminRequiresCSRFToken(t *testing.T) {
	h := newTestRouter(t, nil)
	cookies, token := bootstrap(t, h)

	assert.Equal(t, http.StatusForbidden, post(h, "/admin/api/tags/refresh", cookies, "").Code)
	assert.Equal(t, http.StatusOK, post(h, "/admin/api/tags/refresh", cookies, token).Code)
}

func TestRouter_ThrottlesMutations(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	h := newTestRouter(t, limiter)
	cookies, token := bootstrap(t, h)

	assert.Equal(t, http.StatusOK, post(h, "/admin/api/cache/clear", cookies, token).Code)
	w := post(h, "/admin/api/cache/clear", cookies, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/widgets", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
