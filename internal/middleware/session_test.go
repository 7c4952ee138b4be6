package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogadmin/internal/session"
)

type brokenBackend struct{}

func (brokenBackend) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("valkey down")
}
func (brokenBackend) Save(context.Context, string, []byte, time.Duration) error {
	return errors.New("valkey down")
}
func (brokenBackend) Delete(context.Context, string) error { return nil }

func TestLoadSession(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), false)

	var seen []string
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if s == nil {
			t.Fatal("no session in context")
		}
		seen = append(seen, s.ID)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 2 || seen[0] == "" || seen[0] != seen[1] {
		t.Errorf("expected the same session twice, got %v", seen)
	}
}

func TestLoadSessionStoreDown(t *testing.T) {
	store := session.NewStore(brokenBackend{}, false)

	called := false
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if s == nil || s.ID != "" {
			t.Errorf("expected a temporary session, got %+v", s)
		}
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("request should continue without the session store")
	}
}

func TestLoadSessionNilStore(t *testing.T) {
	called := false
	handler := LoadSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if s == nil || s.ID != "" {
			t.Errorf("expected a temporary session, got %+v", s)
		}
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("handler not called")
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("no cookie expected without a store")
	}
}
