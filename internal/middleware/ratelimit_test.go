package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogadmin/internal/session"
)

// fakeClock drives the limiter without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Second)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("session:a"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, wait := rl.allow("session:a")
	if ok {
		t.Error("4th request should be rate-limited")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("wait: got %v, want within (0, 1s]", wait)
	}

	if ok, _ := rl.allow("session:b"); !ok {
		t.Error("different session should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, 100*time.Millisecond)

	rl.allow("k")
	rl.allow("k")
	if ok, _ := rl.allow("k"); ok {
		t.Error("should be rate-limited")
	}

	clock.advance(150 * time.Millisecond)
	if ok, _ := rl.allow("k"); !ok {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMutations(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	handler := rl.Mutations(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method, sessionID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/admin/api/tags", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req = req.WithContext(session.NewContext(context.Background(), &session.Data{ID: sessionID}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do(http.MethodPost, "s1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	rr := do(http.MethodDelete, "s1")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}

	// Reads are never limited; other sessions have their own budget.
	if rr := do(http.MethodGet, "s1"); rr.Code != http.StatusOK {
		t.Errorf("GET: got status %d, want 200", rr.Code)
	}
	if rr := do(http.MethodPost, "s2"); rr.Code != http.StatusOK {
		t.Errorf("other session: got status %d, want 200", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{name: "x-forwarded-for single", xff: "10.0.0.1", remoteAddr: "192.168.1.1:1234", want: "10.0.0.1"},
		{name: "x-forwarded-for multiple", xff: "10.0.0.1, 172.16.0.1", remoteAddr: "192.168.1.1:1234", want: "10.0.0.1"},
		{name: "x-real-ip", xri: "10.0.0.2", remoteAddr: "192.168.1.1:1234", want: "10.0.0.2"},
		{name: "remote addr only", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "remote addr no port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanupRetainsRecentEntries(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, 200*time.Millisecond)

	rl.allow("old")
	rl.allow("fresh")
	clock.advance(250 * time.Millisecond)
	rl.allow("fresh")

	rl.cleanup()

	rl.mu.RLock()
	_, oldExists := rl.clients["old"]
	_, freshExists := rl.clients["fresh"]
	rl.mu.RUnlock()

	if oldExists {
		t.Error("old should have been cleaned up")
	}
	if !freshExists {
		t.Error("fresh should still exist")
	}
}
