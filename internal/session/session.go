// Package session keeps per-browser admin state: the search/page settings of
// every list screen and the cascade selection of the product form. Sessions
// are identified by a cookie and stored as JSON in Valkey (or in memory when
// Valkey is not configured) with automatic TTL expiry.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/listview"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ca_session"

	// DefaultTTL is how long an idle session lives before expiry.
	DefaultTTL = 12 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data is the session payload.
type Data struct {
	ID        string                    `json:"-"`
	Views     map[string]listview.State `json:"views,omitempty"`
	Selection hierarchy.Selection       `json:"selection"`
	CreatedAt time.Time                 `json:"created_at"`
}

// View returns the saved list state for a screen, or the defaults.
func (d *Data) View(screen string, itemsPerPage int) listview.State {
	if st, ok := d.Views[screen]; ok {
		return st
	}
	return listview.State{Page: 1, ItemsPerPage: itemsPerPage}
}

// SetView records the list state of a screen.
func (d *Data) SetView(screen string, st listview.State) {
	if d.Views == nil {
		d.Views = make(map[string]listview.State)
	}
	d.Views[screen] = st
}

// Backend persists raw session payloads under an ID.
type Backend interface {
	Load(ctx context.Context, id string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Store manages the session lifecycle.
type Store struct {
	backend Backend
	ttl     time.Duration
	secure  bool
}

// NewStore creates a session store. secure marks the cookie Secure and
// should be set behind TLS.
func NewStore(backend Backend, secure bool) *Store {
	return &Store{backend: backend, ttl: DefaultTTL, secure: secure}
}

// Load returns the session named by the request cookie, or starts a new one
// and sets its cookie when there is none or it expired.
func (s *Store) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Data, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		payload, ok, err := s.backend.Load(ctx, keyPrefix+cookie.Value)
		if err != nil {
			return nil, fmt.Errorf("session get: %w", err)
		}
		if ok {
			var data Data
			if err := json.Unmarshal(payload, &data); err != nil {
				return nil, fmt.Errorf("session unmarshal: %w", err)
			}
			data.ID = cookie.Value
			return &data, nil
		}
	}

	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	data := &Data{ID: id, CreatedAt: time.Now()}
	if err := s.Save(ctx, data); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return data, nil
}

// Save writes the session back and resets its TTL.
func (s *Store) Save(ctx context.Context, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.backend.Save(ctx, keyPrefix+data.ID, payload, s.ttl); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	if err := s.backend.Delete(ctx, keyPrefix+cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

type ctxKey struct{}

// NewContext returns ctx carrying the session.
func NewContext(ctx context.Context, d *Data) context.Context {
	return context.WithValue(ctx, ctxKey{}, d)
}

// FromContext returns the session loaded by the middleware, or nil.
func FromContext(ctx context.Context) *Data {
	d, _ := ctx.Value(ctxKey{}).(*Data)
	return d
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
