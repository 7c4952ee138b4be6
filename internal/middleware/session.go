// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"catalogadmin/internal/session"
)

// LoadSession loads the admin session (creating one on first visit) and
// stores it in the request context for session.FromContext. If the store
// is unreachable the request continues with a throwaway session, so list
// screens still work without remembered view state. A nil store gives
// every request a throwaway session.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				data := &session.Data{CreatedAt: time.Now()}
				next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), data)))
				return
			}
			data, err := store.Load(r.Context(), w, r)
			if err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("session unavailable, using a temporary one")
				data = &session.Data{CreatedAt: time.Now()}
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), data)))
		})
	}
}
