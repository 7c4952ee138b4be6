// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCSRFSetsCookie(t *testing.T) {
	for _, secure := range []bool{true, false} {
		handler := CSRF(secure)(okHandler())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/tags", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("GET: got %d, want 200", rr.Code)
		}
		var found *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == CSRFCookieName {
				found = c
			}
		}
		if found == nil {
			t.Fatal("expected a CSRF cookie")
		}
		if found.Secure != secure {
			t.Errorf("cookie Secure: got %v, want %v", found.Secure, secure)
		}
		if found.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie SameSite: got %v, want StrictMode", found.SameSite)
		}
		if len(found.Value) != csrfTokenLength*2 {
			t.Errorf("token length: got %d", len(found.Value))
		}
	}
}

func TestCSRFValidatesMutations(t *testing.T) {
	handler := CSRF(false)(okHandler())
	token := "a1b2c3"

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"matching header", http.MethodPost, token, http.StatusOK},
		{"missing header", http.MethodDelete, "", http.StatusForbidden},
		{"wrong header", http.MethodPut, "nope", http.StatusForbidden},
		{"safe method without header", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/admin/api/tags", nil)
			req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
