// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON handlers of the catalog admin API.
// Handlers are grouped on the Admin struct and receive their dependencies
// through it.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"catalogadmin/internal/api"
	"catalogadmin/internal/catalog"
	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/models"
	"catalogadmin/internal/mutation"
	"catalogadmin/internal/session"
)

const (
	// maxBodySize caps JSON request bodies.
	maxBodySize = 1 << 20

	// maxPerPage is the largest page size a list request may ask for.
	maxPerPage = 100

	defaultOrphanLimit = 50
)

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	catalog  *catalog.Service
	sessions *session.Store
	perPage  int
	dialogs  *dialogs
}

// NewAdmin creates the admin handler group. perPage is the list page size
// used until a screen picks its own. sessions may be nil, in which case
// view state is not remembered between requests.
func NewAdmin(svc *catalog.Service, sessions *session.Store, perPage int) *Admin {
	return &Admin{
		catalog:  svc,
		sessions: sessions,
		perPage:  perPage,
		dialogs:  newDialogs(),
	}
}

// Routes registers the admin API on r.
func (a *Admin) Routes(r chi.Router) {
	r.Get("/status", a.Status)
	r.Post("/cache/clear", a.ClearCaches)
	r.Get("/orphans", a.Orphans)
	r.Delete("/session", a.ResetSession)

	r.Get("/selection", a.Selection)
	r.Put("/selection", a.Select)
	r.Get("/hierarchy/dangling", a.Dangling)

	r.Route("/categories", func(r chi.Router) {
		mountEntity(r, a, "categories", a.catalog.Categories, true, nil)
	})
	r.Route("/subcategories", func(r chi.Router) {
		mountEntity(r, a, "subcategories", a.catalog.Subcategories, true, nil)
	})
	r.Route("/item-categories", func(r chi.Router) {
		mountEntity(r, a, "item-categories", a.catalog.ItemCategories, true, nil)
	})
	r.Route("/products", func(r chi.Router) {
		mountEntity(r, a, "products", a.catalog.Products, false, a.CreateProduct)
	})
	r.Route("/tags", func(r chi.Router) {
		mountEntity(r, a, "tags", a.catalog.Tags, false, nil)
	})
}

// Status reports the load state of every cache.
func (a *Admin) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Status())
}

// ClearCaches empties every cache. The next list request reloads it.
func (a *Admin) ClearCaches(w http.ResponseWriter, r *http.Request) {
	a.catalog.Clear()
	writeJSON(w, http.StatusOK, a.catalog.Status())
}

// ResetSession forgets the browser's saved list screens and cascade
// selection. The next request starts a fresh session.
func (a *Admin) ResetSession(w http.ResponseWriter, r *http.Request) {
	if a.sessions != nil {
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("session reset failed")
			writeError(w, http.StatusInternalServerError, "Could not reset the session.")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orphans lists uploads whose cleanup failed after an aborted product
// creation, newest first.
func (a *Admin) Orphans(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrphanLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	entries, err := a.catalog.Orphans(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list orphans failed")
		writeError(w, http.StatusInternalServerError, "Failed to read the upload journal.")
		return
	}
	if entries == nil {
		entries = []mutation.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// mutationResponse is the answer to every create, update, and delete.
type mutationResponse struct {
	Dialog  mutation.DialogState `json:"dialog"`
	Error   string               `json:"error,omitempty"`
	Notices []mutation.Notice    `json:"notices"`
}

// mutate runs one mutation against the dialog identified by dialogKey in
// the caller's session and answers with the resulting dialog state and
// notices. After a successful write to the category hierarchy the
// session's cascade selection is reconciled.
func (a *Admin) mutate(w http.ResponseWriter, r *http.Request, dialogKey string, created, taxonomy bool, fn func(dlg *mutation.Dialog, n mutation.Notifier) error) {
	sess := a.session(r)
	dlg, release := a.dialogs.acquire(sess.ID, dialogKey)
	defer release()

	rec := &mutation.Recorder{}
	err := fn(dlg, rec)

	state, msg := dlg.State()
	resp := mutationResponse{Dialog: state, Error: msg, Notices: rec.Notices()}
	if resp.Notices == nil {
		resp.Notices = []mutation.Notice{}
	}
	if err != nil {
		writeJSON(w, statusFor(err), resp)
		return
	}

	if taxonomy {
		a.reconcile(r, sess)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// session returns the request's session, or a throwaway one when the
// session middleware did not run.
func (a *Admin) session(r *http.Request) *session.Data {
	if d := session.FromContext(r.Context()); d != nil {
		return d
	}
	return &session.Data{}
}

// saveSession persists d. Throwaway sessions are never written.
func (a *Admin) saveSession(r *http.Request, d *session.Data) {
	if a.sessions == nil || d.ID == "" {
		return
	}
	if err := a.sessions.Save(r.Context(), d); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("session save failed")
	}
}

// statusFor maps a failure to the HTTP status of the response.
func statusFor(err error) int {
	var ae *api.Error
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, hierarchy.ErrInvalidSelection), errors.Is(err, mutation.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &ae):
		switch ae.Status {
		case http.StatusNotFound, http.StatusConflict:
			return ae.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
