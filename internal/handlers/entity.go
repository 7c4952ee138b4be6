package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"catalogadmin/internal/cache"
	"catalogadmin/internal/catalog"
	"catalogadmin/internal/listview"
	"catalogadmin/internal/models"
	"catalogadmin/internal/mutation"
)

// entityRoutes serves the list screen and the mutations of one entity kind.
type entityRoutes[T models.Keyed, P mutation.Payload[T]] struct {
	admin  *Admin
	screen string
	entity *catalog.Entity[T, P]
	// taxonomy marks the category hierarchy, whose writes can invalidate
	// the session's cascade selection.
	taxonomy bool
}

// mountEntity registers the list, refresh, create, update, and delete
// routes of e on r. create replaces the plain JSON create handler when set.
func mountEntity[T models.Keyed, P mutation.Payload[T]](r chi.Router, a *Admin, screen string, e *catalog.Entity[T, P], taxonomy bool, create http.HandlerFunc) {
	h := &entityRoutes[T, P]{admin: a, screen: screen, entity: e, taxonomy: taxonomy}
	if create == nil {
		create = h.create
	}

	r.Get("/", h.list)
	r.Post("/refresh", h.refresh)
	r.Post("/", create)
	r.Put("/{key}", h.update)
	r.Delete("/{key}", h.remove)
}

// listResponse is one page of a list screen plus the cache state behind it,
// so the screen can show a spinner or an error banner.
type listResponse[T any] struct {
	listview.Page[T]
	Status cache.Status `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// list answers the current page of the screen. The saved view state of the
// session is applied first, then the q, page, and per_page query
// parameters; the result is saved back.
func (h *entityRoutes[T, P]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.entity.Sync.Init(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("entity", h.entity.Name).Msg("initial load failed")
	}

	sess := h.admin.session(r)
	view := listview.New(h.entity.Search, h.admin.perPage)
	view.SetItems(h.entity.Items())
	view.Restore(sess.View(h.screen, h.admin.perPage))

	if err := applyQuery(view, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.SetView(h.screen, view.State())
	h.admin.saveSession(r, sess)

	writeJSON(w, http.StatusOK, h.page(view))
}

// refresh re-reads the collection from the remote API.
func (h *entityRoutes[T, P]) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.entity.Sync.Refresh(ctx)
	if err != nil && !errors.Is(err, cache.ErrStaleResult) {
		writeError(w, statusFor(err), mutation.UserMessage(err))
		return
	}
	sess := h.admin.session(r)
	if h.taxonomy {
		h.admin.reconcile(r, sess)
	}

	view := listview.New(h.entity.Search, h.admin.perPage)
	view.SetItems(h.entity.Items())
	view.Restore(sess.View(h.screen, h.admin.perPage))
	writeJSON(w, http.StatusOK, h.page(view))
}

func (h *entityRoutes[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var payload P
	if !decodeJSON(w, r, &payload) {
		return
	}
	h.admin.mutate(w, r, h.screen+"/create", true, h.taxonomy, func(dlg *mutation.Dialog, n mutation.Notifier) error {
		return h.entity.Ops.WithNotifier(n).Create(r.Context(), dlg, payload)
	})
}

func (h *entityRoutes[T, P]) update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var payload P
	if !decodeJSON(w, r, &payload) {
		return
	}
	h.admin.mutate(w, r, h.screen+"/update/"+key, false, h.taxonomy, func(dlg *mutation.Dialog, n mutation.Notifier) error {
		return h.entity.Ops.WithNotifier(n).Update(r.Context(), dlg, key, payload)
	})
}

func (h *entityRoutes[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	h.admin.mutate(w, r, h.screen+"/delete/"+key, false, h.taxonomy, func(dlg *mutation.Dialog, n mutation.Notifier) error {
		return h.entity.Ops.WithNotifier(n).Delete(r.Context(), dlg, key)
	})
}

func (h *entityRoutes[T, P]) page(view *listview.View[T]) listResponse[T] {
	c := h.entity.Sync.Cache()
	resp := listResponse[T]{Page: view.Page(), Status: c.Status()}
	if err := c.Err(); err != nil {
		resp.Error = mutation.UserMessage(err)
	}
	return resp
}

// applyQuery applies list query parameters on top of the restored state.
// Unchanged values leave the page alone, so reloading a screen with the
// same search keeps its position.
func applyQuery[T any](v *listview.View[T], q url.Values) error {
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPerPage {
			return &models.ValidationError{Field: "per_page", Reason: "must be between 1 and " + strconv.Itoa(maxPerPage)}
		}
		if n != v.ItemsPerPage() {
			v.SetItemsPerPage(n)
		}
	}
	if q.Has("q") {
		if term := q.Get("q"); term != v.SearchTerm() {
			v.SetSearchTerm(term)
		}
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &models.ValidationError{Field: "page", Reason: "must be a number"}
		}
		v.SetPage(n)
	}
	return nil
}
