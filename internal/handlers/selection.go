package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/models"
	"catalogadmin/internal/session"
)

// selectionResponse is the cascade state of the product form.
type selectionResponse struct {
	Selection hierarchy.Selection `json:"selection"`
	Options   hierarchy.Options   `json:"options"`
	Complete  bool                `json:"complete"`
}

// selectRequest changes one level of the cascade. An empty value
// unselects it.
type selectRequest struct {
	Level string `json:"level" validate:"required,oneof=category subcategory itemCategory"`
	Value string `json:"value" validate:"max=120"`
}

// Selection answers the session's cascade selection with the options
// offered at each level. The hierarchy is re-read first so the product form
// never renders its selects from stale parents; on failure the last good
// data is used and the selection reconciled against it.
func (a *Admin) Selection(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.RefreshHierarchy(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("hierarchy refresh failed")
	}
	sess := a.session(r)
	c := a.reconcile(r, sess)
	writeJSON(w, http.StatusOK, cascadeView(c))
}

// Select changes one level of the cascade. Lower levels are cleared when
// a level changes. A value that is not among the offered options is
// rejected with 409 and the selection stays as it was.
func (a *Admin) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.loadHierarchy(r.Context())
	sess := a.session(r)
	c := a.reconcile(r, sess)

	var err error
	switch req.Level {
	case "category":
		err = c.SelectCategory(req.Value)
	case "subcategory":
		err = c.SelectSubcategory(req.Value)
	case "itemCategory":
		err = c.SelectItemCategory(req.Value)
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("selection rejected")
		writeJSON(w, statusFor(err), struct {
			Error string `json:"error"`
			selectionResponse
		}{Error: "The selected option is no longer available.", selectionResponse: cascadeView(c)})
		return
	}

	sess.Selection = c.Selection()
	a.saveSession(r, sess)
	writeJSON(w, http.StatusOK, cascadeView(c))
}

// reconcile re-validates the session's selection against the current
// caches, clearing levels that no longer resolve, and saves the session
// when anything changed.
func (a *Admin) reconcile(r *http.Request, sess *session.Data) *hierarchy.Cascade {
	c := hierarchy.NewCascade(a.catalog.Snapshot(), sess.Selection)
	if c.Selection() != sess.Selection {
		zerolog.Ctx(r.Context()).Debug().
			Interface("from", sess.Selection).
			Interface("to", c.Selection()).
			Msg("stale selection cleared")
		sess.Selection = c.Selection()
		a.saveSession(r, sess)
	}
	return c
}

// loadHierarchy makes sure the three taxonomy caches were fetched once.
// Failures are reported through the cache status.
func (a *Admin) loadHierarchy(ctx context.Context) {
	for _, load := range []func(context.Context) error{
		a.catalog.Categories.Sync.Init,
		a.catalog.Subcategories.Sync.Init,
		a.catalog.ItemCategories.Sync.Init,
	} {
		if err := load(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("hierarchy load failed")
		}
	}
}

// danglingResponse lists taxonomy entries whose parents no longer exist.
type danglingResponse struct {
	Subcategories  []models.Subcategory  `json:"subcategories"`
	ItemCategories []models.ItemCategory `json:"itemCategories"`
}

// Dangling reports subcategories and item-categories that reference a
// missing parent in the current caches.
func (a *Admin) Dangling(w http.ResponseWriter, r *http.Request) {
	a.loadHierarchy(r.Context())
	subs, items := a.catalog.Snapshot().Orphans()
	if subs == nil {
		subs = []models.Subcategory{}
	}
	if items == nil {
		items = []models.ItemCategory{}
	}
	writeJSON(w, http.StatusOK, danglingResponse{Subcategories: subs, ItemCategories: items})
}

func cascadeView(c *hierarchy.Cascade) selectionResponse {
	return selectionResponse{
		Selection: c.Selection(),
		Options:   c.Options(),
		Complete:  c.Selection().Complete(),
	}
}
