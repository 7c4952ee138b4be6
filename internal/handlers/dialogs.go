package handlers

import (
	"sync"

	"catalogadmin/internal/mutation"
)

// dialogs keeps the dialog of every mutation in flight, per session, so a
// second submit of the same form is refused with mutation.ErrBusy instead
// of reaching the remote API twice.
type dialogs struct {
	mu   sync.Mutex
	open map[string]*mutation.Dialog
}

func newDialogs() *dialogs {
	return &dialogs{open: make(map[string]*mutation.Dialog)}
}

// acquire returns the dialog for key in the session. The release func
// forgets the dialog once it is no longer submitting. Requests without a
// session get a private dialog.
func (d *dialogs) acquire(sessionID, key string) (*mutation.Dialog, func()) {
	if sessionID == "" {
		return mutation.NewDialog(), func() {}
	}
	id := sessionID + "|" + key

	d.mu.Lock()
	dlg, ok := d.open[id]
	if !ok {
		dlg = mutation.NewDialog()
		d.open[id] = dlg
	}
	d.mu.Unlock()

	return dlg, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if state, _ := dlg.State(); state != mutation.DialogSubmitting && d.open[id] == dlg {
			delete(d.open, id)
		}
	}
}

// len reports how many dialogs are tracked.
func (d *dialogs) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.open)
}
