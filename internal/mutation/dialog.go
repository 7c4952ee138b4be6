// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mutation

import (
	"errors"
	"sync"
)

// DialogState is the lifecycle of a create/edit modal or delete confirmation.
type DialogState string

const (
	DialogClosed     DialogState = "closed"
	DialogOpen       DialogState = "open"
	DialogSubmitting DialogState = "submitting"
	DialogFailed     DialogState = "failed"
)

// ErrBusy is returned when a dialog is submitted while a previous
// submission is still in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Dialog tracks one modal. It only closes after a confirmed success; a
// failure keeps it open in DialogFailed with the message to show.
type Dialog struct {
	mu    sync.Mutex
	state DialogState
	err   string
}

// NewDialog returns an open dialog, as after the user clicked create,
// edit, or delete.
func NewDialog() *Dialog {
	return &Dialog{state: DialogOpen}
}

// State returns the current state and, when failed, the error message.
func (d *Dialog) State() (DialogState, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.err
}

// Open (re)opens the dialog and clears any previous failure.
func (d *Dialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogOpen
	d.err = ""
}

// Dismiss closes the dialog without submitting.
func (d *Dialog) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogSubmitting {
		d.state = DialogClosed
		d.err = ""
	}
}

func (d *Dialog) submit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DialogSubmitting {
		return ErrBusy
	}
	d.state = DialogSubmitting
	d.err = ""
	return nil
}

func (d *Dialog) succeed() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogClosed
	d.err = ""
}

func (d *Dialog) fail(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogFailed
	d.err = msg
}
