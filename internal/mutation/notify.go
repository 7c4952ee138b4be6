// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mutation

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"catalogadmin/internal/api"
	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/models"
)

// Level is the severity of a user-facing notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single toast shown to the admin user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers notices to the presentation layer.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder collects notices, e.g. to return them in a JSON response.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// LogNotifier writes notices to a logger. Used when nobody is listening.
func LogNotifier(log zerolog.Logger) Notifier {
	return NotifierFunc(func(n Notice) {
		ev := log.Info()
		switch n.Level {
		case LevelWarning:
			ev = log.Warn()
		case LevelError:
			ev = log.Error()
		}
		ev.Str("level_tag", string(n.Level)).Msg(n.Message)
	})
}

// UserMessage converts a mutation failure into the single message shown
// to the user.
func UserMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, hierarchy.ErrInvalidSelection) {
		return "The selected category is no longer available. Please choose again."
	}
	if errors.Is(err, ErrBusy) {
		return "Please wait for the previous request to finish."
	}
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.UserMessage()
	}
	return "Something went wrong. Please try again."
}
