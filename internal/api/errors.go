// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed call to the remote API: either a transport failure
// (Status 0) or a non-2xx response.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("api %s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("api %s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api %s: status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("api %s: status %d", e.Op, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown in the admin notification for this failure.
func (e *Error) UserMessage() string {
	switch {
	case e.Status == 0:
		return "The catalog service could not be reached. Please try again."
	case e.Status == http.StatusNotFound:
		return "The item no longer exists."
	case e.Status == http.StatusConflict:
		return "An item with that name already exists."
	case e.Status >= 500:
		return "The catalog service failed to process the request."
	case e.Message != "":
		return e.Message
	default:
		return "The request was rejected by the catalog service."
	}
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the HTTP status of an API error, or 0 if err is not one
// or the request never got a response.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
