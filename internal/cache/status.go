// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import "fmt"

// Status is the load state of an EntityCache.
//
//	None -> Loading -> {Success, Error}
//	Success/Error -> Loading on the next fetch
type Status int

const (
	StatusNone Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

var statusNames = [...]string{"NONE", "LOADING", "SUCCESS", "ERROR"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText renders the status as its upper-case name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
