package model

import "errors"

// ErrNotFound means the identifier resolves to no profile. It is the only
// failure that aborts an aggregation.
var ErrNotFound = errors.New("not found")

// EventsPage selects one page of events.
type EventsPage struct {
	Page    int
	PerPage int
}
