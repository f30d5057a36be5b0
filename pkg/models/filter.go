package models

import (
	"errors"
	"fmt"
	"strings"
)

// Filter selects which tasks are visible in the derived view.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ErrInvalidFilter is returned by ParseFilter for unknown filter names.
var ErrInvalidFilter = errors.New("invalid filter")

// Filters lists the filters in tab order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter converts a user-supplied name into a Filter. Matching is
// case-insensitive and the empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of all, active, completed", ErrInvalidFilter, s)
	}
}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether the task belongs in a view under this filter.
// Unknown filters behave like FilterAll.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Label returns the tab caption for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}
