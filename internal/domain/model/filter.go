package model

import "strings"

// Filter restricts the candidate set of a recommendation request.
type Filter struct {
	// Paid selects paid (true) or free (false) courses; nil keeps both.
	Paid *bool
	// Platform matches the course provider case-insensitively; empty keeps all.
	Platform string
}

// IsZero reports whether the filter keeps every course.
func (f Filter) IsZero() bool {
	return f.Paid == nil && strings.TrimSpace(f.Platform) == ""
}

// Match reports whether c passes the filter.
func (f Filter) Match(c Course) bool {
	if f.Paid != nil && c.IsPaid != *f.Paid {
		return false
	}
	if p := strings.TrimSpace(f.Platform); p != "" && !strings.EqualFold(c.Provider, p) {
		return false
	}
	return true
}
