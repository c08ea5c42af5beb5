// Package service holds the application's business rules. Services validate
// inputs, assign timestamps, persist through repositories, keep the cache
// coherent and publish domain events.
package service

import "time"

// Listing defaults and bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SuccessResult is returned by delete-style operations.
type SuccessResult struct {
	Success bool `json:"success"`
}

// now returns the timestamp stamped on new and updated rows. Truncation to
// microseconds matches PostgreSQL timestamp precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// pageParams resolves optional limit/offset to their defaults.
func pageParams(limit, offset *int) (int, int) {
	l, o := DefaultListLimit, 0
	if limit != nil {
		l = *limit
	}
	if offset != nil {
		o = *offset
	}
	return l, o
}
