package filter

import "errors"

var (
	// ErrInvalidFilterValue is returned when a value's type does not fit its
	// attribute, e.g. a string for accessibility.
	ErrInvalidFilterValue = errors.New("invalid filter value")
)
