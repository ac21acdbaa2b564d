package relax

import "errors"

var (
	// ErrNilSource is returned when an Engine is built without a catalog.
	ErrNilSource = errors.New("catalog source required")
)
