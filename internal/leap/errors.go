package leap

import "errors"

var (
	// ErrRange is returned for instants outside the coverage of a table.
	ErrRange = errors.New("instant outside leap second table coverage")

	// ErrTableUnusable is returned when a table fails validation.
	ErrTableUnusable = errors.New("leap second table unusable")
)
