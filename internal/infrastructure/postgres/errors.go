package postgres

import "errors"

// ErrNotFound is returned when a query matches no rows.
var ErrNotFound = errors.New("not found")
