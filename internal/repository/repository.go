package repository

import "errors"

// ErrNotFound is returned when a query matches no rows.
// Handlers check it with errors.Is to map to 404.
var ErrNotFound = errors.New("not found")
