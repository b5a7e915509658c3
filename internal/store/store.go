package store

import "errors"

// ErrNotFound is returned when a row does not exist or belongs to a
// different org.
var ErrNotFound = errors.New("not found")
