package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid is returned when a write carries values the store refuses.
var ErrInvalid = errors.New("invalid input")
