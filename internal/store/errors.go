package store

import (
	"errors"
)

// Store failures surfaced to handlers. Anything else bubbling out of a store
// method is a storage fault: fatal to the current request, never retried.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrReservedUsername   = errors.New("username is reserved")
	ErrEmptyContent       = errors.New("content must not be empty")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
