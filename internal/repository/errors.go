package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrShortCodeConflict = errors.New("short code already taken")
	ErrEmailConflict     = errors.New("email already registered")
)
