package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("short url not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMaxRetriesExceeded = errors.New("failed to generate unique short code")
	ErrInvalidListParams  = errors.New("invalid list parameters")
)

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
