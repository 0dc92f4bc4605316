// Package repository holds the sandbox API's in-memory state.
package repository

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrNoInventory = errors.New("room no longer available")
	ErrTokenUsed   = errors.New("token is invalid or has expired")
)
