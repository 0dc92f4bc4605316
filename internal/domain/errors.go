package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"
	KindServer   ErrorKind = "server"
	KindAuth     ErrorKind = "auth"
	KindNotFound ErrorKind = "not_found"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrReadOnly     = errors.New("booking is confirmed and can no longer be changed")
)

// Error is a failure reported by, or while reaching, the remote API.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Message extracts a human readable message from err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return err.Error()
}

func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// ValidationError lists the fields that block a step transition.
type ValidationError struct {
	Step   Step
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Step.String())
	b.WriteString(": ")
	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else {
		b.WriteString("missing required fields")
	}
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Fields, ", "))
		b.WriteString(")")
	}
	return b.String()
}
