package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON signals a request body that is not valid JSON.
	ErrInvalidJSON = errors.New("invalid json")
	// ErrMalformedFilter signals a where parameter that is not valid JSON.
	ErrMalformedFilter = errors.New("invalid json in where")
	// ErrFilterNotObject signals a where parameter whose top level is not a JSON object.
	ErrFilterNotObject = errors.New("expect json object in where")
	// ErrBodyNotObject signals a request body whose top level is not a JSON object.
	ErrBodyNotObject = errors.New("expect json object in body")
	// ErrMalformedIdentifier signals an id that is not 24 hex characters.
	ErrMalformedIdentifier = errors.New("malformed object id")
	// ErrNotFound signals a single-document lookup that matched nothing.
	ErrNotFound = errors.New("object not found")

	// ErrStoreUnavailable signals a failed read against the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreInternal signals a failed write against the document store.
	ErrStoreInternal = errors.New("store internal error")
)

// NotFoundError wraps ErrNotFound with the identifier that matched nothing.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not-found error naming the missing identifier.
func NewNotFound(id string) error {
	return &NotFoundError{ID: id}
}
