package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryTooShort signals a query below the effective minimum length.
	ErrQueryTooShort = errors.New("query too short")
	// ErrSearchDisabled signals that live search is switched off site-wide.
	ErrSearchDisabled = errors.New("search disabled")
	// ErrCatalogUnavailable signals that the catalog could not answer the query.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInvalidPreset signals a preset id that does not resolve to a preset record.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSettings signals a settings payload that cannot be stored.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidRequest signals malformed search input.
	ErrInvalidRequest = errors.New("invalid request")
)

// QueryTooShortError wraps ErrQueryTooShort with the effective minimum length.
type QueryTooShortError struct {
	MinLength int
}

func (e *QueryTooShortError) Error() string {
	return fmt.Sprintf("%s: minimum is %d characters", ErrQueryTooShort.Error(), e.MinLength)
}

func (e *QueryTooShortError) Unwrap() error { return ErrQueryTooShort }

// NewQueryTooShort creates a query-too-short error.
func NewQueryTooShort(minLength int) error {
	return &QueryTooShortError{MinLength: minLength}
}
