package docgate

import "github.com/kailas-cloud/docgate/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidJSON         = domain.ErrInvalidJSON
	ErrMalformedFilter     = domain.ErrMalformedFilter
	ErrFilterNotObject     = domain.ErrFilterNotObject
	ErrBodyNotObject       = domain.ErrBodyNotObject
	ErrMalformedIdentifier = domain.ErrMalformedIdentifier
	ErrNotFound            = domain.ErrNotFound
	ErrStoreUnavailable    = domain.ErrStoreUnavailable
	ErrStoreInternal       = domain.ErrStoreInternal
)
