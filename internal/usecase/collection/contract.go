package collection

import "context"

// Repository defines the storage contract for collection names.
type Repository interface {
	List(ctx context.Context) ([]string, error)
}
