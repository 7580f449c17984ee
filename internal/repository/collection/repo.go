package collection

import (
	"context"
	"fmt"
	"strings"
)

// store is the consumer interface for collections (ISP).
type store interface {
	ListCollectionNames(ctx context.Context) ([]string, error)
}

// Repo implements usecase/collection.Repository.
type Repo struct {
	store store
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns the names of all collections, hiding system collections.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	names, err := r.store.ListCollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if isSystem(n) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func isSystem(name string) bool {
	return strings.HasPrefix(name, "system.")
}
