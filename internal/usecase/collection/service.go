package collection

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docgate/internal/domain"
)

// Service lists the collections of the configured database.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user-visible collection names in ascending order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
