package services

import (
	"context"
	"fmt"
	"sync"

	"mart-backend/internal/models"
	"mart-backend/internal/repositories"
)

// CatalogService serves the product catalog and implements ledger.Catalog.
// Resolve works off an in-memory snapshot so the engine stays synchronous;
// the snapshot is loaded at startup and can be refreshed on demand.
type CatalogService struct {
	Repo *repositories.ProductRepository

	mu    sync.RWMutex
	byKey map[string]models.Product
}

func NewCatalogService(repo *repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		Repo:  repo,
		byKey: map[string]models.Product{},
	}
}

// Load reads the whole product table into the snapshot.
func (s *CatalogService) Load(ctx context.Context) error {
	products, err := s.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load product catalog: %w", err)
	}

	byKey := make(map[string]models.Product, len(products))
	for _, p := range products {
		byKey[p.Key] = *p
	}

	s.mu.Lock()
	s.byKey = byKey
	s.mu.Unlock()

	return nil
}

// Resolve implements ledger.Catalog against the in-memory snapshot.
func (s *CatalogService) Resolve(key string) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return &p, true
}

// List returns the catalog straight from the table, sorted for display.
func (s *CatalogService) List(ctx context.Context) ([]*models.Product, error) {
	return s.Repo.List(ctx)
}
