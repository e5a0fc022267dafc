package ledger

import "mart-backend/internal/models"

// Catalog resolves product keys to catalog entries. The engine takes it as an
// injected dependency so tests can run against synthetic catalogs.
type Catalog interface {
	// Resolve returns the catalog product for key, or ok=false when the
	// catalog has no such key.
	Resolve(key string) (*models.Product, bool)
}

// StaticCatalog is a map-backed Catalog, used in tests and for preloaded
// in-memory snapshots of the product table.
type StaticCatalog map[string]models.Product

func (c StaticCatalog) Resolve(key string) (*models.Product, bool) {
	p, ok := c[key]
	if !ok {
		return nil, false
	}
	return &p, true
}
