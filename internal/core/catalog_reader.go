package core

import (
	"context"

	"so101builder/internal/catalog"
	"so101builder/internal/setup"
)

// CatalogReader is the read side of the catalog the pricing, comparison and
// export engines depend on. GetComponents tolerates partial results; callers
// detect misses by id-set difference.
type CatalogReader interface {
	GetComponent(ctx context.Context, id int) (*catalog.Component, error)
	GetComponents(ctx context.Context, ids []int) ([]*catalog.Component, error)
	GetOffers(ctx context.Context, componentID int) ([]catalog.Offer, error)
}

type SetupReader interface {
	Get(ctx context.Context, id string) (*setup.Setup, error)
}
