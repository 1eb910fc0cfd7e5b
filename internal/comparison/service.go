package comparison

import (
	"context"

	"so101builder/internal/catalog"
	"so101builder/internal/core"
)

type Service struct {
	catalog core.CatalogReader
}

func NewService(catalog core.CatalogReader) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) Compare(ctx context.Context, ids []int) (*Result, error) {
	// reject bad counts before touching the catalog
	if err := ValidateIDs(ids); err != nil {
		return nil, err
	}

	components, err := s.catalog.GetComponents(ctx, ids)
	if err != nil {
		return nil, err
	}
	offers, err := catalog.LoadOffers(ctx, s.catalog, components)
	if err != nil {
		return nil, err
	}
	return Compare(ids, components, offers)
}
