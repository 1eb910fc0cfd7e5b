package pricing

import (
	"context"
	"strings"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/catalog"
	"so101builder/internal/core"
	"so101builder/internal/logger"
	"so101builder/internal/setup"

	"golang.org/x/sync/errgroup"
)

type OfferWriter interface {
	UpdateOfferPrice(ctx context.Context, offerID int, price float64, fetchedAt time.Time) error
}

type Service struct {
	catalog  core.CatalogReader
	offers   OfferWriter
	setups   core.SetupReader
	searcher *Searcher
	log      *logger.Logger
}

func NewService(
	catalog core.CatalogReader,
	offers OfferWriter,
	setups core.SetupReader,
	searcher *Searcher,
	log *logger.Logger,
) *Service {
	return &Service{
		catalog:  catalog,
		offers:   offers,
		setups:   setups,
		searcher: searcher,
		log:      log,
	}
}

// LoadLines resolves explicit selections into priceable lines. Selections
// whose component has left the catalog are skipped.
func LoadLines(ctx context.Context, reader core.CatalogReader, selections []setup.Selection) ([]Line, error) {
	if len(selections) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.ComponentID)
	}
	components, err := reader.GetComponents(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*catalog.Component, len(components))
	for _, c := range components {
		byID[c.ID] = c
	}

	offers, err := catalog.LoadOffers(ctx, reader, components)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(selections))
	for _, sel := range selections {
		c, ok := byID[sel.ComponentID]
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Component:         c,
			Offers:            offers[c.ID],
			Quantity:          sel.Quantity,
			PreferredVendorID: sel.SelectedVendorID,
			Notes:             sel.Notes,
		})
	}
	return lines, nil
}

// --------------------------------------------------
// Component prices
// --------------------------------------------------

type VendorPrice struct {
	VendorID       int       `json:"vendor_id"`
	VendorName     string    `json:"vendor_name"`
	VendorSlug     string    `json:"vendor_slug"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	OriginalPrice  *float64  `json:"original_price"`
	ShippingCost   *float64  `json:"shipping_cost"`
	ProductURL     *string   `json:"product_url"`
	InStock        bool      `json:"in_stock"`
	StockQuantity  *int      `json:"stock_quantity"`
	PriceFetchedAt time.Time `json:"price_fetched_at"`
}

type PriceResponse struct {
	ComponentID   int           `json:"component_id"`
	ComponentName string        `json:"component_name"`
	Prices        []VendorPrice `json:"prices"`
	Stats
}

func (s *Service) ComponentPrices(ctx context.Context, componentID int) (*PriceResponse, error) {
	c, err := s.catalog.GetComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	offers, err := s.catalog.GetOffers(ctx, componentID)
	if err != nil {
		return nil, err
	}
	offers = catalog.UsableOffers(offers)

	out := &PriceResponse{
		ComponentID:   c.ID,
		ComponentName: c.Name,
		Prices:        make([]VendorPrice, 0, len(offers)),
		Stats:         ComputeStats(offers),
	}
	for _, o := range offers {
		out.Prices = append(out.Prices, VendorPrice{
			VendorID:       o.VendorID,
			VendorName:     o.VendorName,
			VendorSlug:     o.VendorSlug,
			Price:          o.Price,
			Currency:       o.Currency,
			OriginalPrice:  o.OriginalPrice,
			ShippingCost:   o.ShippingCost,
			ProductURL:     o.ProductURL,
			InStock:        o.InStock,
			StockQuantity:  o.StockQuantity,
			PriceFetchedAt: o.FetchedAt,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Web search
// --------------------------------------------------

type SearchRequest struct {
	ComponentName    string `json:"component_name"`
	VendorPreference string `json:"vendor_preference"`
	IncludeShipping  bool   `json:"include_shipping"`
}

func (s *Service) Search(ctx context.Context, req SearchRequest) (SearchOutcome, error) {
	if strings.TrimSpace(req.ComponentName) == "" {
		return SearchOutcome{}, apperrors.Validation("component_name is required")
	}
	return s.searcher.Search(ctx, BuildQuery(req.ComponentName, req.VendorPreference)), nil
}

// --------------------------------------------------
// Setup cost
// --------------------------------------------------

func (s *Service) SetupCost(ctx context.Context, setupID string) (*CostBreakdown, error) {
	st, err := s.setups.Get(ctx, setupID)
	if err != nil {
		return nil, err
	}
	lines, err := LoadLines(ctx, s.catalog, st.Selections)
	if err != nil {
		return nil, err
	}
	return Aggregate(st, lines), nil
}

// --------------------------------------------------
// Refresh
// --------------------------------------------------

type PriceUpdate struct {
	OfferID    int     `json:"offer_id"`
	VendorID   int     `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	OldPrice   float64 `json:"old_price"`
	NewPrice   float64 `json:"new_price"`
}

type RefreshReport struct {
	Message       string        `json:"message"`
	ComponentID   int           `json:"component_id"`
	PricesUpdated int           `json:"prices_updated"`
	Updates       []PriceUpdate `json:"updates"`
}

// Refresh searches the web for a component and rewrites stored offers whose
// vendor matches a result's seller. A failed search updates nothing.
func (s *Service) Refresh(ctx context.Context, componentID int) (*RefreshReport, error) {
	c, err := s.catalog.GetComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	offers, err := s.catalog.GetOffers(ctx, componentID)
	if err != nil {
		return nil, err
	}
	offers = catalog.UsableOffers(offers)

	report := &RefreshReport{
		Message:     "Prices refreshed successfully",
		ComponentID: componentID,
		Updates:     []PriceUpdate{},
	}

	found := s.searcher.Search(ctx, BuildQuery(c.Name, ""))
	if len(found.Results) == 0 {
		if found.Message != nil {
			report.Message = *found.Message
		}
		return report, nil
	}

	now := time.Now().UTC()
	for _, o := range offers {
		match := matchSeller(found.Results, o.VendorName)
		if match == nil || match.Price == o.Price {
			continue
		}
		if err := s.offers.UpdateOfferPrice(ctx, o.ID, match.Price, now); err != nil {
			return nil, err
		}
		report.Updates = append(report.Updates, PriceUpdate{
			OfferID:    o.ID,
			VendorID:   o.VendorID,
			VendorName: o.VendorName,
			OldPrice:   o.Price,
			NewPrice:   match.Price,
		})
	}
	report.PricesUpdated = len(report.Updates)

	s.log.Info("prices refreshed",
		"component_id", componentID,
		"results", len(found.Results),
		"updated", report.PricesUpdated,
	)
	return report, nil
}

type RefreshSummary struct {
	Components    int
	PricesUpdated int
	Failed        int
}

// RefreshAll refreshes many components with at most limit searches in
// flight. A component that fails is logged and counted, and the rest carry
// on. Only cancellation of ctx stops the run early.
func (s *Service) RefreshAll(ctx context.Context, componentIDs []int, limit int) (RefreshSummary, error) {
	if limit < 1 {
		limit = 1
	}

	reports := make([]*RefreshReport, len(componentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range componentIDs {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.Refresh(gctx, id)
			if err != nil {
				s.log.Warn("price refresh failed", "component_id", id, "error", err)
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RefreshSummary{}, err
	}

	summary := RefreshSummary{Components: len(componentIDs)}
	for _, r := range reports {
		if r == nil {
			summary.Failed++
			continue
		}
		summary.PricesUpdated += r.PricesUpdated
	}
	return summary, nil
}

func matchSeller(results []SearchResult, vendorName string) *SearchResult {
	for i := range results {
		if results[i].Seller != nil && strings.EqualFold(*results[i].Seller, vendorName) {
			return &results[i]
		}
	}
	return nil
}
