package catalog

import (
	"context"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/logger"

	"golang.org/x/sync/errgroup"
)

// offerFanOut bounds concurrent offer lookups per request.
const offerFanOut = 4

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// --------------------------------------------------
// Views
// --------------------------------------------------

type CategoryInfo struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	Icon *string `json:"icon,omitempty"`
}

type VendorPriceInfo struct {
	VendorID       int       `json:"vendor_id"`
	VendorName     string    `json:"vendor_name"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	ShippingCost   *float64  `json:"shipping_cost,omitempty"`
	ProductURL     *string   `json:"product_url,omitempty"`
	InStock        bool      `json:"in_stock"`
	PriceFetchedAt time.Time `json:"price_fetched_at"`
}

type ComponentView struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Description    *string           `json:"description,omitempty"`
	Specifications map[string]any    `json:"specifications"`
	IsDefault      bool              `json:"is_default_for_so101"`
	QuantityPerArm int               `json:"quantity_per_arm"`
	ArmType        *string           `json:"arm_type"`
	ImageURL       *string           `json:"image_url,omitempty"`
	Category       CategoryInfo      `json:"category"`
	Prices         []VendorPriceInfo `json:"prices"`
	LowestPrice    *float64          `json:"lowest_price"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewComponentView(c *Component, offers []Offer) ComponentView {
	v := ComponentView{
		ID:             c.ID,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		Specifications: c.Specifications,
		IsDefault:      c.IsDefault,
		QuantityPerArm: c.QuantityPerArm,
		ArmType:        c.ArmType,
		ImageURL:       c.ImageURL,
		Category: CategoryInfo{
			ID:   c.CategoryID,
			Name: c.Category(),
			Slug: c.CategorySlug,
			Icon: c.CategoryIcon,
		},
		Prices:    make([]VendorPriceInfo, 0, len(offers)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, o := range offers {
		v.Prices = append(v.Prices, VendorPriceInfo{
			VendorID:       o.VendorID,
			VendorName:     o.VendorName,
			Price:          o.Price,
			Currency:       o.Currency,
			ShippingCost:   o.ShippingCost,
			ProductURL:     o.ProductURL,
			InStock:        o.InStock,
			PriceFetchedAt: o.FetchedAt,
		})
	}
	if best := Cheapest(offers); best != nil {
		lowest := best.Price
		v.LowestPrice = &lowest
	}
	return v
}

type OfferReader interface {
	GetOffers(ctx context.Context, componentID int) ([]Offer, error)
}

// LoadOffers fetches usable offers for each component concurrently. The
// result is keyed by component id.
func LoadOffers(ctx context.Context, repo OfferReader, components []*Component) (map[int][]Offer, error) {
	results := make([][]Offer, len(components))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(offerFanOut)
	for i, c := range components {
		i, c := i, c
		g.Go(func() error {
			offers, err := repo.GetOffers(gctx, c.ID)
			if err != nil {
				return err
			}
			results[i] = UsableOffers(offers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int][]Offer, len(components))
	for i, c := range components {
		out[c.ID] = results[i]
	}
	return out, nil
}

// --------------------------------------------------
// List components
// --------------------------------------------------

type ListParams struct {
	Filter      ComponentFilter
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
}

type ComponentList struct {
	Items      []ComponentView `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func (s *Service) ListComponents(ctx context.Context, p ListParams) (*ComponentList, error) {
	if p.Filter.Page == 0 {
		p.Filter.Page = 1
	}
	if p.Filter.PageSize == 0 {
		p.Filter.PageSize = 20
	}
	if p.Filter.Page < 1 {
		return nil, apperrors.Validation("page must be >= 1")
	}
	if p.Filter.PageSize < 1 || p.Filter.PageSize > 100 {
		return nil, apperrors.Validation("page_size must be between 1 and 100")
	}

	components, total, err := s.repo.ListComponents(ctx, p.Filter)
	if err != nil {
		return nil, err
	}
	offers, err := LoadOffers(ctx, s.repo, components)
	if err != nil {
		return nil, err
	}

	// price and stock filters run on the fetched page
	items := make([]ComponentView, 0, len(components))
	for _, c := range components {
		view := NewComponentView(c, offers[c.ID])

		if p.MinPrice != nil && (view.LowestPrice == nil || *view.LowestPrice < *p.MinPrice) {
			continue
		}
		if p.MaxPrice != nil && (view.LowestPrice == nil || *view.LowestPrice > *p.MaxPrice) {
			continue
		}
		if p.InStockOnly && len(offers[c.ID]) > 0 && !InStock(offers[c.ID]) {
			continue
		}
		items = append(items, view)
	}

	return &ComponentList{
		Items:      items,
		Total:      total,
		Page:       p.Filter.Page,
		PageSize:   p.Filter.PageSize,
		TotalPages: (total + p.Filter.PageSize - 1) / p.Filter.PageSize,
	}, nil
}

// --------------------------------------------------
// Single component
// --------------------------------------------------

func (s *Service) GetComponent(ctx context.Context, id int) (*ComponentView, error) {
	c, err := s.repo.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	offers, err := s.repo.GetOffers(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewComponentView(c, UsableOffers(offers))
	return &view, nil
}

// --------------------------------------------------
// SO-101 defaults
// --------------------------------------------------

type Defaults struct {
	ArmType         string          `json:"arm_type"`
	Components      []ComponentView `json:"components"`
	TotalComponents int             `json:"total_components"`
	EstimatedCost   float64         `json:"estimated_cost"`
}

// Defaults lists the default build parts. On a dual build, leader and follower
// parts count twice towards the estimate.
func (s *Service) Defaults(ctx context.Context, armType string) (*Defaults, error) {
	if armType == "" {
		armType = "single"
	}
	if armType != "single" && armType != "dual" {
		return nil, apperrors.Validation("arm_type must be single or dual")
	}

	components, err := s.repo.ListDefaults(ctx, armType)
	if err != nil {
		return nil, err
	}
	offers, err := LoadOffers(ctx, s.repo, components)
	if err != nil {
		return nil, err
	}

	out := &Defaults{ArmType: armType, Components: make([]ComponentView, 0, len(components))}
	for _, c := range components {
		view := NewComponentView(c, offers[c.ID])
		out.Components = append(out.Components, view)

		if view.LowestPrice == nil {
			continue
		}
		line := *view.LowestPrice * float64(view.QuantityPerArm)
		out.EstimatedCost += line
		if armType == "dual" && view.ArmType != nil && (*view.ArmType == "leader" || *view.ArmType == "follower") {
			out.EstimatedCost += line
		}
	}
	out.TotalComponents = len(out.Components)
	return out, nil
}

// --------------------------------------------------
// Categories
// --------------------------------------------------

func (s *Service) Categories(ctx context.Context) ([]CategoryInfo, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryInfo{ID: c.ID, Name: c.Name, Slug: c.Slug, Icon: c.Icon})
	}
	return out, nil
}

// --------------------------------------------------
// Create component
// --------------------------------------------------

type CreateComponentRequest struct {
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	CategoryID     int            `json:"category_id"`
	Description    *string        `json:"description"`
	Specifications map[string]any `json:"specifications"`
	IsDefault      bool           `json:"is_default_for_so101"`
	QuantityPerArm int            `json:"quantity_per_arm"`
	ArmType        *string        `json:"arm_type"`
	ImageURL       *string        `json:"image_url"`
}

func (s *Service) CreateComponent(ctx context.Context, req CreateComponentRequest) (*ComponentView, error) {
	if req.Name == "" || req.Slug == "" {
		return nil, apperrors.Validation("name and slug are required")
	}
	if req.ArmType != nil {
		switch *req.ArmType {
		case "leader", "follower", "both":
		default:
			return nil, apperrors.Validation("arm_type must be leader, follower or both")
		}
	}
	if req.QuantityPerArm == 0 {
		req.QuantityPerArm = 1
	}
	if req.QuantityPerArm < 0 {
		return nil, apperrors.Validation("quantity_per_arm must be positive")
	}
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("Category not found")
		}
		return nil, err
	}

	specs := req.Specifications
	if specs == nil {
		specs = map[string]any{}
	}
	c := &Component{
		Name:           req.Name,
		Slug:           req.Slug,
		CategoryID:     req.CategoryID,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Specifications: specs,
		IsDefault:      req.IsDefault,
		QuantityPerArm: req.QuantityPerArm,
		ArmType:        req.ArmType,
	}
	if err := s.repo.CreateComponent(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("component created", "component_id", c.ID, "slug", c.Slug)

	return s.GetComponent(ctx, c.ID)
}
