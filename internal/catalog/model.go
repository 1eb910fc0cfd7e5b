package catalog

import "time"

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

type Vendor struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	Slug                string  `json:"slug"`
	WebsiteURL          *string `json:"website_url,omitempty"`
	Description         *string `json:"description,omitempty"`
	IsActive            bool    `json:"is_active"`
	ShipsToUS           bool    `json:"ships_to_us"`
	ShipsToEU           bool    `json:"ships_to_eu"`
	TypicalShippingDays *int    `json:"typical_shipping_days,omitempty"`
}

// Component is a catalog part. Specifications is free-form and heterogeneous
// across categories.
type Component struct {
	ID             int
	Name           string
	Slug           string
	CategoryID     int
	CategoryName   string
	CategorySlug   string
	CategoryIcon   *string
	Description    *string
	ImageURL       *string
	Specifications map[string]any
	IsDefault      bool
	QuantityPerArm int
	ArmType        *string // leader | follower | both | nil
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Category returns the component's category name, "Other" when uncategorized.
func (c *Component) Category() string {
	if c.CategoryName == "" {
		return "Other"
	}
	return c.CategoryName
}

// Offer is one vendor's price for one component.
type Offer struct {
	ID            int
	ComponentID   int
	VendorID      int
	VendorName    string // empty when the vendor row no longer exists
	VendorSlug    string
	Price         float64
	Currency      string
	OriginalPrice *float64
	ShippingCost  *float64
	ProductURL    *string
	InStock       bool
	StockQuantity *int
	FetchedAt     time.Time
}

// ComponentFilter is applied by the repository. Price and stock filters need
// offers and are applied by the service afterwards.
type ComponentFilter struct {
	CategoryID   *int
	CategorySlug string
	Search       string
	IsDefault    *bool
	ArmType      string
	Page         int
	PageSize     int
}

func (f ComponentFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
