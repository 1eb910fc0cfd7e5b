package pricing

import (
	"sort"
	"time"

	"so101builder/internal/catalog"
	"so101builder/internal/setup"
)

const defaultCurrency = "USD"

// Line is one component to price: how many, and which vendor the user pinned.
type Line struct {
	Component         *catalog.Component
	Offers            []catalog.Offer
	Quantity          int
	PreferredVendorID *int
	Notes             *string
}

type CostItem struct {
	ComponentID   int     `json:"component_id"`
	ComponentName string  `json:"component_name"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalPrice    float64 `json:"total_price"`
	VendorName    *string `json:"vendor_name"`
	ProductURL    *string `json:"product_url"`
}

type CostBreakdown struct {
	SetupID           string             `json:"setup_id"`
	Components        []CostItem         `json:"components"`
	Subtotal          float64            `json:"subtotal"`
	EstimatedShipping *float64           `json:"estimated_shipping"`
	Total             float64            `json:"total"`
	Currency          string             `json:"currency"`
	CalculatedAt      time.Time          `json:"calculated_at"`
	CostByCategory    map[string]float64 `json:"cost_by_category"`
	VendorsUsed       []string           `json:"vendors_used"`
}

// Aggregate prices each line and rolls the totals up by category and vendor.
// With no lines, the setup's cached recommendations are listed at zero cost
// so the view works before anything has been picked explicitly. Shipping is
// never estimated.
func Aggregate(s *setup.Setup, lines []Line) *CostBreakdown {
	out := &CostBreakdown{
		SetupID:        s.ID,
		Components:     []CostItem{},
		Currency:       defaultCurrency,
		CalculatedAt:   time.Now().UTC(),
		CostByCategory: map[string]float64{},
		VendorsUsed:    []string{},
	}

	vendors := map[string]struct{}{}
	for _, line := range lines {
		item := CostItem{
			ComponentID:   line.Component.ID,
			ComponentName: line.Component.Name,
			Category:      line.Component.Category(),
			Quantity:      line.Quantity,
		}

		if offer := Select(line.Offers, line.PreferredVendorID); offer != nil {
			name := offer.VendorName
			item.UnitPrice = offer.Price
			item.VendorName = &name
			item.ProductURL = offer.ProductURL
			vendors[name] = struct{}{}
		}
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)

		out.Subtotal += item.TotalPrice
		out.CostByCategory[item.Category] += item.TotalPrice
		out.Components = append(out.Components, item)
	}

	if len(lines) == 0 && s.Recommendations != nil {
		for _, rec := range s.Recommendations.Components {
			out.Components = append(out.Components, CostItem{
				ComponentID:   rec.ComponentID,
				ComponentName: rec.ComponentName,
				Category:      rec.Category,
				Quantity:      rec.Quantity,
			})
		}
	}

	for name := range vendors {
		out.VendorsUsed = append(out.VendorsUsed, name)
	}
	sort.Strings(out.VendorsUsed)

	out.Total = out.Subtotal
	return out
}
