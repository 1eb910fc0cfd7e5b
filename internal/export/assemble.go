package export

import (
	"time"

	"so101builder/internal/catalog"
	"so101builder/internal/pricing"
	"so101builder/internal/setup"
)

// BuildShoppingList prices each line like the cost breakdown does, pinned
// vendor first, and groups the lines by vendor. Unpriced lines are grouped
// under "Unknown". With no lines the cached recommendations are listed at
// zero cost with vendor "TBD" and nothing in ByVendor.
func BuildShoppingList(s *setup.Setup, lines []pricing.Line) *ShoppingList {
	out := &ShoppingList{
		SetupID:  s.ID,
		Items:    []ShoppingItem{},
		Currency: "USD",
		ByVendor: map[string][]ShoppingItem{},
	}

	for _, line := range lines {
		item := ShoppingItem{
			ComponentName: line.Component.Name,
			Quantity:      line.Quantity,
			Vendor:        unknownVendor,
			Currency:      "USD",
			Notes:         line.Notes,
		}
		if offer := pricing.Select(line.Offers, line.PreferredVendorID); offer != nil {
			item.Vendor = offer.VendorName
			item.Price = offer.Price * float64(line.Quantity)
			item.ProductURL = offer.ProductURL
		}

		out.Items = append(out.Items, item)
		out.TotalCost += item.Price
		out.ByVendor[item.Vendor] = append(out.ByVendor[item.Vendor], item)
	}

	if len(lines) == 0 && s.Recommendations != nil {
		for _, rec := range s.Recommendations.Components {
			reason := rec.Reason
			out.Items = append(out.Items, ShoppingItem{
				ComponentName: rec.ComponentName,
				Quantity:      rec.Quantity,
				Vendor:        tbdVendor,
				Currency:      "USD",
				Notes:         &reason,
			})
		}
	}

	for _, item := range out.Items {
		out.TotalItems += item.Quantity
	}
	return out
}

// BuildBOM snapshots the setup. Prices come from each component's cheapest
// offer regardless of any pinned vendor.
func BuildBOM(s *setup.Setup, lines []pricing.Line, includePrices bool, now time.Time) *BOM {
	arm := s.ArmType
	if arm == "" {
		arm = s.Profile.Arm()
	}

	out := &BOM{
		Version:         bomVersion,
		CreatedAt:       now.UTC(),
		SetupID:         s.ID,
		Profile:         s.Profile,
		ArmType:         arm,
		RobotType:       "so101_" + arm,
		Components:      []BOMComponent{},
		Recommendations: s.Recommendations,
	}

	for _, line := range lines {
		c := line.Component
		comp := BOMComponent{
			ID:             c.ID,
			Name:           c.Name,
			Quantity:       line.Quantity,
			Specifications: c.Specifications,
		}
		if c.CategoryName != "" {
			name := c.CategoryName
			comp.Category = &name
		}
		if comp.Specifications == nil {
			comp.Specifications = map[string]any{}
		}
		if includePrices {
			comp.Price = bomPrice(catalog.Cheapest(line.Offers))
		}
		out.Components = append(out.Components, comp)
	}
	return out
}

func bomPrice(o *catalog.Offer) *BOMPrice {
	if o == nil {
		return nil
	}
	currency := o.Currency
	if currency == "" {
		currency = "USD"
	}
	vendor := o.VendorName
	return &BOMPrice{
		Amount:   o.Price,
		Currency: currency,
		Vendor:   &vendor,
		URL:      o.ProductURL,
	}
}
