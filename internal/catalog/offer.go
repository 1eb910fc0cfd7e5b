package catalog

// UsableOffers drops offers whose vendor is gone. Such offers are treated as
// if they did not exist, so a component left with none reads as unpriced.
func UsableOffers(offers []Offer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.VendorName == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Cheapest returns the lowest-priced offer. Ties resolve to the first offer in
// stored order. Nil when there are no offers.
func Cheapest(offers []Offer) *Offer {
	var best *Offer
	for i := range offers {
		if best == nil || offers[i].Price < best.Price {
			best = &offers[i]
		}
	}
	if best == nil {
		return nil
	}
	chosen := *best
	return &chosen
}

func InStock(offers []Offer) bool {
	for _, o := range offers {
		if o.InStock {
			return true
		}
	}
	return false
}
