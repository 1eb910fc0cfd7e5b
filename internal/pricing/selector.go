package pricing

import (
	"math"

	"so101builder/internal/catalog"

	"github.com/montanaflynn/stats"
)

// Select picks the offer to buy a component from. A preferred vendor that
// has an offer always wins, even over a cheaper one. Otherwise the cheapest
// offer is returned, ties going to the first in stored order. Nil means the
// component is unpriced, which callers treat as a zero-cost line.
func Select(offers []catalog.Offer, preferredVendorID *int) *catalog.Offer {
	if preferredVendorID != nil {
		for i := range offers {
			if offers[i].VendorID == *preferredVendorID {
				chosen := offers[i]
				return &chosen
			}
		}
	}
	return catalog.Cheapest(offers)
}

// Stats summarises the offers of one component. All fields are nil when
// there are no offers.
type Stats struct {
	Lowest  *float64 `json:"lowest_price"`
	Highest *float64 `json:"highest_price"`
	Average *float64 `json:"average_price"`
	Median  *float64 `json:"median_price,omitempty"`
	Count   int      `json:"offer_count"`
}

func ComputeStats(offers []catalog.Offer) Stats {
	if len(offers) == 0 {
		return Stats{}
	}

	values := make(stats.Float64Data, 0, len(offers))
	for _, o := range offers {
		values = append(values, o.Price)
	}

	// errors only occur on empty input, ruled out above
	lowest, _ := stats.Min(values)
	highest, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)

	avg := round2(mean)
	return Stats{
		Lowest:  &lowest,
		Highest: &highest,
		Average: &avg,
		Median:  &median,
		Count:   len(offers),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
