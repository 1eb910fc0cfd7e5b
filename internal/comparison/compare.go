package comparison

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"so101builder/internal/apperrors"
	"so101builder/internal/catalog"
)

const (
	MinComponents = 2
	MaxComponents = 5
)

var displayNames = map[string]string{
	"model":             "Model",
	"gear_ratio":        "Gear Ratio",
	"voltage":           "Operating Voltage",
	"torque":            "Torque",
	"speed":             "Speed",
	"weight":            "Weight",
	"dimensions":        "Dimensions",
	"resolution":        "Resolution",
	"frame_rate":        "Frame Rate",
	"interface":         "Interface",
	"power_consumption": "Power Consumption",
	"operating_temp":    "Operating Temperature",
	"warranty":          "Warranty",
}

type Item struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	CategoryName   string         `json:"category_name"`
	ImageURL       *string        `json:"image_url"`
	Specifications map[string]any `json:"specifications"`
	LowestPrice    *float64       `json:"lowest_price"`
	IsDefault      bool           `json:"is_default_for_so101"`
	ArmType        *string        `json:"arm_type"`
}

// Spec lines up one specification key across components. Components
// without the key have no entry in Values.
type Spec struct {
	Key         string      `json:"key"`
	DisplayName string      `json:"display_name"`
	Values      map[int]any `json:"values"`
	Unit        *string     `json:"unit"`
}

type Result struct {
	Components      []Item           `json:"components"`
	Specifications  []Spec           `json:"specifications"`
	PriceComparison map[int]*float64 `json:"price_comparison"`
	BestValueID     *int             `json:"best_value_id"`
	RecommendedID   *int             `json:"recommended_id"`
	CommonSpecs     []string         `json:"common_specs"`
	DifferingSpecs  []string         `json:"differing_specs"`
}

// ValidateIDs checks the id count and rejects repeats.
func ValidateIDs(ids []int) error {
	if len(ids) < MinComponents {
		return apperrors.Validation("At least 2 components required for comparison")
	}
	if len(ids) > MaxComponents {
		return apperrors.Validation("Maximum 5 components can be compared at once")
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperrors.Validationf("component %d listed more than once", id)
		}
		seen[id] = true
	}
	return nil
}

// Compare builds the side-by-side table for ids, in request order. components
// may be partial; any id without a component fails with the missing ids.
// offers holds usable offers keyed by component id.
func Compare(ids []int, components []*catalog.Component, offers map[int][]catalog.Offer) (*Result, error) {
	if err := ValidateIDs(ids); err != nil {
		return nil, err
	}

	byID := make(map[int]*catalog.Component, len(components))
	for _, c := range components {
		byID[c.ID] = c
	}
	var missing []int
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NotFoundIDs("Components", missing)
	}

	out := &Result{
		Components:      make([]Item, 0, len(ids)),
		Specifications:  []Spec{},
		PriceComparison: make(map[int]*float64, len(ids)),
		CommonSpecs:     []string{},
		DifferingSpecs:  []string{},
	}

	var keys []string
	values := map[string]map[int]any{}

	for _, id := range ids {
		c := byID[id]
		item := Item{
			ID:             c.ID,
			Name:           c.Name,
			Slug:           c.Slug,
			CategoryName:   c.CategoryName,
			ImageURL:       c.ImageURL,
			Specifications: c.Specifications,
			IsDefault:      c.IsDefault,
			ArmType:        c.ArmType,
		}
		if item.CategoryName == "" {
			item.CategoryName = "Unknown"
		}
		if item.Specifications == nil {
			item.Specifications = map[string]any{}
		}
		if best := catalog.Cheapest(offers[id]); best != nil {
			price := best.Price
			item.LowestPrice = &price
		}
		out.Components = append(out.Components, item)
		out.PriceComparison[id] = item.LowestPrice

		// map order is random; sort so the key order is stable
		specKeys := make([]string, 0, len(item.Specifications))
		for k := range item.Specifications {
			specKeys = append(specKeys, k)
		}
		sort.Strings(specKeys)
		for _, k := range specKeys {
			if _, ok := values[k]; !ok {
				values[k] = map[int]any{}
				keys = append(keys, k)
			}
			values[k][id] = item.Specifications[k]
		}
	}

	for _, k := range keys {
		out.Specifications = append(out.Specifications, Spec{
			Key:         k,
			DisplayName: DisplayName(k),
			Values:      values[k],
		})
		if isCommon(values[k], len(ids)) {
			out.CommonSpecs = append(out.CommonSpecs, k)
		} else {
			out.DifferingSpecs = append(out.DifferingSpecs, k)
		}
	}

	for i := range out.Components {
		if out.Components[i].IsDefault {
			id := out.Components[i].ID
			out.RecommendedID = &id
			break
		}
	}

	var bestPrice float64
	for i := range out.Components {
		p := out.Components[i].LowestPrice
		if p == nil {
			continue
		}
		if out.BestValueID == nil || *p < bestPrice {
			id := out.Components[i].ID
			out.BestValueID = &id
			bestPrice = *p
		}
	}

	return out, nil
}

// isCommon reports whether every component has the key with the same
// printed value.
func isCommon(values map[int]any, n int) bool {
	if len(values) != n {
		return false
	}
	var first string
	i := 0
	for _, v := range values {
		s := fmt.Sprint(v)
		if i == 0 {
			first = s
		} else if s != first {
			return false
		}
		i++
	}
	return true
}

// DisplayName labels a specification key. Unmapped keys are title-cased
// with underscores as spaces.
func DisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
