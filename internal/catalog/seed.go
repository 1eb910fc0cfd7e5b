package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"so101builder/internal/logger"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type Seed struct {
	Categories []struct {
		Name        string  `yaml:"name"`
		Slug        string  `yaml:"slug"`
		Description *string `yaml:"description"`
		Icon        *string `yaml:"icon"`
		SortOrder   int     `yaml:"sort_order"`
	} `yaml:"categories"`

	Vendors []struct {
		Name                string  `yaml:"name"`
		Slug                string  `yaml:"slug"`
		WebsiteURL          *string `yaml:"website_url"`
		Description         *string `yaml:"description"`
		ShipsToUS           bool    `yaml:"ships_to_us"`
		ShipsToEU           bool    `yaml:"ships_to_eu"`
		TypicalShippingDays *int    `yaml:"typical_shipping_days"`
	} `yaml:"vendors"`

	Components []struct {
		Name           string         `yaml:"name"`
		Slug           string         `yaml:"slug"`
		CategorySlug   string         `yaml:"category_slug"`
		Description    *string        `yaml:"description"`
		Specifications map[string]any `yaml:"specifications"`
		IsDefault      bool           `yaml:"is_default_for_so101"`
		QuantityPerArm int            `yaml:"quantity_per_arm"`
		ArmType        *string        `yaml:"arm_type"`
	} `yaml:"components"`

	SamplePrices []struct {
		ComponentSlug string  `yaml:"component_slug"`
		VendorSlug    string  `yaml:"vendor_slug"`
		Price         float64 `yaml:"price"`
		ProductURL    *string `yaml:"product_url"`
	} `yaml:"sample_prices"`
}

// DefaultSeed is the catalog shipped with the binary.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &s, nil
}

type SeedReport struct {
	Categories int
	Vendors    int
	Components int
	Prices     int
	Skipped    int
}

// ApplySeed upserts everything in s, matching existing rows by slug.
func ApplySeed(ctx context.Context, repo Repository, s *Seed, log *logger.Logger) (SeedReport, error) {
	var report SeedReport

	categoryIDs := map[string]int{}
	for _, c := range s.Categories {
		cat := &Category{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Icon:        c.Icon,
			SortOrder:   c.SortOrder,
		}
		if err := repo.UpsertCategory(ctx, cat); err != nil {
			return report, fmt.Errorf("category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = cat.ID
		report.Categories++
	}

	vendorIDs := map[string]int{}
	for _, v := range s.Vendors {
		vendor := &Vendor{
			Name:                v.Name,
			Slug:                v.Slug,
			WebsiteURL:          v.WebsiteURL,
			Description:         v.Description,
			IsActive:            true,
			ShipsToUS:           v.ShipsToUS,
			ShipsToEU:           v.ShipsToEU,
			TypicalShippingDays: v.TypicalShippingDays,
		}
		if err := repo.UpsertVendor(ctx, vendor); err != nil {
			return report, fmt.Errorf("vendor %s: %w", v.Slug, err)
		}
		vendorIDs[v.Slug] = vendor.ID
		report.Vendors++
	}

	componentIDs := map[string]int{}
	for _, c := range s.Components {
		categoryID, ok := categoryIDs[c.CategorySlug]
		if !ok {
			log.Warn("seed component has unknown category", "component", c.Slug, "category", c.CategorySlug)
			report.Skipped++
			continue
		}
		qty := c.QuantityPerArm
		if qty == 0 {
			qty = 1
		}
		specs := c.Specifications
		if specs == nil {
			specs = map[string]any{}
		}
		comp := &Component{
			Name:           c.Name,
			Slug:           c.Slug,
			CategoryID:     categoryID,
			Description:    c.Description,
			Specifications: specs,
			IsDefault:      c.IsDefault,
			QuantityPerArm: qty,
			ArmType:        c.ArmType,
		}
		if err := repo.UpsertComponent(ctx, comp); err != nil {
			return report, fmt.Errorf("component %s: %w", c.Slug, err)
		}
		componentIDs[c.Slug] = comp.ID
		report.Components++
	}

	now := time.Now().UTC()
	for _, p := range s.SamplePrices {
		componentID, okC := componentIDs[p.ComponentSlug]
		vendorID, okV := vendorIDs[p.VendorSlug]
		if !okC || !okV {
			log.Warn("skipping seed price", "component", p.ComponentSlug, "vendor", p.VendorSlug)
			report.Skipped++
			continue
		}
		offer := &Offer{
			ComponentID: componentID,
			VendorID:    vendorID,
			Price:       p.Price,
			Currency:    "USD",
			ProductURL:  p.ProductURL,
			InStock:     true,
			FetchedAt:   now,
		}
		if err := repo.UpsertOffer(ctx, offer); err != nil {
			return report, fmt.Errorf("price %s@%s: %w", p.ComponentSlug, p.VendorSlug, err)
		}
		report.Prices++
	}

	log.Info("catalog seeded",
		"categories", report.Categories,
		"vendors", report.Vendors,
		"components", report.Components,
		"prices", report.Prices,
		"skipped", report.Skipped,
	)
	return report, nil
}
