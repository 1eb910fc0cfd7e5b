package catalog

import (
	"context"
	"time"
)

type Repository interface {
	// reads used by the pricing, comparison and export engines
	GetComponent(ctx context.Context, id int) (*Component, error)
	GetComponents(ctx context.Context, ids []int) ([]*Component, error)
	GetOffers(ctx context.Context, componentID int) ([]Offer, error)

	// browsing
	ListComponents(ctx context.Context, filter ComponentFilter) ([]*Component, int, error)
	ListDefaults(ctx context.Context, armType string) ([]*Component, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int) (*Category, error)
	GetVendor(ctx context.Context, id int) (*Vendor, error)
	ListComponentIDs(ctx context.Context) ([]int, error)

	// writes
	CreateComponent(ctx context.Context, c *Component) error
	UpdateOfferPrice(ctx context.Context, offerID int, price float64, fetchedAt time.Time) error

	// seeding, matched by slug
	UpsertCategory(ctx context.Context, c *Category) error
	UpsertVendor(ctx context.Context, v *Vendor) error
	UpsertComponent(ctx context.Context, c *Component) error
	UpsertOffer(ctx context.Context, o *Offer) error
}
