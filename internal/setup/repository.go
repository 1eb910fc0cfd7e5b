package setup

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Setup) error
	// Get returns the setup with its selections. Expired setups read as NotFound.
	Get(ctx context.Context, id string) (*Setup, error)
	Update(ctx context.Context, s *Setup) error
	Delete(ctx context.Context, id string) error

	UpsertSelection(ctx context.Context, setupID string, sel Selection) error
	DeleteSelection(ctx context.Context, setupID string, componentID int) error

	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
