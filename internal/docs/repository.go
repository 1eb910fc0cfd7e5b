package docs

import "context"

type Repository interface {
	List(ctx context.Context, f Filter) ([]*Page, int, error)
	Categories(ctx context.Context) ([]string, error)
	// Search matches title or content case-insensitively.
	Search(ctx context.Context, q string, limit int) ([]*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	// Upsert matches on slug and reports whether a new row was created.
	Upsert(ctx context.Context, p *Page) (bool, error)
}
