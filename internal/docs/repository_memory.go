package docs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"so101builder/internal/apperrors"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	pages  map[string]*Page
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pages: map[string]*Page{}}
}

func (m *MemoryRepository) sorted() []*Page {
	out := make([]*Page, 0, len(m.pages))
	for _, p := range m.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matches(p *Page, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q)
}

func copyPage(p *Page) *Page {
	out := *p
	return &out
}

func (m *MemoryRepository) List(ctx context.Context, f Filter) ([]*Page, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []*Page
	for _, p := range m.sorted() {
		if f.Category != "" && (p.Category == nil || *p.Category != f.Category) {
			continue
		}
		if f.Search != "" && !matches(p, f.Search) {
			continue
		}
		hits = append(hits, p)
	}

	total := len(hits)
	start := min(f.Offset(), total)
	end := min(start+f.PageSize, total)

	out := make([]*Page, 0, end-start)
	for _, p := range hits[start:end] {
		out = append(out, copyPage(p))
	}
	return out, total, nil
}

func (m *MemoryRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.pages {
		if p.Category != nil && !seen[*p.Category] {
			seen[*p.Category] = true
			out = append(out, *p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryRepository) Search(ctx context.Context, q string, limit int) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Page
	for _, p := range m.sorted() {
		if len(out) == limit {
			break
		}
		if matches(p, q) {
			out = append(out, copyPage(p))
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pages[slug]
	if !ok {
		return nil, apperrors.NotFound("Documentation")
	}
	return copyPage(p), nil
}

func (m *MemoryRepository) Upsert(ctx context.Context, p *Page) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.pages[p.Slug]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		m.pages[p.Slug] = copyPage(p)
		return false, nil
	}

	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	m.pages[p.Slug] = copyPage(p)
	return true, nil
}
