package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"so101builder/internal/apperrors"
)

// MemoryRepository is a map-backed Repository for tests and local runs.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories map[int]*Category
	vendors    map[int]*Vendor
	components map[int]*Component
	offers     []Offer
	nextID     int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		categories: make(map[int]*Category),
		vendors:    make(map[int]*Vendor),
		components: make(map[int]*Component),
		nextID:     1,
	}
}

func (m *MemoryRepository) id() int {
	id := m.nextID
	m.nextID++
	return id
}

// AddCategory stores c, assigning an id when c.ID is zero.
func (m *MemoryRepository) AddCategory(c Category) Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.categories[c.ID] = &c
	return c
}

func (m *MemoryRepository) AddVendor(v Vendor) Vendor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == 0 {
		v.ID = m.id()
	}
	m.vendors[v.ID] = &v
	return v
}

func (m *MemoryRepository) AddComponent(c Component) Component {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	if c.Specifications == nil {
		c.Specifications = map[string]any{}
	}
	m.components[c.ID] = &c
	return c
}

// AddOffer appends in stored order. VendorName is resolved from the vendor
// table on read, like the SQL join.
func (m *MemoryRepository) AddOffer(o Offer) Offer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.id()
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	m.offers = append(m.offers, o)
	return o
}

// RemoveVendor deletes a vendor but keeps its offers, leaving them dangling.
func (m *MemoryRepository) RemoveVendor(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vendors, id)
}

func (m *MemoryRepository) withCategory(c *Component) *Component {
	out := *c
	if cat, ok := m.categories[c.CategoryID]; ok {
		out.CategoryName = cat.Name
		out.CategorySlug = cat.Slug
		out.CategoryIcon = cat.Icon
	} else {
		out.CategoryName = ""
		out.CategorySlug = ""
	}
	return &out
}

func (m *MemoryRepository) GetComponent(ctx context.Context, id int) (*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.components[id]
	if !ok {
		return nil, apperrors.NotFound("component")
	}
	return m.withCategory(c), nil
}

func (m *MemoryRepository) GetComponents(ctx context.Context, ids []int) ([]*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Component
	for _, id := range ids {
		if c, ok := m.components[id]; ok {
			out = append(out, m.withCategory(c))
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetOffers(ctx context.Context, componentID int) ([]Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Offer
	for _, o := range m.offers {
		if o.ComponentID != componentID {
			continue
		}
		o.VendorName, o.VendorSlug = "", ""
		if v, ok := m.vendors[o.VendorID]; ok {
			o.VendorName, o.VendorSlug = v.Name, v.Slug
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *MemoryRepository) sortedComponents() []*Component {
	out := make([]*Component, 0, len(m.components))
	for _, c := range m.components {
		out = append(out, m.withCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryRepository) ListComponents(ctx context.Context, f ComponentFilter) ([]*Component, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Component
	for _, c := range m.sortedComponents() {
		if f.CategoryID != nil && c.CategoryID != *f.CategoryID {
			continue
		}
		if f.CategorySlug != "" && c.CategorySlug != f.CategorySlug {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			desc := ""
			if c.Description != nil {
				desc = *c.Description
			}
			if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(desc), q) {
				continue
			}
		}
		if f.IsDefault != nil && c.IsDefault != *f.IsDefault {
			continue
		}
		if f.ArmType != "" && (c.ArmType == nil || (*c.ArmType != f.ArmType && *c.ArmType != "both")) {
			continue
		}
		matched = append(matched, c)
	}

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total || f.PageSize <= 0 {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryRepository) ListDefaults(ctx context.Context, armType string) ([]*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Component
	for _, c := range m.sortedComponents() {
		if !c.IsDefault {
			continue
		}
		if armType == "single" && (c.ArmType == nil || (*c.ArmType != "follower" && *c.ArmType != "both")) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryRepository) ListCategories(ctx context.Context) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) GetCategory(ctx context.Context, id int) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category")
	}
	out := *c
	return &out, nil
}

func (m *MemoryRepository) GetVendor(ctx context.Context, id int) (*Vendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vendors[id]
	if !ok {
		return nil, apperrors.NotFound("vendor")
	}
	out := *v
	return &out, nil
}

func (m *MemoryRepository) ListComponentIDs(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int
	for _, c := range m.sortedComponents() {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (m *MemoryRepository) CreateComponent(ctx context.Context, c *Component) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := m.AddComponent(*c)
	c.ID = stored.ID
	return nil
}

func (m *MemoryRepository) UpdateOfferPrice(ctx context.Context, offerID int, price float64, fetchedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.offers {
		if m.offers[i].ID == offerID {
			m.offers[i].Price = price
			m.offers[i].FetchedAt = fetchedAt
			return nil
		}
	}
	return apperrors.NotFound("offer")
}

func (m *MemoryRepository) UpsertCategory(ctx context.Context, c *Category) error {
	m.mu.Lock()
	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			c.ID = existing.ID
			*existing = *c
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	*c = m.AddCategory(*c)
	return nil
}

func (m *MemoryRepository) UpsertVendor(ctx context.Context, v *Vendor) error {
	m.mu.Lock()
	for _, existing := range m.vendors {
		if existing.Slug == v.Slug {
			v.ID = existing.ID
			*existing = *v
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	*v = m.AddVendor(*v)
	return nil
}

func (m *MemoryRepository) UpsertComponent(ctx context.Context, c *Component) error {
	m.mu.Lock()
	for _, existing := range m.components {
		if existing.Slug == c.Slug {
			c.ID = existing.ID
			*existing = *c
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	*c = m.AddComponent(*c)
	return nil
}

func (m *MemoryRepository) UpsertOffer(ctx context.Context, o *Offer) error {
	m.mu.Lock()
	for i := range m.offers {
		if m.offers[i].ComponentID == o.ComponentID && m.offers[i].VendorID == o.VendorID {
			o.ID = m.offers[i].ID
			m.offers[i] = *o
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	*o = m.AddOffer(*o)
	return nil
}
