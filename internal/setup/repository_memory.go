package setup

import (
	"context"
	"sync"
	"time"

	"so101builder/internal/apperrors"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	setups map[string]*Setup
	now    func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		setups: make(map[string]*Setup),
		now:    time.Now,
	}
}

func clone(s *Setup) *Setup {
	out := *s
	out.Selections = append([]Selection(nil), s.Selections...)
	return &out
}

func (r *InMemoryRepository) Create(ctx context.Context, s *Setup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.setups[s.ID] = clone(s)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Setup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.setups[id]
	if !ok || s.Expired(r.now()) {
		return nil, apperrors.NotFound("Setup")
	}
	return clone(s), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, s *Setup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.setups[s.ID]
	if !ok {
		return apperrors.NotFound("Setup")
	}
	s.UpdatedAt = r.now()
	next := clone(s)
	// selections are owned by UpsertSelection / DeleteSelection
	next.Selections = stored.Selections
	r.setups[s.ID] = next
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.setups[id]; !ok {
		return apperrors.NotFound("Setup")
	}
	delete(r.setups, id)
	return nil
}

func (r *InMemoryRepository) UpsertSelection(ctx context.Context, setupID string, sel Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.setups[setupID]
	if !ok {
		return apperrors.NotFound("Setup")
	}
	for i := range s.Selections {
		if s.Selections[i].ComponentID == sel.ComponentID {
			sel.CreatedAt = s.Selections[i].CreatedAt
			s.Selections[i] = sel
			return nil
		}
	}
	sel.CreatedAt = r.now()
	s.Selections = append(s.Selections, sel)
	return nil
}

func (r *InMemoryRepository) DeleteSelection(ctx context.Context, setupID string, componentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.setups[setupID]
	if !ok {
		return apperrors.NotFound("Setup")
	}
	for i := range s.Selections {
		if s.Selections[i].ComponentID == componentID {
			s.Selections = append(s.Selections[:i], s.Selections[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("Setup component")
}

func (r *InMemoryRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.setups {
		if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			delete(r.setups, id)
			n++
		}
	}
	return n, nil
}
