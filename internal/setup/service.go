package setup

import (
	"context"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/catalog"
	"so101builder/internal/logger"

	"github.com/google/uuid"
)

// ComponentLookup validates selections against the catalog.
// catalog.Repository satisfies it.
type ComponentLookup interface {
	GetComponent(ctx context.Context, id int) (*catalog.Component, error)
	GetVendor(ctx context.Context, id int) (*catalog.Vendor, error)
}

type Service struct {
	repo    Repository
	catalog ComponentLookup
	expiry  time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog ComponentLookup, expiry time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		expiry:  expiry,
		log:     log,
		now:     time.Now,
	}
}

// --------------------------------------------------
// Wizard
// --------------------------------------------------

func (s *Service) Start(ctx context.Context) (*Setup, error) {
	expires := s.now().Add(s.expiry)
	st := &Setup{
		ID:          uuid.New().String(),
		Profile:     Profile{ArmType: ArmSingle},
		CurrentStep: 1,
		ArmType:     ArmSingle,
		ExpiresAt:   &expires,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	s.log.Info("wizard started", "setup_id", st.ID)
	return st, nil
}

func (s *Service) UpdateStep(ctx context.Context, id string, step int, data map[string]any) (*Setup, error) {
	// step range is checked before the lookup so a bad step is a 400 even for unknown ids
	if step < 1 || step > 5 {
		return nil, apperrors.Validation("Step number must be between 1 and 5")
	}

	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ApplyStep(st, step, data); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.log.Debug("wizard step saved",
		"setup_id", st.ID,
		"step", step,
		"current_step", st.CurrentStep,
		"completed", st.WizardCompleted,
	)
	return st, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Setup, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("setup deleted", "setup_id", id)
	return nil
}

// SaveRecommendations overwrites the cached recommendation slot.
func (s *Service) SaveRecommendations(ctx context.Context, st *Setup, rec *Recommendations) error {
	st.Recommendations = rec
	return s.repo.Update(ctx, st)
}

// PurgeExpired deletes every setup past its expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.repo.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("expired setups purged", "count", n)
	}
	return n, nil
}

// --------------------------------------------------
// Selections
// --------------------------------------------------

type SelectionRequest struct {
	ComponentID      int     `json:"component_id"`
	Quantity         int     `json:"quantity"`
	Notes            *string `json:"notes"`
	SelectedVendorID *int    `json:"selected_vendor_id"`
}

func (s *Service) SetSelection(ctx context.Context, setupID string, req SelectionRequest) (*Setup, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	if _, err := s.repo.Get(ctx, setupID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetComponent(ctx, req.ComponentID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFoundIDs("Component", []int{req.ComponentID})
		}
		return nil, err
	}
	if req.SelectedVendorID != nil {
		if _, err := s.catalog.GetVendor(ctx, *req.SelectedVendorID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.Validation("Vendor not found")
			}
			return nil, err
		}
	}

	sel := Selection{
		ComponentID:      req.ComponentID,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		SelectedVendorID: req.SelectedVendorID,
	}
	if err := s.repo.UpsertSelection(ctx, setupID, sel); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, setupID)
}

func (s *Service) RemoveSelection(ctx context.Context, setupID string, componentID int) (*Setup, error) {
	if _, err := s.repo.Get(ctx, setupID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteSelection(ctx, setupID, componentID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, setupID)
}
