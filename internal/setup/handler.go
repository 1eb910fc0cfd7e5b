package setup

import (
	"net/http"
	"strconv"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/httpx"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type Summary struct {
	SetupID                string               `json:"setup_id"`
	Profile                Profile              `json:"profile"`
	CurrentStep            int                  `json:"current_step"`
	WizardCompleted        bool                 `json:"wizard_completed"`
	ArmType                string               `json:"arm_type"`
	RecommendedComponents  []RecommendationItem `json:"recommended_components"`
	RecommendationSource   *string              `json:"recommendation_source,omitempty"`
	RecommendationsUpdated *time.Time           `json:"recommendations_generated_at,omitempty"`
	Components             []Selection          `json:"components"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
	ExpiresAt              *time.Time           `json:"expires_at,omitempty"`
}

func NewSummary(s *Setup) Summary {
	out := Summary{
		SetupID:         s.ID,
		Profile:         s.Profile,
		CurrentStep:     s.CurrentStep,
		WizardCompleted: s.WizardCompleted,
		ArmType:         s.ArmType,
		Components:      s.Selections,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		ExpiresAt:       s.ExpiresAt,
	}
	if out.Components == nil {
		out.Components = []Selection{}
	}
	if rec := s.Recommendations; rec != nil {
		out.RecommendedComponents = rec.Components
		out.RecommendationSource = &rec.Source
		out.RecommendationsUpdated = &rec.GeneratedAt
	}
	return out
}

// --------------------------------------------------
// Wizard
// --------------------------------------------------

// POST /wizard/start
func (h *Handler) Start(c *gin.Context) {
	st, err := h.service.Start(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"setup_id":     st.ID,
		"current_step": st.CurrentStep,
		"created_at":   st.CreatedAt,
	})
}

// PUT /wizard/:setup_id/step/:step
func (h *Handler) UpdateStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		httpx.Error(c, apperrors.InvalidInput("invalid step"))
		return
	}

	var req struct {
		StepData map[string]any `json:"step_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.StepData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st, err := h.service.UpdateStep(c.Request.Context(), c.Param("setup_id"), step, req.StepData)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSummary(st))
}

// GET /wizard/:setup_id/summary
func (h *Handler) Summary(c *gin.Context) {
	st, err := h.service.Get(c.Request.Context(), c.Param("setup_id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSummary(st))
}

// DELETE /wizard/:setup_id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("setup_id")); err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setup deleted successfully"})
}

// --------------------------------------------------
// Selections
// --------------------------------------------------

// PUT /wizard/:setup_id/components
func (h *Handler) SetSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ComponentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st, err := h.service.SetSelection(c.Request.Context(), c.Param("setup_id"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSummary(st))
}

// DELETE /wizard/:setup_id/components/:component_id
func (h *Handler) RemoveSelection(c *gin.Context) {
	componentID, err := httpx.IntParam(c, "component_id")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	st, err := h.service.RemoveSelection(c.Request.Context(), c.Param("setup_id"), componentID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSummary(st))
}
