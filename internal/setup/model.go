package setup

import "time"

const (
	ArmSingle = "single"
	ArmDual   = "dual"

	// CompletedStep is the step value once all five wizard steps are answered.
	CompletedStep = 6
)

// Profile holds the wizard answers. Unanswered fields are nil.
type Profile struct {
	Experience       *string `json:"experience"`
	Budget           *int    `json:"budget"`
	UseCase          *string `json:"use_case"`
	ComputePlatform  *string `json:"compute_platform"`
	CameraPreference *string `json:"camera_preference"`
	ArmType          string  `json:"arm_type"`
}

func (p Profile) Arm() string {
	if p.ArmType == ArmDual {
		return ArmDual
	}
	return ArmSingle
}

func (p Profile) Camera() string {
	if p.CameraPreference == nil {
		return ""
	}
	return *p.CameraPreference
}

// Setup is one anonymous build session.
type Setup struct {
	ID              string           `json:"setup_id"`
	Name            *string          `json:"name,omitempty"`
	Profile         Profile          `json:"profile"`
	CurrentStep     int              `json:"current_step"`
	WizardCompleted bool             `json:"wizard_completed"`
	ArmType         string           `json:"arm_type"`
	Recommendations *Recommendations `json:"recommendations"`
	Selections      []Selection      `json:"components"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
}

func (s *Setup) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Selection is an explicit component choice that overrides recommendations.
type Selection struct {
	ComponentID      int       `json:"component_id"`
	Quantity         int       `json:"quantity"`
	Notes            *string   `json:"notes,omitempty"`
	SelectedVendorID *int      `json:"selected_vendor_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

const (
	PriorityRequired    = "required"
	PriorityRecommended = "recommended"
	PriorityOptional    = "optional"

	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

type RecommendationItem struct {
	ComponentID   int    `json:"component_id"`
	ComponentName string `json:"component_name"`
	Category      string `json:"category"`
	Reason        string `json:"reason"`
	Priority      string `json:"priority"`
	Quantity      int    `json:"quantity"`
	Alternatives  []int  `json:"alternatives"`
}

// Recommendations is the resolver output cached on a Setup. Source and
// GeneratedAt let callers decide when a cached result is stale.
type Recommendations struct {
	Components      []RecommendationItem `json:"components"`
	Summary         string               `json:"summary"`
	EstimatedTotal  *float64             `json:"estimated_total,omitempty"`
	Notes           []string             `json:"notes"`
	ExperienceNotes *string              `json:"experience_notes,omitempty"`
	BudgetNotes     *string              `json:"budget_notes,omitempty"`
	UseCaseNotes    *string              `json:"use_case_notes,omitempty"`
	Source          string               `json:"source"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
