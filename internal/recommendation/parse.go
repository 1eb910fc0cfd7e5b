package recommendation

import (
	"encoding/json"
	"errors"

	"so101builder/internal/llm"
	"so101builder/internal/setup"
)

var (
	ErrNoJSON            = errors.New("response contains no JSON object")
	ErrMissingComponents = errors.New("response has no components list")
)

type rawItem struct {
	ComponentID   *int    `json:"component_id"`
	ComponentName *string `json:"component_name"`
	Category      *string `json:"category"`
	Reason        *string `json:"reason"`
	Priority      *string `json:"priority"`
	Quantity      *int    `json:"quantity"`
	Alternatives  []int   `json:"alternatives"`
}

type rawResult struct {
	Components      []rawItem `json:"components"`
	Summary         *string   `json:"summary"`
	EstimatedTotal  *float64  `json:"estimated_total"`
	Notes           []string  `json:"notes"`
	ExperienceNotes *string   `json:"experience_notes"`
	BudgetNotes     *string   `json:"budget_notes"`
	UseCaseNotes    *string   `json:"use_case_notes"`
}

// ParseRecommendations turns model output into a result in three stages:
// extract the candidate object, decode it strictly, then fill defaults.
// Every failure is returned as an error for the caller to fall back on.
func ParseRecommendations(text string) (*setup.Recommendations, error) {
	candidate, err := extractCandidate(text)
	if err != nil {
		return nil, err
	}
	raw, err := decodeStrict(candidate)
	if err != nil {
		return nil, err
	}
	return applyDefaults(raw), nil
}

func extractCandidate(text string) (string, error) {
	candidate := llm.ExtractJSON(text)
	if candidate == "" {
		return "", ErrNoJSON
	}
	return candidate, nil
}

func decodeStrict(candidate string) (*rawResult, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, err
	}
	if raw.Components == nil {
		return nil, ErrMissingComponents
	}
	return &raw, nil
}

func applyDefaults(raw *rawResult) *setup.Recommendations {
	out := &setup.Recommendations{
		Components:      make([]setup.RecommendationItem, 0, len(raw.Components)),
		EstimatedTotal:  raw.EstimatedTotal,
		Notes:           raw.Notes,
		ExperienceNotes: raw.ExperienceNotes,
		BudgetNotes:     raw.BudgetNotes,
		UseCaseNotes:    raw.UseCaseNotes,
	}
	if raw.Summary != nil {
		out.Summary = *raw.Summary
	}
	if out.Notes == nil {
		out.Notes = []string{}
	}
	for _, item := range raw.Components {
		out.Components = append(out.Components, defaultItem(item))
	}
	return out
}

func defaultItem(r rawItem) setup.RecommendationItem {
	item := setup.RecommendationItem{
		ComponentName: "Unknown",
		Category:      "other",
		Priority:      setup.PriorityRecommended,
		Quantity:      1,
		Alternatives:  r.Alternatives,
	}
	if r.ComponentID != nil {
		item.ComponentID = *r.ComponentID
	}
	if r.ComponentName != nil {
		item.ComponentName = *r.ComponentName
	}
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.Reason != nil {
		item.Reason = *r.Reason
	}
	if r.Priority != nil {
		item.Priority = *r.Priority
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	if item.Alternatives == nil {
		item.Alternatives = []int{}
	}
	return item
}
