package recommendation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"so101builder/internal/apperrors"
	"so101builder/internal/llm"
	"so101builder/internal/logger"
	"so101builder/internal/setup"
)

// SetupStore is the slice of the setup service recommendations need.
type SetupStore interface {
	Get(ctx context.Context, id string) (*setup.Setup, error)
	SaveRecommendations(ctx context.Context, s *setup.Setup, rec *setup.Recommendations) error
}

type Service struct {
	setups   SetupStore
	resolver *Resolver
	log      *logger.Logger
}

func NewService(setups SetupStore, resolver *Resolver, log *logger.Logger) *Service {
	return &Service{setups: setups, resolver: resolver, log: log}
}

type GenerateRequest struct {
	SetupID     string         `json:"setup_id"`
	FocusAreas  []string       `json:"focus_areas"`
	Constraints map[string]any `json:"constraints"`
}

type Response struct {
	SetupID         string                     `json:"setup_id"`
	Recommendations []setup.RecommendationItem `json:"recommendations"`
	Summary         string                     `json:"summary"`
	EstimatedTotal  *float64                   `json:"estimated_total"`
	Notes           []string                   `json:"notes"`
	ExperienceNotes *string                    `json:"experience_notes"`
	BudgetNotes     *string                    `json:"budget_notes"`
	UseCaseNotes    *string                    `json:"use_case_notes"`
	Source          string                     `json:"source"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

func newResponse(setupID string, rec *setup.Recommendations) *Response {
	return &Response{
		SetupID:         setupID,
		Recommendations: rec.Components,
		Summary:         rec.Summary,
		EstimatedTotal:  rec.EstimatedTotal,
		Notes:           rec.Notes,
		ExperienceNotes: rec.ExperienceNotes,
		BudgetNotes:     rec.BudgetNotes,
		UseCaseNotes:    rec.UseCaseNotes,
		Source:          rec.Source,
		GeneratedAt:     rec.GeneratedAt,
	}
}

// Generate resolves and caches recommendations for a setup whose wizard is
// complete. It replaces whatever was cached before.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	st, err := s.setups.Get(ctx, req.SetupID)
	if err != nil {
		return nil, err
	}
	if !st.WizardCompleted {
		return nil, apperrors.Validation("Please complete the wizard first")
	}

	rec := s.resolver.Resolve(ctx, st.Profile, req.FocusAreas, req.Constraints)
	if err := s.setups.SaveRecommendations(ctx, st, rec); err != nil {
		return nil, err
	}

	s.log.Info("recommendations generated",
		"setup_id", st.ID,
		"source", rec.Source,
		"components", len(rec.Components),
	)
	return newResponse(st.ID, rec), nil
}

// Cached returns the stored result without resolving again.
func (s *Service) Cached(ctx context.Context, setupID string) (*Response, error) {
	st, err := s.setups.Get(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if st.Recommendations == nil {
		return nil, apperrors.NotFound("Recommendations")
	}
	return newResponse(st.ID, st.Recommendations), nil
}

// --------------------------------------------------
// Chat
// --------------------------------------------------

type ChatRequest struct {
	SetupID string        `json:"setup_id"`
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

type ChatResponse struct {
	Message                string                     `json:"message"`
	SuggestedActions       []map[string]any           `json:"suggested_actions"`
	UpdatedRecommendations []setup.RecommendationItem `json:"updated_recommendations"`
}

var chatFailureActions = []map[string]any{
	{"action": "retry", "label": "Try again"},
	{"action": "defaults", "label": "Use default recommendations"},
}

// Chat answers a question about a setup. A failed model call still produces
// a reply offering to retry or use the defaults.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.Validation("message is required")
	}
	st, err := s.setups.Get(ctx, req.SetupID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.resolver.timeout)
	defer cancel()

	text, err := s.resolver.client.Chat(callCtx, req.Message, req.History, llm.ChatSystemPrompt(chatContext(st)))
	if err != nil {
		s.log.Warn("chat model unavailable", "setup_id", st.ID, "error", err)
		return &ChatResponse{
			Message:          "I'm having trouble processing your request right now. Please try again in a moment.",
			SuggestedActions: chatFailureActions,
		}, nil
	}
	return parseChat(text), nil
}

func chatContext(st *setup.Setup) string {
	var parts []string
	if raw, err := json.Marshal(st.Profile); err == nil {
		parts = append(parts, "User Profile: "+string(raw))
	}
	if st.Recommendations != nil {
		if raw, err := json.Marshal(st.Recommendations); err == nil {
			parts = append(parts, "Current Recommendations: "+string(raw))
		}
	}
	return strings.Join(parts, "\n")
}

// parseChat reads a JSON reply when there is one and otherwise returns the
// text as the message.
func parseChat(text string) *ChatResponse {
	candidate := llm.ExtractJSON(text)
	if candidate == "" {
		return &ChatResponse{Message: text}
	}

	var data struct {
		Message                *string          `json:"message"`
		SuggestedActions       []map[string]any `json:"suggested_actions"`
		UpdatedRecommendations []rawItem        `json:"updated_recommendations"`
	}
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return &ChatResponse{Message: text}
	}

	out := &ChatResponse{Message: text, SuggestedActions: data.SuggestedActions}
	if data.Message != nil {
		out.Message = *data.Message
	}
	for _, item := range data.UpdatedRecommendations {
		out.UpdatedRecommendations = append(out.UpdatedRecommendations, defaultItem(item))
	}
	return out
}
