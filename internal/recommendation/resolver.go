package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"so101builder/internal/llm"
	"so101builder/internal/logger"
	"so101builder/internal/setup"
)

// Resolver turns a profile into recommendations. The model gets one attempt
// under a timeout; anything short of a parseable answer yields Fallback.
type Resolver struct {
	client  llm.Client
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewResolver(client llm.Client, timeout time.Duration, log *logger.Logger) *Resolver {
	if client == nil {
		client = llm.Disabled{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{client: client, timeout: timeout, log: log, now: time.Now}
}

// Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, p setup.Profile, focusAreas []string, constraints map[string]any) *setup.Recommendations {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, err := r.generate(callCtx, p, focusAreas, constraints)
	if err != nil {
		r.log.Warn("recommendation model unavailable, using defaults", "error", err)
		rec = Fallback(p)
		rec.Source = setup.SourceFallback
	} else {
		rec.Source = setup.SourceLLM
	}
	rec.GeneratedAt = r.now().UTC()
	return rec
}

func (r *Resolver) generate(ctx context.Context, p setup.Profile, focusAreas []string, constraints map[string]any) (*setup.Recommendations, error) {
	text, err := r.client.Generate(ctx, BuildPrompt(p, focusAreas, constraints), llm.RecommendationSystemPrompt)
	if err != nil {
		return nil, err
	}
	return ParseRecommendations(text)
}

// BuildPrompt formats the profile for the model and spells out the JSON
// shape ParseRecommendations expects back.
func BuildPrompt(p setup.Profile, focusAreas []string, constraints map[string]any) string {
	var b strings.Builder

	b.WriteString("Based on the following user profile, recommend components for an SO-101 robot arm build:\n\n")
	b.WriteString("**User Profile:**\n")
	fmt.Fprintf(&b, "- Experience Level: %s\n", orUnset(p.Experience))
	if p.Budget != nil {
		fmt.Fprintf(&b, "- Budget: $%d\n", *p.Budget)
	} else {
		b.WriteString("- Budget: Not specified\n")
	}
	fmt.Fprintf(&b, "- Use Case: %s\n", orUnset(p.UseCase))
	fmt.Fprintf(&b, "- Compute Platform: %s\n", orUnset(p.ComputePlatform))
	fmt.Fprintf(&b, "- Camera Preference: %s\n", orUnset(p.CameraPreference))
	fmt.Fprintf(&b, "- Arm Type: %s (single = follower only, dual = leader + follower)\n", p.Arm())

	if len(focusAreas) > 0 {
		fmt.Fprintf(&b, "\n**Focus Areas:** %s\n", strings.Join(focusAreas, ", "))
	}
	if len(constraints) > 0 {
		if raw, err := json.Marshal(constraints); err == nil {
			fmt.Fprintf(&b, "\n**Additional Constraints:** %s\n", raw)
		}
	}

	b.WriteString(`
Please provide:
1. A list of recommended components with quantities and reasons
2. A summary of the build
3. Any notes based on the user's experience level and budget
4. Estimated total cost if possible

Format your response as JSON with this structure:
{
    "components": [
        {
            "component_id": <int>,
            "component_name": "<name>",
            "category": "<category>",
            "reason": "<why this component>",
            "priority": "required|recommended|optional",
            "quantity": <int>,
            "alternatives": [<component_ids>]
        }
    ],
    "summary": "<build summary>",
    "estimated_total": <float or null>,
    "notes": ["<note1>", "<note2>"],
    "experience_notes": "<advice based on experience level>",
    "budget_notes": "<notes about budget allocation>",
    "use_case_notes": "<notes specific to use case>"
}
`)
	return b.String()
}

func orUnset(v *string) string {
	if v == nil {
		return "Not specified"
	}
	return *v
}
