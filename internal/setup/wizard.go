package setup

import (
	"math"
	"sort"

	"so101builder/internal/apperrors"
)

// Steps maps a wizard step number to the profile key it collects.
var Steps = map[int]string{
	1: "experience",
	2: "budget",
	3: "use_case",
	4: "compute_platform",
	5: "camera_preference",
}

var enumValues = map[string][]string{
	"experience":        {"beginner", "intermediate", "advanced"},
	"use_case":          {"learning", "research", "production"},
	"compute_platform":  {"cuda", "mps", "xpu", "cpu"},
	"camera_preference": {"basic", "realsense", "multiple", "phone"},
	"arm_type":          {ArmSingle, ArmDual},
}

const (
	minBudget = 200
	maxBudget = 2000
)

// ApplyStep merges step data into the setup's profile and advances
// CurrentStep. Revisiting an earlier step never moves CurrentStep back.
// The setup is left untouched when validation fails.
func ApplyStep(s *Setup, step int, data map[string]any) error {
	if step < 1 || step > 5 {
		return apperrors.Validation("Step number must be between 1 and 5")
	}

	profile := s.Profile
	if err := profile.Merge(data); err != nil {
		return err
	}
	s.Profile = profile

	if step >= s.CurrentStep {
		s.CurrentStep = min(step+1, CompletedStep)
	}
	if s.CurrentStep > 5 {
		s.WizardCompleted = true
	}
	if _, ok := data["arm_type"]; ok {
		s.ArmType = s.Profile.Arm()
	}
	return nil
}

// Merge validates every key before writing any of them.
func (p *Profile) Merge(data map[string]any) error {
	next := *p

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := data[key]
		if key == "budget" {
			b, err := parseBudget(value)
			if err != nil {
				return err
			}
			next.Budget = b
			continue
		}

		allowed, ok := enumValues[key]
		if !ok {
			return apperrors.Validationf("unknown profile field %q", key)
		}

		var str *string
		if value != nil {
			s, ok := value.(string)
			if !ok || !contains(allowed, s) {
				return apperrors.Validationf("%s must be one of %v", key, allowed)
			}
			str = &s
		}

		switch key {
		case "experience":
			next.Experience = str
		case "use_case":
			next.UseCase = str
		case "compute_platform":
			next.ComputePlatform = str
		case "camera_preference":
			next.CameraPreference = str
		case "arm_type":
			next.ArmType = ArmSingle
			if str != nil {
				next.ArmType = *str
			}
		}
	}

	*p = next
	return nil
}

func parseBudget(value any) (*int, error) {
	if value == nil {
		return nil, nil
	}
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return nil, apperrors.Validation("budget must be a number")
	}
	if f != math.Trunc(f) {
		return nil, apperrors.Validation("budget must be a whole number")
	}
	if f < minBudget || f > maxBudget {
		return nil, apperrors.Validationf("budget must be between %d and %d", minBudget, maxBudget)
	}
	b := int(f)
	return &b, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
