package recommendation

import "so101builder/internal/setup"

const (
	summaryDual   = "Default SO-101 dual-arm (leader + follower) build configuration."
	summarySingle = "Default SO-101 single-arm (follower) build configuration."
)

var fallbackNotes = []string{
	"These are the standard components recommended in the LeRobot documentation.",
	"Prices may vary by vendor - check multiple sources for best deals.",
}

func required(id int, name, category, reason string, qty int) setup.RecommendationItem {
	return setup.RecommendationItem{
		ComponentID:   id,
		ComponentName: name,
		Category:      category,
		Reason:        reason,
		Priority:      setup.PriorityRequired,
		Quantity:      qty,
		Alternatives:  []int{},
	}
}

func cameraItem(id int, name, reason string) setup.RecommendationItem {
	return setup.RecommendationItem{
		ComponentID:   id,
		ComponentName: name,
		Category:      "cameras",
		Reason:        reason,
		Priority:      setup.PriorityRecommended,
		Quantity:      1,
		Alternatives:  []int{},
	}
}

// Fallback is the rule-based build list. It depends only on the arm type and
// camera preference and returns identical output for identical input.
// Source and GeneratedAt are left for the caller to stamp.
func Fallback(p setup.Profile) *setup.Recommendations {
	dual := p.Arm() == setup.ArmDual

	var items []setup.RecommendationItem
	if dual {
		items = append(items,
			required(1, "Feetech STS3215 (1/345 gear ratio)", "motors", "Default follower arm motor for SO-101", 6),
			required(2, "Feetech STS3215 (1/191 gear ratio)", "motors", "Leader arm joints 1 and 3", 2),
			required(3, "Feetech STS3215 (1/345 gear ratio)", "motors", "Leader arm joint 2", 1),
			required(4, "Feetech STS3215 (1/147 gear ratio)", "motors", "Leader arm joints 4, 5, and 6", 3),
		)
	} else {
		items = append(items,
			required(1, "Feetech STS3215 (1/345 gear ratio)", "motors", "Default motor for all SO-101 follower arm joints", 6),
		)
	}

	perArm := 1
	if dual {
		perArm = 2
	}
	items = append(items,
		required(5, "Waveshare Servo Driver Board", "electronics", "Controls servo motors via USB", perArm),
		required(6, "12V 5A Power Supply", "power", "Powers the servo motors", perArm),
		required(7, "3-Pin Servo Cables", "cables", "Connects motors to driver board", 5*perArm),
	)

	// an unanswered camera question counts as basic
	camera := "basic"
	if p.CameraPreference != nil {
		camera = *p.CameraPreference
	}
	switch camera {
	case "basic":
		items = append(items, cameraItem(8, "USB Webcam (OpenCV compatible)", "Basic camera for visual feedback"))
	case "realsense":
		items = append(items, cameraItem(9, "Intel RealSense D435", "Depth camera for 3D perception"))
	}

	summary := summarySingle
	if dual {
		summary = summaryDual
	}

	return &setup.Recommendations{
		Components: items,
		Summary:    summary,
		Notes:      append([]string(nil), fallbackNotes...),
	}
}
