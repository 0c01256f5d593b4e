package quality

import "fmt"

// Tier is the coarse rendering quality bucket a device is assigned to.
type Tier uint8

// Tiers in ascending order of quality.
const (
	// TierLow devices never run the heavy effect.
	TierLow Tier = iota
	// TierMedium devices run it at reduced density and frame rate.
	TierMedium
	// TierHigh devices run it at full settings.
	TierHigh
)

// Tier thresholds on the [0, 100] score: low below MediumThreshold,
// medium below HighThreshold, high otherwise.
const (
	MediumThreshold = 40
	HighThreshold   = 70
)

// TierFor returns the tier for a score value. It is monotonic non-decreasing.
func TierFor(value int) Tier {
	switch {
	case value < MediumThreshold:
		return TierLow
	case value < HighThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// String returns "low", "medium" or "high".
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
}

// ParseTier parses the String form of a tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	}
	return 0, fmt.Errorf("quality: unknown tier %q", s)
}

// Multiplier is the factor applied to base tunables: 0.5, 0.75 or 1.0.
func (t Tier) Multiplier() float64 {
	switch t {
	case TierMedium:
		return 0.75
	case TierHigh:
		return 1.0
	default:
		return 0.5
	}
}

// MaxPixelRatio caps the device pixel ratio the heavy renderer draws at.
func (t Tier) MaxPixelRatio() float64 {
	switch t {
	case TierMedium:
		return 1.5
	case TierHigh:
		return 2.0
	default:
		return 1.0
	}
}

// TargetFPS is the frame rate the heavy renderer aims for.
func (t Tier) TargetFPS() int {
	switch t {
	case TierMedium:
		return 45
	case TierHigh:
		return 60
	default:
		return 30
	}
}
