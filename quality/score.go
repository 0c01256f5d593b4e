// Package quality turns device capabilities into a performance score, a tier
// and per-effect render settings.
//
// Everything here is a pure function of its inputs. The Deriver adds
// memoization scoped to its own lifetime; create one per page.
package quality

import "github.com/gogpu/backdrop/probe"

// Score weights. Unknown memory earns the mid-range band so that a missing
// signal is never a penalty.
const (
	scoreBase = 25

	coresHigh = 25 // >= 8 cores
	coresMid  = 15 // >= 4 cores
	coresLow  = 5  // >= 2 cores

	memoryHigh    = 20 // >= 8 GiB
	memoryMid     = 12 // >= 4 GiB
	memoryLow     = 4  // >= 2 GiB
	memoryUnknown = memoryMid

	mobilePenalty        = 15
	gpuBonus             = 10
	reducedMotionPenalty = 20
)

// Score is a bounded performance score and its tier.
type Score struct {
	Value int // in [0, 100]
	Tier  Tier
}

// ScoreCapabilities computes the score for caps.
func ScoreCapabilities(caps probe.Capabilities) Score {
	v := scoreBase + coreBonus(caps.LogicalCores) + memoryBonus(caps)
	if caps.Mobile {
		v -= mobilePenalty
	}
	if caps.GPUContext {
		v += gpuBonus
	}
	if caps.ReducedMotion {
		v -= reducedMotionPenalty
	}
	v = min(max(v, 0), 100)
	return Score{Value: v, Tier: TierFor(v)}
}

func coreBonus(cores int) int {
	switch {
	case cores >= 8:
		return coresHigh
	case cores >= 4:
		return coresMid
	case cores >= 2:
		return coresLow
	default:
		return 0
	}
}

func memoryBonus(caps probe.Capabilities) int {
	if !caps.MemoryKnown() {
		return memoryUnknown
	}
	switch gib := caps.DeviceMemoryGiB; {
	case gib >= 8:
		return memoryHigh
	case gib >= 4:
		return memoryMid
	case gib >= 2:
		return memoryLow
	default:
		return 0
	}
}

// Eligible reports whether the heavy effect may be attempted at all.
// Reduced motion and a missing GPU context always disqualify.
func Eligible(caps probe.Capabilities, s Score) bool {
	return s.Tier != TierLow && caps.GPUContext && !caps.ReducedMotion
}
