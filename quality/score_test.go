package quality

import (
	"testing"

	"github.com/gogpu/backdrop/probe"
)

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name      string
		caps      probe.Capabilities
		wantValue int
		wantTier  Tier
		eligible  bool
	}{
		{
			name:      "desktop workstation",
			caps:      probe.Capabilities{LogicalCores: 8, DeviceMemoryGiB: 8, GPUContext: true},
			wantValue: 80,
			wantTier:  TierHigh,
			eligible:  true,
		},
		{
			name:      "budget phone without memory signal",
			caps:      probe.Capabilities{LogicalCores: 2, Mobile: true, GPUContext: true},
			wantValue: 37,
			wantTier:  TierLow,
			eligible:  false,
		},
		{
			name:      "laptop without gpu",
			caps:      probe.Capabilities{LogicalCores: 8, DeviceMemoryGiB: 16},
			wantValue: 70,
			wantTier:  TierHigh,
			eligible:  false,
		},
		{
			name:      "reduced motion workstation",
			caps:      probe.Capabilities{LogicalCores: 8, DeviceMemoryGiB: 8, GPUContext: true, ReducedMotion: true},
			wantValue: 60,
			wantTier:  TierMedium,
			eligible:  false,
		},
		{
			name:      "neutral",
			caps:      probe.Neutral(),
			wantValue: 52,
			wantTier:  TierMedium,
			eligible:  false,
		},
		{
			name:      "floor",
			caps:      probe.Capabilities{LogicalCores: 1, DeviceMemoryGiB: 1, Mobile: true, ReducedMotion: true},
			wantValue: 0,
			wantTier:  TierLow,
			eligible:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreCapabilities(tt.caps)
			if s.Value != tt.wantValue || s.Tier != tt.wantTier {
				t.Errorf("ScoreCapabilities() = %+v, want {Value:%d Tier:%s}", s, tt.wantValue, tt.wantTier)
			}
			if got := Eligible(tt.caps, s); got != tt.eligible {
				t.Errorf("Eligible() = %v, want %v", got, tt.eligible)
			}
		})
	}
}

// allCapabilities enumerates a grid of capability inputs.
func allCapabilities() []probe.Capabilities {
	var out []probe.Capabilities
	bools := []bool{false, true}
	for _, cores := range []int{1, 2, 3, 4, 6, 8, 16, 64} {
		for _, mem := range []float64{0, 0.5, 1, 2, 4, 6, 8, 32} {
			for _, mobile := range bools {
				for _, gpu := range bools {
					for _, reduced := range bools {
						out = append(out, probe.Capabilities{
							LogicalCores:    cores,
							DeviceMemoryGiB: mem,
							Mobile:          mobile,
							GPUContext:      gpu,
							ReducedMotion:   reduced,
						})
					}
				}
			}
		}
	}
	return out
}

func TestScoreBounded(t *testing.T) {
	for _, caps := range allCapabilities() {
		s := ScoreCapabilities(caps)
		if s.Value < 0 || s.Value > 100 {
			t.Errorf("ScoreCapabilities(%v) = %d, outside [0, 100]", caps, s.Value)
		}
		if s.Tier != TierFor(s.Value) {
			t.Errorf("tier %s does not match TierFor(%d)", s.Tier, s.Value)
		}
	}
}

func TestTierMonotonic(t *testing.T) {
	prev := TierFor(0)
	for v := 1; v <= 100; v++ {
		cur := TierFor(v)
		if cur < prev {
			t.Fatalf("TierFor(%d) = %s < TierFor(%d) = %s", v, cur, v-1, prev)
		}
		prev = cur
	}
	if TierFor(MediumThreshold-1) != TierLow || TierFor(MediumThreshold) != TierMedium {
		t.Error("medium threshold boundary wrong")
	}
	if TierFor(HighThreshold-1) != TierMedium || TierFor(HighThreshold) != TierHigh {
		t.Error("high threshold boundary wrong")
	}
}

func TestUnknownMemoryNeverLowersScore(t *testing.T) {
	for _, caps := range allCapabilities() {
		if caps.MemoryKnown() {
			continue
		}
		for _, mid := range []float64{4, 6} {
			known := caps
			known.DeviceMemoryGiB = mid
			if ScoreCapabilities(caps).Value < ScoreCapabilities(known).Value {
				t.Errorf("unknown memory scored below %gGiB for %v", mid, caps)
			}
		}
	}
}

func TestReducedMotionNeverEligible(t *testing.T) {
	for _, caps := range allCapabilities() {
		if !caps.ReducedMotion {
			continue
		}
		if Eligible(caps, ScoreCapabilities(caps)) {
			t.Errorf("Eligible(%v) = true with reduced motion", caps)
		}
	}
}

func TestNoGPUNeverEligible(t *testing.T) {
	for _, caps := range allCapabilities() {
		if caps.GPUContext {
			continue
		}
		if Eligible(caps, ScoreCapabilities(caps)) {
			t.Errorf("Eligible(%v) = true without GPU", caps)
		}
	}
}

func TestMobileNeverRaisesTier(t *testing.T) {
	for _, caps := range allCapabilities() {
		if caps.Mobile {
			continue
		}
		mobile := caps
		mobile.Mobile = true
		if ScoreCapabilities(mobile).Tier > ScoreCapabilities(caps).Tier {
			t.Errorf("mobile raised tier for %v", caps)
		}
	}
}

func TestTierString(t *testing.T) {
	for _, tier := range []Tier{TierLow, TierMedium, TierHigh} {
		got, err := ParseTier(tier.String())
		if err != nil || got != tier {
			t.Errorf("ParseTier(%q) = %v, %v", tier.String(), got, err)
		}
	}
	if _, err := ParseTier("ultra"); err == nil {
		t.Error("ParseTier(ultra) should fail")
	}
	if got := Tier(9).String(); got != "Tier(9)" {
		t.Errorf("Tier(9).String() = %q", got)
	}
}
