package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/internal/memo"
)

// ErrUnknownEffect is returned when settings are requested for an effect
// type that is not registered.
var ErrUnknownEffect = errors.New("quality: unknown effect type")

// Settings are the concrete render parameters for one effect at one tier.
// Values are immutable and may be shared between mounts.
type Settings struct {
	Effect effect.Type
	Tier   Tier
	effect.Tunables

	// MaxPixelRatio caps the drawing buffer resolution.
	MaxPixelRatio float64

	// TargetFPS is the frame rate the renderer aims for.
	TargetFPS int

	// MouseInteraction enables pointer-reactive behavior. Only the high tier
	// allows it.
	MouseInteraction bool
}

// Derive computes settings for spec at tier t.
//
// Each tunable is base x multiplier. Integer counts are floored and clamped
// to the spec minimum; PixelSize is a coarseness and is divided instead, so
// lower tiers render fewer, larger cells.
func Derive(spec effect.Spec, t Tier) Settings {
	m := t.Multiplier()
	b := spec.Base
	return Settings{
		Effect: spec.Type,
		Tier:   t,
		Tunables: effect.Tunables{
			Count:     scaleCount(b.Count, m, spec.MinCount),
			Octaves:   scaleCount(b.Octaves, m, spec.MinOctaves),
			PixelSize: scaleCoarseness(b.PixelSize, m),
			Size:      b.Size * m,
			Speed:     b.Speed * m,
			Frequency: b.Frequency * m,
			Amplitude: b.Amplitude * m,
		},
		MaxPixelRatio:    t.MaxPixelRatio(),
		TargetFPS:        t.TargetFPS(),
		MouseInteraction: t == TierHigh,
	}
}

func scaleCount(base int, m float64, floor int) int {
	if base <= 0 {
		return 0
	}
	return max(int(math.Floor(float64(base)*m)), floor, 1)
}

func scaleCoarseness(base int, m float64) int {
	if base <= 0 {
		return 0
	}
	return int(math.Ceil(float64(base) / m))
}

type deriveKey struct {
	effect effect.Type
	tier   Tier
}

// Deriver derives settings from a registry and memoizes the results.
// Memoization lives as long as the Deriver; independent pages use
// independent Derivers.
type Deriver struct {
	registry *effect.Registry
	table    *memo.Table[deriveKey, Settings]
}

// NewDeriver creates a Deriver over r. A nil r uses effect.Default().
func NewDeriver(r *effect.Registry) *Deriver {
	if r == nil {
		r = effect.Default()
	}
	return &Deriver{
		registry: r,
		table:    memo.New[deriveKey, Settings](),
	}
}

// Derive returns the settings for effect et at tier t.
func (d *Deriver) Derive(et effect.Type, t Tier) (Settings, error) {
	return d.table.GetOrCreate(deriveKey{et, t}, func() (Settings, error) {
		spec, err := d.registry.Lookup(et)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %w", ErrUnknownEffect, err)
		}
		return Derive(spec, t), nil
	})
}

// Stats reports memoization usage.
func (d *Deriver) Stats() memo.Stats { return d.table.Stats() }
