// Package effect describes the animated background families a page can mount.
//
// An effect is identified by its Type and described by a Spec: the base
// tunables a high-tier device renders with, the minimum element counts that
// keep lower tiers from degenerating into an empty effect, and the static
// palette the fallback renders when the heavy renderer is not running.
//
// The tunables are opaque to the controller; only the heavy renderer
// interprets them.
package effect

import (
	"errors"
	"fmt"
)

// Type names an effect family, e.g. "particles".
type Type string

// Built-in effect types.
const (
	Particles Type = "particles"
	Waves     Type = "waves"
	Noise     Type = "noise"
	Pixels    Type = "pixels"
)

// Tunables are the numeric parameters of an effect.
// A zero field means the effect does not use it.
type Tunables struct {
	// Count is the number of animated elements (particles, wave lines, grid cells).
	Count int

	// Octaves is the number of layered noise octaves.
	Octaves int

	// PixelSize is the size of a rendered cell in CSS pixels. It is a
	// coarseness: lower tiers get larger cells.
	PixelSize int

	// Size is the element size in CSS pixels.
	Size float64

	// Speed is the animation speed multiplier.
	Speed float64

	// Frequency is the spatial frequency of waves or noise.
	Frequency float64

	// Amplitude is the displacement amplitude.
	Amplitude float64
}

// Stop is one color stop of a fallback palette.
type Stop struct {
	Offset float64 // in [0, 1]
	Color  string  // hex, e.g. "#0b1026"
}

// Palette is the static gradient shown when the effect is not running.
type Palette struct {
	// Angle is the CSS gradient angle in degrees.
	Angle float64
	Stops []Stop
}

// Spec describes one effect family.
type Spec struct {
	Type Type

	// Base are the tunables at full quality.
	Base Tunables

	// MinCount and MinOctaves floor the integer tunables at every tier.
	MinCount   int
	MinOctaves int

	// Shader is the name of the heavy renderer module for this effect.
	// Empty means the effect type name.
	Shader string

	// Fallback is rendered whenever the heavy renderer is not running.
	Fallback Palette
}

// ShaderName returns the module name used to load the heavy renderer.
func (s Spec) ShaderName() string {
	if s.Shader != "" {
		return s.Shader
	}
	return string(s.Type)
}

// Validate reports whether the spec is usable.
func (s Spec) Validate() error {
	if s.Type == "" {
		return errors.New("effect: spec has empty type")
	}
	if s.Base.Count < 0 || s.Base.Octaves < 0 || s.Base.PixelSize < 0 {
		return fmt.Errorf("effect %q: negative base tunable", s.Type)
	}
	if s.Base.Count > 0 && s.MinCount > s.Base.Count {
		return fmt.Errorf("effect %q: MinCount %d exceeds base count %d", s.Type, s.MinCount, s.Base.Count)
	}
	if s.Base.Octaves > 0 && s.MinOctaves > s.Base.Octaves {
		return fmt.Errorf("effect %q: MinOctaves %d exceeds base octaves %d", s.Type, s.MinOctaves, s.Base.Octaves)
	}
	if len(s.Fallback.Stops) == 0 {
		return fmt.Errorf("effect %q: fallback palette has no stops", s.Type)
	}
	for _, st := range s.Fallback.Stops {
		if st.Offset < 0 || st.Offset > 1 {
			return fmt.Errorf("effect %q: stop offset %g outside [0, 1]", s.Type, st.Offset)
		}
	}
	return nil
}
