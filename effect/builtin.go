package effect

// builtinSpecs are the effects shipped with backdrop. Base values are the
// full-quality settings; lower tiers scale them down.
var builtinSpecs = []Spec{
	{
		Type:     Particles,
		Base:     Tunables{Count: 120, Size: 2.5, Speed: 1.0},
		MinCount: 5,
		Fallback: Palette{Angle: 160, Stops: []Stop{
			{Offset: 0, Color: "#0b1026"},
			{Offset: 0.55, Color: "#1d2b64"},
			{Offset: 1, Color: "#3a1c71"},
		}},
	},
	{
		Type:     Waves,
		Base:     Tunables{Count: 24, Speed: 0.8, Frequency: 1.5, Amplitude: 40},
		MinCount: 3,
		Fallback: Palette{Angle: 180, Stops: []Stop{
			{Offset: 0, Color: "#021b33"},
			{Offset: 0.6, Color: "#06447a"},
			{Offset: 1, Color: "#0a7ea4"},
		}},
	},
	{
		Type:       Noise,
		Base:       Tunables{Octaves: 6, Speed: 0.5, Frequency: 2.0, Amplitude: 1.0},
		MinOctaves: 2,
		Fallback: Palette{Angle: 135, Stops: []Stop{
			{Offset: 0, Color: "#141e30"},
			{Offset: 1, Color: "#243b55"},
		}},
	},
	{
		Type:     Pixels,
		Base:     Tunables{Count: 64, PixelSize: 4, Speed: 1.0},
		MinCount: 4,
		Fallback: Palette{Angle: 90, Stops: []Stop{
			{Offset: 0, Color: "#12001f"},
			{Offset: 0.5, Color: "#2d0a4e"},
			{Offset: 1, Color: "#0f3057"},
		}},
	},
}

// Builtin returns a new registry holding the built-in effects.
func Builtin() *Registry {
	r := NewRegistry()
	for _, s := range builtinSpecs {
		if err := r.Register(s); err != nil {
			panic("effect: invalid builtin spec: " + err.Error())
		}
	}
	return r
}
