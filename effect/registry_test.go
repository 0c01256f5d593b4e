package effect

import (
	"errors"
	"slices"
	"testing"
)

func TestBuiltinTypes(t *testing.T) {
	got := Builtin().Types()
	want := []Type{Noise, Particles, Pixels, Waves}
	if !slices.Equal(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestBuiltinSpecsValid(t *testing.T) {
	for _, s := range builtinSpecs {
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", s.Type, err)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Builtin().Lookup("aurora")
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Lookup(aurora) error = %v, want ErrNotRegistered", err)
	}
}

func TestRegisterReplacesAndUnregister(t *testing.T) {
	r := NewRegistry()
	spec := Spec{
		Type:     "custom",
		Base:     Tunables{Count: 10},
		MinCount: 3,
		Fallback: Palette{Stops: []Stop{{Offset: 0, Color: "#000000"}}},
	}
	if err := r.Register(spec); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	spec.Base.Count = 20
	if err := r.Register(spec); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	got, err := r.Lookup("custom")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.Base.Count != 20 {
		t.Errorf("Base.Count = %d, want 20", got.Base.Count)
	}

	r.Unregister("custom")
	if _, err := r.Lookup("custom"); err == nil {
		t.Error("Lookup after Unregister should fail")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	r := Builtin()
	s, _ := r.Lookup(Particles)
	s.Fallback.Stops[0].Color = "#ffffff"

	again, _ := r.Lookup(Particles)
	if again.Fallback.Stops[0].Color == "#ffffff" {
		t.Error("mutating a looked-up spec changed the registry")
	}
}

func TestSpecValidate(t *testing.T) {
	stops := []Stop{{Offset: 0, Color: "#000"}}
	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"empty type", Spec{Fallback: Palette{Stops: stops}}, false},
		{"negative count", Spec{Type: "x", Base: Tunables{Count: -1}, Fallback: Palette{Stops: stops}}, false},
		{"min above base", Spec{Type: "x", Base: Tunables{Count: 2}, MinCount: 5, Fallback: Palette{Stops: stops}}, false},
		{"octaves min above base", Spec{Type: "x", Base: Tunables{Octaves: 1}, MinOctaves: 2, Fallback: Palette{Stops: stops}}, false},
		{"no stops", Spec{Type: "x"}, false},
		{"bad offset", Spec{Type: "x", Fallback: Palette{Stops: []Stop{{Offset: 2, Color: "#000"}}}}, false},
		{"ok", Spec{Type: "x", Base: Tunables{Count: 5}, MinCount: 3, Fallback: Palette{Stops: stops}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestShaderName(t *testing.T) {
	if got := (Spec{Type: Waves}).ShaderName(); got != "waves" {
		t.Errorf("ShaderName() = %q, want %q", got, "waves")
	}
	if got := (Spec{Type: Waves, Shader: "ocean"}).ShaderName(); got != "ocean" {
		t.Errorf("ShaderName() = %q, want %q", got, "ocean")
	}
}
