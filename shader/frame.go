package shader

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/backdrop/quality"
)

// UniformSize is the byte size of the Uniforms block shared by all modules.
const UniformSize = 48

// Frame is one tick of a running Program.
type Frame struct {
	Index uint64

	// Time is seconds since the program started; Delta since the last frame.
	Time  float64
	Delta float64

	// Width and Height are the drawing buffer size in device pixels, after
	// the tier's pixel-ratio cap.
	Width, Height float64

	// Pointer is in drawing-buffer pixels. HasPointer is false when mouse
	// interaction is off or no position has been reported.
	PointerX, PointerY float64
	HasPointer         bool

	Settings quality.Settings
}

// Uniforms packs f into the WGSL Uniforms layout: resolution, pointer,
// time, speed, frequency, amplitude, count, size, octaves, pixel_size.
func (f Frame) Uniforms() [UniformSize / 4]float32 {
	px, py := float32(-1), float32(-1)
	if f.HasPointer {
		px, py = float32(f.PointerX), float32(f.PointerY)
	}
	s := f.Settings
	return [UniformSize / 4]float32{
		float32(f.Width), float32(f.Height),
		px, py,
		float32(f.Time),
		float32(s.Speed),
		float32(s.Frequency),
		float32(s.Amplitude),
		float32(s.Count),
		float32(s.Size),
		float32(s.Octaves),
		float32(s.PixelSize),
	}
}

// Bytes returns the little-endian uniform buffer contents.
func (f Frame) Bytes() []byte {
	u := f.Uniforms()
	b := make([]byte, UniformSize)
	for i, v := range u {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// Sink receives frames from running programs. Draw is called from the
// program's loop goroutine; a returned error or a panic stops the program
// and is reported as a runtime failure.
type Sink interface {
	Draw(m *Module, f Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m *Module, f Frame) error

// Draw calls fn.
func (fn SinkFunc) Draw(m *Module, f Frame) error { return fn(m, f) }

// Discard is a Sink that drops every frame.
var Discard Sink = SinkFunc(func(*Module, Frame) error { return nil })
