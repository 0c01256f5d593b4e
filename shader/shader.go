// Package shader is the heavy GPU renderer for backdrop effects.
//
// Each effect has a WGSL module with a full-screen vertex stage (vs_main)
// and a fragment stage (fs_main). A Loader compiles the module with naga on
// first use and hands out Programs, which drive a frame loop at the tier's
// target rate and deliver per-frame uniforms to a Sink.
package shader

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"

	"github.com/benbjohnson/clock"
	"github.com/gogpu/naga"

	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/internal/logging"
	"github.com/gogpu/backdrop/internal/memo"
)

//go:embed wgsl/*.wgsl
var builtinFS embed.FS

// Shader errors.
var (
	ErrMissingEntryPoint = errors.New("shader: missing entry point")
	ErrInvalidSPIRV      = errors.New("shader: invalid SPIR-V output")
)

// Entry point names every effect module must define.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

const spirvMagic = 0x07230203

var (
	vertexRe   = regexp.MustCompile(`@vertex\s+fn\s+` + VertexEntry + `\s*\(`)
	fragmentRe = regexp.MustCompile(`@fragment\s+fn\s+` + FragmentEntry + `\s*\(`)
)

// Builtin returns the embedded WGSL modules, one <name>.wgsl per effect.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "wgsl")
	if err != nil {
		panic(err)
	}
	return sub
}

// Module is a compiled effect shader.
type Module struct {
	Effect effect.Type
	Name   string
	Source string
	SPIRV  []uint32
}

// CompileFunc compiles WGSL source to SPIR-V bytes.
type CompileFunc func(source string) ([]byte, error)

// Loader compiles effect shaders and creates Programs. It implements
// activation.Loader.
type Loader struct {
	fsys     fs.FS
	compile  CompileFunc
	registry *effect.Registry
	sink     Sink
	clock    clock.Clock
	log      *slog.Logger
	modules  *memo.Table[effect.Type, *Module]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS reads WGSL modules from fsys instead of the embedded set.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) { l.fsys = fsys }
}

// WithCompiler replaces naga.Compile.
func WithCompiler(c CompileFunc) LoaderOption {
	return func(l *Loader) { l.compile = c }
}

// WithRegistry resolves effect types against r.
func WithRegistry(r *effect.Registry) LoaderOption {
	return func(l *Loader) { l.registry = r }
}

// WithSink delivers frames of every Program to s.
func WithSink(s Sink) LoaderOption {
	return func(l *Loader) { l.sink = s }
}

// WithClock drives frame loops from c.
func WithClock(c clock.Clock) LoaderOption {
	return func(l *Loader) { l.clock = c }
}

// WithLogger sets the loader's logger.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader over the embedded shaders and naga.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:     Builtin(),
		compile:  naga.Compile,
		registry: effect.Default(),
		sink:     Discard,
		clock:    clock.New(),
		modules:  memo.New[effect.Type, *Module](),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logging.Or(l.log)
	return l
}

// Module returns the compiled module for et, compiling it on first use.
// Failed compilations are retried on the next call.
func (l *Loader) Module(et effect.Type) (*Module, error) {
	return l.modules.GetOrCreate(et, func() (*Module, error) {
		return l.build(et)
	})
}

func (l *Loader) build(et effect.Type) (*Module, error) {
	spec, err := l.registry.Lookup(et)
	if err != nil {
		return nil, err
	}
	name := spec.ShaderName()
	src, err := fs.ReadFile(l.fsys, name+".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader: read %s: %w", name, err)
	}
	source := string(src)
	if !vertexRe.MatchString(source) {
		return nil, fmt.Errorf("%w: %s in %s.wgsl", ErrMissingEntryPoint, VertexEntry, name)
	}
	if !fragmentRe.MatchString(source) {
		return nil, fmt.Errorf("%w: %s in %s.wgsl", ErrMissingEntryPoint, FragmentEntry, name)
	}

	spirv, err := l.compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", name, err)
	}
	words, err := toWords(spirv)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", name, err)
	}
	l.log.Debug("shader: compiled", "effect", string(et), "module", name, "words", len(words))
	return &Module{Effect: et, Name: name, Source: source, SPIRV: words}, nil
}

// toWords converts little-endian SPIR-V bytes to words and checks the magic.
func toWords(b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}

// Load compiles the module for et and returns a Program ready to start.
func (l *Loader) Load(ctx context.Context, et effect.Type) (activation.Renderer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := l.Module(et)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewProgram(m, l.sink, l.clock), nil
}

// Stats reports module cache usage.
func (l *Loader) Stats() memo.Stats { return l.modules.Stats() }

var _ activation.Loader = (*Loader)(nil)
