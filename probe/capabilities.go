package probe

import "fmt"

// DefaultLogicalCores is used when the platform does not report a core count.
const DefaultLogicalCores = 2

// Capabilities describes what the visiting device reported about itself.
// A value is produced once per page and never re-probed.
type Capabilities struct {
	// LogicalCores is the logical CPU count, always >= 1.
	LogicalCores int

	// DeviceMemoryGiB is the reported device memory in GiB.
	// Zero means the platform did not report it; it is not "no memory".
	DeviceMemoryGiB float64

	// Mobile reports a mobile user agent. The match is a best-effort
	// heuristic that errs toward true.
	Mobile bool

	// GPUContext reports whether a GPU drawing context could be acquired.
	GPUContext bool

	// ReducedMotion is the platform's motion-reduction accessibility preference.
	ReducedMotion bool
}

// MemoryKnown reports whether the platform reported device memory.
func (c Capabilities) MemoryKnown() bool {
	return c.DeviceMemoryGiB > 0
}

// String returns a compact description for logs.
func (c Capabilities) String() string {
	mem := "unknown"
	if c.MemoryKnown() {
		mem = fmt.Sprintf("%gGiB", c.DeviceMemoryGiB)
	}
	return fmt.Sprintf("cores=%d memory=%s mobile=%t gpu=%t reduced_motion=%t",
		c.LogicalCores, mem, c.Mobile, c.GPUContext, c.ReducedMotion)
}

// Neutral returns the capabilities reported when no browser-like context
// exists, e.g. while markup is generated ahead of time. The values are
// constant and score in the medium tier, so every consumer that branches on
// them produces the same output on the server and on first client render.
func Neutral() Capabilities {
	return Capabilities{
		LogicalCores:    4,
		DeviceMemoryGiB: 0,
		Mobile:          false,
		GPUContext:      false,
		ReducedMotion:   false,
	}
}
