package probe

// Headless is the platform seen while markup is generated ahead of time.
// It has no browser-like context, so Probe always returns Neutral for it.
type Headless struct{}

func (Headless) Interactive() bool                   { return false }
func (Headless) LogicalCores() (int, error)          { return 0, ErrUnknown }
func (Headless) DeviceMemoryGiB() (float64, error)   { return 0, ErrUnknown }
func (Headless) UserAgent() (string, error)          { return "", ErrUnknown }
func (Headless) PrefersReducedMotion() (bool, error) { return false, ErrUnknown }
func (Headless) GPUContext() (bool, error)           { return false, ErrUnknown }

// Static is a platform whose signals were reported by the host, for example
// forwarded from a browser bridge. Zero Cores or MemoryGiB mean "not reported".
type Static struct {
	Cores         int
	MemoryGiB     float64
	UA            string
	ReducedMotion bool
	GPU           bool
}

func (Static) Interactive() bool { return true }

func (s Static) LogicalCores() (int, error) {
	if s.Cores <= 0 {
		return 0, ErrUnknown
	}
	return s.Cores, nil
}

func (s Static) DeviceMemoryGiB() (float64, error) {
	if s.MemoryGiB <= 0 {
		return 0, ErrUnknown
	}
	return s.MemoryGiB, nil
}

func (s Static) UserAgent() (string, error)          { return s.UA, nil }
func (s Static) PrefersReducedMotion() (bool, error) { return s.ReducedMotion, nil }
func (s Static) GPUContext() (bool, error)           { return s.GPU, nil }

var (
	_ Platform = Headless{}
	_ Platform = Static{}
	_ Platform = Native{}
)
