package probe

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/gogpu/gpucontext"
	"github.com/klauspost/cpuid/v2"
	"github.com/pbnjay/memory"
)

// EnvReducedMotion is the environment variable native hosts use to express
// the motion-reduction preference.
const EnvReducedMotion = "BACKDROP_REDUCED_MOTION"

// Native reports the signals of the current process, for hosts that embed
// the controller in a native shell.
type Native struct {
	// Device is a GPU device the host already owns. When it provides a
	// device the GPU probe is skipped and reports support.
	Device gpucontext.DeviceProvider

	// UA overrides the synthesized user agent.
	UA string

	// DisableGPU makes GPUContext report false without probing.
	DisableGPU bool
}

func (Native) Interactive() bool { return true }

func (Native) LogicalCores() (int, error) {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n, nil
	}
	if n := runtime.NumCPU(); n > 0 {
		return n, nil
	}
	return 0, ErrUnknown
}

func (Native) DeviceMemoryGiB() (float64, error) {
	total := memory.TotalMemory()
	if total == 0 {
		return 0, ErrUnknown
	}
	return float64(total) / (1 << 30), nil
}

func (n Native) UserAgent() (string, error) {
	if n.UA != "" {
		return n.UA, nil
	}
	goos := runtime.GOOS
	if goos == "ios" {
		goos = "iPhone OS"
	}
	return fmt.Sprintf("backdrop/%s (%s; %s)", runtime.Version(), goos, runtime.GOARCH), nil
}

func (Native) PrefersReducedMotion() (bool, error) {
	v, ok := os.LookupEnv(EnvReducedMotion)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q: %w", EnvReducedMotion, v, err)
	}
	return b, nil
}

func (n Native) GPUContext() (bool, error) {
	if n.DisableGPU {
		return false, nil
	}
	if n.Device != nil && n.Device.Device() != nil {
		return true, nil
	}
	return ProbeGPU(), nil
}
