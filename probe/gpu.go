//go:build !nogpu

package probe

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/backdrop/internal/logging"
)

// gpuRoutes are tried in order; the first route that yields an adapter wins.
var gpuRoutes = []struct {
	name string
	try  func() error
}{
	{"hal-vulkan", probeHAL},
	{"core", probeCore},
}

// ProbeGPU reports whether a GPU adapter can be acquired by any route.
// Errors and panics from the GPU stack reduce to false.
func ProbeGPU() bool {
	log := logging.Logger()
	for _, r := range gpuRoutes {
		err := tryRoute(r.try)
		if err == nil {
			log.Debug("probe: GPU adapter available", "route", r.name)
			return true
		}
		log.Debug("probe: GPU route failed", "route", r.name, "err", err)
	}
	log.Warn("probe: GPU not available, heavy effects disabled")
	return false
}

func tryRoute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func probeHAL() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()
	if len(instance.EnumerateAdapters(nil)) == 0 {
		return errors.New("no GPU adapters found")
	}
	return nil
}

func probeCore() error {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	})
	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		logging.Logger().Debug("probe: adapter release failed", "err", err)
	}
	return nil
}
