//go:build nogpu

package probe

// ProbeGPU always reports false in builds without GPU support.
func ProbeGPU() bool { return false }
