// Package backdrop decides whether a decorative GPU background effect should
// run on the current device and drives it through its lifecycle.
//
// # Overview
//
// A Controller probes the device once, scores it and derives per-effect
// render settings. Each Mount is one placed effect: it starts as a static
// gradient, waits until it is visible, loads the heavy shader renderer after
// a short delay and swaps the gradient for a canvas once the renderer runs.
// Devices that score too low, that lack a GPU context or that prefer reduced
// motion keep the gradient.
//
// # Quick Start
//
//	import "github.com/gogpu/backdrop"
//
//	c := backdrop.New(probe.Native{})
//	defer c.Close()
//
//	m := c.Mount(backdrop.Props{Effect: effect.Waves}, nil)
//	fmt.Println(m.Markup()) // pre-render markup, always the gradient
//
//	m.Wait(ctx, activation.Ready)
//	fmt.Println(m.Markup()) // canvas when the effect is running
//
// # Lifecycle
//
// A mount moves forward only:
//
//	not-ready -> client-confirmed -> capability-checked -> visible -> loading -> ready
//
// capability-checked may settle in static, and loading or ready may settle in
// error. static and error are final. Dispose releases timers, the visibility
// observation and a running renderer at any point.
//
// # Fallback
//
// Every state other than ready renders the static gradient for the effect,
// so markup built before client evaluation matches the first client render.
// Load failures, start failures and runtime failures reported through
// Mount.Fail all end in the gradient, never in an empty element.
//
// # Configuration
//
// Options configure a Controller directly. ConfigFromEnv reads the
// BACKDROP_* environment variables and Config.Options turns them into
// options.
//
// # Logging
//
// backdrop is silent by default. SetLogger installs an slog.Logger shared by
// every package in the module; WithLogger overrides it for one Controller.
package backdrop
