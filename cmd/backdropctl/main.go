// Command backdropctl inspects what backdrop decides for a device.
//
// It prints the probed capabilities, the score and tier, the settings for an
// effect and the pre-render markup of a mount. With -activate it drives the
// mount through its lifecycle and prints the transitions; with -preview it
// writes the effect's fallback gradient to a PNG file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/probe"
)

func main() {
	var (
		envFile   = flag.String("env", ".env", "dotenv file with BACKDROP_* settings")
		effectArg = flag.String("effect", string(effect.Particles), "effect type")
		platform  = flag.String("platform", "native", "platform: native, headless or static")
		cores     = flag.Int("cores", 0, "static platform: logical cores (0 = unknown)")
		memory    = flag.Float64("memory", 0, "static platform: device memory in GiB (0 = unknown)")
		ua        = flag.String("ua", "", "static platform: user agent")
		gpu       = flag.Bool("gpu", false, "static platform: GPU context available")
		reduced   = flag.Bool("reduced-motion", false, "static platform: prefers reduced motion")
		mouse     = flag.Bool("mouse", false, "enable mouse interaction")
		activate  = flag.Bool("activate", false, "run the mount lifecycle and print transitions")
		timeout   = flag.Duration("timeout", 5*time.Second, "activation timeout")
		preview   = flag.String("preview", "", "write the fallback gradient to this PNG file")
		width     = flag.Int("width", 640, "preview width")
		height    = flag.Int("height", 360, "preview height")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}
	cfg, err := backdrop.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	backdrop.SetLogger(cfg.NewLogger(os.Stderr))

	var p probe.Platform
	switch *platform {
	case "native":
		p = probe.Native{DisableGPU: cfg.DisableGPU}
	case "headless":
		p = probe.Headless{}
	case "static":
		p = probe.Static{Cores: *cores, MemoryGiB: *memory, UA: *ua, GPU: *gpu, ReducedMotion: *reduced}
	default:
		log.Fatalf("Unknown platform %q", *platform)
	}

	c := backdrop.New(p, cfg.Options()...)
	defer c.Close()

	et := effect.Type(*effectArg)
	score := c.Score()
	fmt.Printf("capabilities: %v\n", c.Capabilities())
	fmt.Printf("score:        %d (%s)\n", score.Value, score.Tier)
	fmt.Printf("eligible:     %v\n", c.Eligible())
	if s, err := c.Settings(et); err != nil {
		fmt.Printf("settings:     %v\n", err)
	} else {
		fmt.Printf("settings:     %+v\n", s)
	}

	props := backdrop.Props{Effect: et, EnableMouseInteraction: *mouse}

	// A headless controller never leaves not-ready.
	pre := backdrop.New(probe.Headless{}, cfg.Options()...)
	fmt.Printf("markup:       %s\n", pre.Mount(props, nil).Markup())
	pre.Close()

	m := c.Mount(props, nil)

	if *activate {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		state, err := m.Wait(ctx, activation.Ready)
		cancel()
		for _, t := range m.Transitions() {
			fmt.Printf("  %s -> %s\n", t.From, t.To)
		}
		fmt.Printf("final state:  %s\n", state)
		if err != nil {
			fmt.Printf("wait:         %v\n", err)
		}
		if err := m.Err(); err != nil {
			fmt.Printf("failure:      %v\n", err)
		}
		fmt.Printf("markup:       %s\n", m.Markup())
	}

	if *preview != "" {
		if err := writePreview(c, et, *preview, *width, *height); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Preview saved to %s (%dx%d)\n", *preview, *width, *height)
	}
}

func writePreview(c *backdrop.Controller, et effect.Type, path string, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	img := c.Fallback().Gradient(et).Preview(w, h)
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
