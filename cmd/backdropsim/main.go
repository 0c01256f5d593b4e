// Command backdropsim is a terminal page simulator for backdrop.
//
// The terminal is a viewport onto a tall page with one backdrop mount per
// effect. Scrolling drives the visibility gate; each mount shows its fallback
// gradient until its effect is running. Keys: j/k or arrows scroll, PgUp/PgDn
// page, q or Esc quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/probe"
	"github.com/gogpu/backdrop/visibility"
)

// One terminal cell in CSS pixels.
const (
	colPx = 10.0
	rowPx = 20.0
)

const (
	headerRows = 4
	regionRows = 10
	gapRows    = 24
)

var devices = map[string]probe.Platform{
	"high":     probe.Static{Cores: 8, MemoryGiB: 16, UA: "Mozilla/5.0 (X11; Linux x86_64)", GPU: true},
	"mid":      probe.Static{Cores: 4, UA: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5)", GPU: true},
	"low":      probe.Static{Cores: 2, UA: "Mozilla/5.0 (Linux; Android 10) Mobile", GPU: true},
	"no-gpu":   probe.Static{Cores: 8, MemoryGiB: 16, UA: "Mozilla/5.0 (X11; Linux x86_64)"},
	"headless": probe.Headless{},
}

type region struct {
	top    int
	effect effect.Type
	box    *visibility.Box
	mount  *backdrop.Mount
}

type sim struct {
	screen  tcell.Screen
	ctrl    *backdrop.Controller
	view    *visibility.Viewport
	regions []*region

	width, height int
	scroll        int
	pageRows      int
	started       time.Time
}

func main() {
	var (
		envFile = flag.String("env", ".env", "dotenv file with BACKDROP_* settings")
		device  = flag.String("device", "high", "device profile: native, high, mid, low, no-gpu, headless")
		mouse   = flag.Bool("mouse", true, "enable mouse interaction")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}
	cfg, err := backdrop.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	p, ok := devices[*device]
	if *device == "native" {
		p, ok = probe.Native{DisableGPU: cfg.DisableGPU}, true
	}
	if !ok {
		log.Fatalf("Unknown device %q", *device)
	}

	s, err := newSim(p, cfg, *mouse)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	s.run()
	s.close()
}

func newSim(p probe.Platform, cfg backdrop.Config, mouse bool) (*sim, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	// The screen owns the terminal; logs go to a file when requested.
	if path := os.Getenv("BACKDROP_LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			backdrop.SetLogger(cfg.NewLogger(f))
		}
	}

	w, h := screen.Size()
	s := &sim{
		screen:  screen,
		view:    visibility.NewViewport(visibility.Rect{W: float64(w) * colPx, H: float64(h) * rowPx}),
		width:   w,
		height:  h,
		started: time.Now(),
	}
	opts := append(cfg.Options(), backdrop.WithObserver(s.view))
	s.ctrl = backdrop.New(p, opts...)

	row := headerRows + gapRows/2
	for _, et := range s.ctrl.Registry().Types() {
		r := &region{top: row, effect: et}
		r.box = visibility.NewBox(s.regionRect(r))
		r.mount = s.ctrl.Mount(backdrop.Props{Effect: et, EnableMouseInteraction: mouse}, r.box)
		s.regions = append(s.regions, r)
		row += regionRows + gapRows
	}
	s.pageRows = row
	return s, nil
}

func (s *sim) regionRect(r *region) visibility.Rect {
	return visibility.Rect{
		Y: float64(r.top) * rowPx,
		W: float64(s.width) * colPx,
		H: regionRows * rowPx,
	}
}

func (s *sim) close() {
	s.ctrl.Close()
	s.screen.Fini()
}

func (s *sim) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	s.draw()
	for {
		select {
		case ev := <-events:
			if !s.handle(ev) {
				return
			}
		case <-ticker.C:
		}
		s.draw()
	}
}

func (s *sim) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			s.scrollBy(-1)
		case tcell.KeyDown:
			s.scrollBy(1)
		case tcell.KeyPgUp:
			s.scrollBy(-s.height)
		case tcell.KeyPgDn:
			s.scrollBy(s.height)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'k':
				s.scrollBy(-1)
			case 'j':
				s.scrollBy(1)
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := float64(x)*colPx, float64(s.scroll+y)*rowPx
		for _, r := range s.regions {
			rect := r.box.Bounds()
			if rect.Contains(px, py) {
				r.mount.SetPointer(px-rect.X, py-rect.Y)
			}
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.view.Resize(float64(s.width)*colPx, float64(s.height)*rowPx)
		for _, r := range s.regions {
			r.box.Set(s.regionRect(r))
		}
		s.view.Refresh()
		s.screen.Sync()
	}
	return true
}

func (s *sim) scrollBy(rows int) {
	maxScroll := max(s.pageRows-s.height, 0)
	s.scroll = min(max(s.scroll+rows, 0), maxScroll)
	s.view.ScrollTo(0, float64(s.scroll)*rowPx)
}

func (s *sim) draw() {
	s.screen.Clear()
	for y := 0; y < s.height-1; y++ {
		s.drawRow(y, s.scroll+y)
	}
	s.drawStatus()
	s.screen.Show()
}

func (s *sim) drawRow(y, pageRow int) {
	if pageRow < headerRows {
		if pageRow == 1 {
			s.text(2, y, "backdrop page simulator", tcell.StyleDefault.Bold(true))
		}
		return
	}
	for _, r := range s.regions {
		if pageRow >= r.top && pageRow < r.top+regionRows {
			s.drawRegionRow(y, pageRow-r.top, r)
			return
		}
	}
	if pageRow%3 == 0 {
		dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
		s.text(4, y, "lorem ipsum dolor sit amet, consectetur adipiscing elit", dim)
	}
}

var shades = []rune(" ░▒▓")

func (s *sim) drawRegionRow(y, row int, r *region) {
	g := s.ctrl.Fallback().Gradient(r.effect)
	state := r.mount.State()
	t := time.Since(s.started).Seconds()

	for x := 0; x < s.width; x++ {
		c := g.ColorAt(float64(x) / float64(max(s.width-1, 1))).NRGBA()
		bg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		ch := ' '
		if state.Active() {
			ch = shades[(x+row+int(t*8))%len(shades)]
		}
		s.screen.SetContent(x, y, ch, nil, tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite))
	}
	if row == 0 {
		label := fmt.Sprintf(" %s  [%s] ", r.effect, state)
		if err := r.mount.Err(); err != nil {
			label += err.Error() + " "
		}
		s.text(2, y, label, tcell.StyleDefault.Reverse(true))
	}
}

func (s *sim) drawStatus() {
	score := s.ctrl.Score()
	ready := 0
	for _, r := range s.regions {
		if r.mount.State() == activation.Ready {
			ready++
		}
	}
	status := fmt.Sprintf(" score %d (%s)  eligible=%v  active %d/%d  row %d/%d  j/k scroll  q quit ",
		score.Value, score.Tier, s.ctrl.Eligible(), ready, len(s.regions), s.scroll, s.pageRows)
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < s.width; x++ {
		s.screen.SetContent(x, s.height-1, ' ', nil, style)
	}
	s.text(0, s.height-1, status, style)
}

func (s *sim) text(x, y int, str string, style tcell.Style) {
	for _, ch := range str {
		if x >= s.width {
			return
		}
		s.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
