// Package host presents an App on a real surface and feeds it input: a
// terminal, or an offscreen buffer written to PNG. The desktop window lives
// in the window subpackage.
package host

import (
	"fmt"
	"log/slog"
	"time"
)

// Options are shared by the hosts.
type Options struct {
	FPS       int
	MaxFrames int // 0 runs until quit
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// FPSCounter measures frames per second over one-second windows.
type FPSCounter struct {
	fps    float64
	frames int
	start  time.Time
	now    func() time.Time
}

// NewFPSCounter starts counting now.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{start: time.Now(), now: time.Now}
}

// Tick records one frame.
func (c *FPSCounter) Tick() {
	c.frames++
	t := c.now()
	if elapsed := t.Sub(c.start); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.start = t
	}
}

// FPS returns the rate measured over the last full window.
func (c *FPSCounter) FPS() float64 { return c.fps }

// StatusLine formats the one-line summary shown under the terminal view.
func StatusLine(fps float64, pitch, yaw float64, pick [4]float64, picked bool) string {
	s := fmt.Sprintf(" %3.0f FPS  pitch %+.2f yaw %+.2f", fps, pitch, yaw)
	if picked {
		s += fmt.Sprintf("  pick (%+.2f, %+.2f, %+.2f, %+.2f)", pick[0], pick[1], pick[2], pick[3])
	}
	return s + "  r reset  q quit"
}
