package host

import (
	"context"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/quadview/internal/config"
	"github.com/taigrr/quadview/pkg/app"
	"github.com/taigrr/quadview/pkg/canvas"
	"github.com/taigrr/quadview/pkg/gpu"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(config.Default(), canvas.New(0, 0, 1))
	if err != nil {
		if errors.Is(err, gpu.ErrCompile) && strings.Contains(err.Error(), "not yet implemented") {
			t.Skipf("naga limitation: %v", err)
		}
		t.Fatalf("app.New: %v", err)
	}
	return a
}

func TestRunHeadlessWritesSnapshot(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "out.png")
	cfg := config.Headless{
		Width:    64,
		Height:   48,
		Frames:   2,
		Snapshot: path,
		Pointer:  []config.Point{{X: 48, Y: 12}},
	}

	if err := RunHeadless(context.Background(), a, cfg, Options{FPS: 60}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if got := a.FrameCount(); got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
	if _, ok := a.LastPick(); !ok {
		t.Error("scripted pointer did not pick")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("snapshot = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestRunHeadlessScriptedDrag(t *testing.T) {
	a := newTestApp(t)
	cfg := config.Headless{
		Width:  40,
		Height: 40,
		Frames: 3,
		Pointer: []config.Point{
			{X: 10, Y: 10},
			{X: 20, Y: 10, Down: true},
		},
	}
	if err := RunHeadless(context.Background(), a, cfg, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, yaw := a.Angles(); yaw <= 0 {
		t.Errorf("yaw = %v, want a positive drag", yaw)
	}
}

func TestFitTerminal(t *testing.T) {
	c := canvas.New(0, 0, 3)
	fitTerminal(c, 80, 25)
	if c.ClientWidth != 80 || c.ClientHeight != 48 || c.PixelRatio != 1 {
		t.Errorf("canvas = %+v, want 80x48 at ratio 1", c)
	}

	fitTerminal(c, 0, 0)
	if c.ClientWidth != 0 || c.ClientHeight != 0 {
		t.Errorf("empty terminal canvas = %+v", c)
	}
}

func TestTerminalMouseEvents(t *testing.T) {
	a := newTestApp(t)
	in := &terminalInput{a: a, quit: func() {}, resize: func(int, int) {}}

	steps := []any{
		uv.MouseMotionEvent{X: 5, Y: 5},
		uv.MouseClickEvent{X: 5, Y: 5, Button: uv.MouseLeft},
		uv.MouseMotionEvent{X: 15, Y: 5},
		uv.MouseReleaseEvent{X: 15, Y: 5, Button: uv.MouseLeft},
		uv.MouseMotionEvent{X: 25, Y: 5},
	}
	for _, ev := range steps {
		fn := in.handle(ev)
		if fn == nil {
			t.Fatalf("no callback for %T", ev)
		}
		if err := fn(); err != nil {
			t.Fatal(err)
		}
	}

	if _, yaw := a.Angles(); math.Abs(yaw-0.1) > 1e-12 {
		t.Errorf("yaw = %v, want only the held drag of 10 cells", yaw)
	}
}

func TestTerminalResizeEvent(t *testing.T) {
	var got [2]int
	in := &terminalInput{resize: func(w, h int) { got = [2]int{w, h} }}
	fn := in.handle(uv.WindowSizeEvent{Width: 100, Height: 30})
	if fn == nil {
		t.Fatal("no callback for resize")
	}
	if err := fn(); err != nil {
		t.Fatal(err)
	}
	if got != [2]int{100, 30} {
		t.Errorf("resize = %v", got)
	}
}

func TestTerminalIgnoresOtherEvents(t *testing.T) {
	in := &terminalInput{}
	if fn := in.handle(struct{}{}); fn != nil {
		t.Error("expected no callback")
	}
}

func TestStatusLine(t *testing.T) {
	s := StatusLine(59.6, 0.25, -1, [4]float64{0.5, 0, -0.5, 1}, true)
	for _, want := range []string{"60 FPS", "pitch +0.25", "yaw -1.00", "pick (+0.50, +0.00, -0.50, +1.00)", "q quit"} {
		if !strings.Contains(s, want) {
			t.Errorf("status %q missing %q", s, want)
		}
	}
	if s := StatusLine(0, 0, 0, [4]float64{}, false); strings.Contains(s, "pick") {
		t.Errorf("status %q shows a pick before any", s)
	}
}

func TestFPSCounter(t *testing.T) {
	now := time.Unix(0, 0)
	c := &FPSCounter{start: now, now: func() time.Time { return now }}

	for range 30 {
		now = now.Add(time.Second / 60)
		c.Tick()
	}
	if c.FPS() != 0 {
		t.Errorf("fps before a full second = %v", c.FPS())
	}
	for range 30 {
		now = now.Add(time.Second / 60)
		c.Tick()
	}
	if got := c.FPS(); got < 59 || got > 61 {
		t.Errorf("fps = %v, want about 60", got)
	}
}
