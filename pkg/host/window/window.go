// Package window shows an App in a desktop window.
package window

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/quadview/internal/config"
	"github.com/taigrr/quadview/pkg/app"
	"github.com/taigrr/quadview/pkg/host"
)

// Run opens a window and drives a from ebiten's update loop until the window
// closes, ctx is done or a frame fails. The monitor's device scale factor is
// the canvas pixel ratio.
func Run(ctx context.Context, a *app.App, cfg config.Window, opts host.Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	g := &game{ctx: ctx, a: a, log: log, title: cfg.Title, maxFrames: opts.MaxFrames, fps: host.NewFPSCounter()}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.FPS > 0 {
		ebiten.SetTPS(opts.FPS)
	}

	log.Info("window opening", "width", cfg.Width, "height", cfg.Height)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

type game struct {
	ctx       context.Context
	a         *app.App
	log       *slog.Logger
	title     string
	maxFrames int
	fps       *host.FPSCounter

	pixels []byte
	lastX  int
	lastY  int
	down   bool
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.a.Reset()
	}

	x, y := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if x != g.lastX || y != g.lastY || down != g.down {
		var buttons uint8
		if down {
			buttons = app.PrimaryButton
		}
		// CursorPosition is in layout pixels; the pointer wants client units.
		r := g.a.Canvas().Ratio()
		ev := app.PointerEvent{Buttons: buttons, ClientX: float64(x) / r, ClientY: float64(y) / r}
		if err := g.a.PointerMove(ev); err != nil {
			return err
		}
		g.lastX, g.lastY, g.down = x, y, down
	}

	if err := g.a.Frame(); err != nil {
		g.log.Error("frame failed", "error", err)
		return err
	}
	g.fps.Tick()
	if g.maxFrames > 0 && g.a.FrameCount() >= g.maxFrames {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.a.Framebuffer()
	b := screen.Bounds()
	if b.Dx() != fb.Width || b.Dy() != fb.Height {
		return
	}

	g.pixels = fb.PackRGBA(g.pixels)
	screen.WritePixels(g.pixels)
	ebiten.SetWindowTitle(fmt.Sprintf("%s  %.0f FPS", g.title, g.fps.FPS()))
}

// Layout sizes the canvas to the window in device pixels.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	c := g.a.Canvas()
	c.ClientWidth = float64(outsideWidth)
	c.ClientHeight = float64(outsideHeight)
	c.PixelRatio = s
	w, h := c.DisplaySize()
	return max(w, 1), max(h, 1)
}

