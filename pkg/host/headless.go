package host

import (
	"context"
	"fmt"

	"github.com/taigrr/quadview/internal/config"
	"github.com/taigrr/quadview/pkg/app"
)

// RunHeadless draws cfg.Frames frames and writes the last one to cfg.Snapshot
// when it is set. Scripted pointer position i is delivered after frame i, so
// its pick shows from frame i+1 on.
func RunHeadless(ctx context.Context, a *app.App, cfg config.Headless, opts Options) error {
	log := opts.logger()

	c := a.Canvas()
	c.ClientWidth = float64(cfg.Width)
	c.ClientHeight = float64(cfg.Height)
	c.PixelRatio = 1

	n := 0
	frame := func() error {
		if err := a.Frame(); err != nil {
			return err
		}
		if n < len(cfg.Pointer) {
			p := cfg.Pointer[n]
			var buttons uint8
			if p.Down {
				buttons = app.PrimaryButton
			}
			if err := a.PointerMove(app.PointerEvent{Buttons: buttons, ClientX: p.X, ClientY: p.Y}); err != nil {
				return err
			}
		}
		n++
		return nil
	}

	loop := app.NewLoop(opts.FPS, frame)
	loop.Interval = 1 // as fast as possible
	loop.MaxFrames = max(cfg.Frames, 1)
	if err := loop.Run(ctx, nil); err != nil {
		return err
	}
	log.Info("headless frames drawn", "frames", loop.Frames(), "stats", fmt.Sprintf("%+v", a.Stats()))

	if cfg.Snapshot == "" {
		return nil
	}
	if err := a.Framebuffer().SavePNG(cfg.Snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot written", "path", cfg.Snapshot)
	return nil
}
