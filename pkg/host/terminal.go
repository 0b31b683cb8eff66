package host

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/quadview/pkg/app"
	"github.com/taigrr/quadview/pkg/canvas"
)

var (
	statusFg = color.RGBA{230, 230, 230, 255}
	statusBg = color.RGBA{20, 20, 28, 255}
)

// fitTerminal lays the canvas out over a cols x rows terminal, leaving the
// last row for the status line. Each cell is one pixel wide and two tall.
func fitTerminal(c *canvas.Canvas, cols, rows int) {
	c.ClientWidth = float64(max(cols, 0))
	c.ClientHeight = float64(max(rows-1, 0) * 2)
	c.PixelRatio = 1
}

// terminalInput turns terminal events into app callbacks.
type terminalInput struct {
	a      *app.App
	quit   func()
	resize func(cols, rows int)
	down   bool
}

// handle returns the callback for ev, or nil when ev needs none.
func (in *terminalInput) handle(ev any) func() error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return func() error {
			in.resize(ev.Width, ev.Height)
			return nil
		}

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("q", "escape", "ctrl+c"):
			return func() error {
				in.quit()
				return nil
			}
		case ev.MatchString("r"):
			return func() error {
				in.a.Reset()
				return nil
			}
		}

	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			in.down = true
		}
		return in.move(ev.X, ev.Y)

	case uv.MouseReleaseEvent:
		if ev.Button == uv.MouseLeft {
			in.down = false
		}
		return in.move(ev.X, ev.Y)

	case uv.MouseMotionEvent:
		return in.move(ev.X, ev.Y)
	}
	return nil
}

// move reports the pointer at cell (col, row). A cell row covers two canvas
// rows; the pointer sits on the upper one.
func (in *terminalInput) move(col, row int) func() error {
	var buttons uint8
	if in.down {
		buttons = app.PrimaryButton
	}
	pe := app.PointerEvent{
		Buttons: buttons,
		ClientX: float64(col),
		ClientY: float64(row * 2),
	}
	return func() error { return in.a.PointerMove(pe) }
}

// drawStatus writes s on row, padded to width.
func drawStatus(scr uv.Screen, row, width int, s string) {
	runes := []rune(s)
	for x := range width {
		content := " "
		if x < len(runes) {
			content = string(runes[x])
		}
		scr.SetCell(x, row, &uv.Cell{
			Content: content,
			Width:   1,
			Style:   uv.Style{Fg: statusFg, Bg: statusBg},
		})
	}
}

// RunTerminal shows a in the terminal until the user quits, ctx is done or a
// frame fails.
func RunTerminal(ctx context.Context, a *app.App, opts Options) error {
	log := opts.logger()
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warn("terminal shutdown", "error", err)
		}
	}()

	fitTerminal(a.Canvas(), cols, rows)
	log.Info("terminal started", "cols", cols, "rows", rows)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fps := NewFPSCounter()
	frame := func() error {
		if err := a.Frame(); err != nil {
			return err
		}
		fps.Tick()

		view := uv.Rectangle(image.Rect(0, 0, cols, max(rows-1, 0)))
		a.Framebuffer().Draw(term, view)

		pitch, yaw := a.Angles()
		p, ok := a.LastPick()
		drawStatus(term, rows-1, cols, StatusLine(fps.FPS(), pitch, yaw, [4]float64{p.X, p.Y, p.Z, p.W}, ok))

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}

	loop := app.NewLoop(opts.FPS, frame)
	loop.MaxFrames = opts.MaxFrames

	input := &terminalInput{
		a:    a,
		quit: loop.Stop,
		resize: func(w, h int) {
			cols, rows = w, h
			term.Erase()
			term.Resize(cols, rows)
			fitTerminal(a.Canvas(), cols, rows)
			log.Debug("terminal resized", "cols", cols, "rows", rows)
		},
	}

	inputs := make(chan func() error, 64)
	go func() {
		for ev := range term.Events() {
			fn := input.handle(ev)
			if fn == nil {
				continue
			}
			select {
			case inputs <- fn:
			case <-ctx.Done():
				return
			}
		}
	}()

	return loop.Run(ctx, inputs)
}
