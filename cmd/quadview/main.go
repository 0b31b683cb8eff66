// quadview - four views of a small room, with picking
// Draws a coloured room and cube into four viewports: top, front and side
// projections plus a perspective view you can turn. Moving the pointer over
// any view drops a crosshair on the model-space point beneath it.
//
// Controls:
//
//	Mouse move  - Pick the point under the pointer
//	Mouse drag  - Turn the perspective view (bottom right)
//	R           - Reset the perspective view
//	Q/Esc       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taigrr/quadview/internal/config"
	"github.com/taigrr/quadview/pkg/app"
	"github.com/taigrr/quadview/pkg/canvas"
	"github.com/taigrr/quadview/pkg/geometry"
	"github.com/taigrr/quadview/pkg/gpu"
	"github.com/taigrr/quadview/pkg/host"
	"github.com/taigrr/quadview/pkg/host/window"
	"github.com/taigrr/quadview/pkg/scene"
)

var defaults = config.Default()

var (
	configPath = flag.String("config", "", "Path to a YAML config file")
	backend    = flag.String("backend", defaults.Backend, "Where to draw: term, window or headless")
	targetFPS  = flag.Int("fps", defaults.FPS, "Target FPS")
	smooth     = flag.Bool("smooth", false, "Ease the perspective view toward the dragged angles")
	frames     = flag.Int("frames", 0, "Stop after this many frames (headless default: 1)")
	snapshot   = flag.String("snapshot", defaults.Headless.Snapshot, "PNG written by the headless backend")
	exportPath = flag.String("export", "", "Write the room as a .glb file and exit")
	logPath    = flag.String("log", "", "Write logs to this file")
	verbose    = flag.Bool("v", false, "Log debug messages")

	bgColor   = defaults.Background
	highlight = defaults.Highlight
)

func main() {
	flag.Var(&bgColor, "bg", "Background colour (R,G,B[,A])")
	flag.Var(&highlight, "highlight", "Crosshair colour (R,G,B[,A])")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "quadview - four views of a small room\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quadview [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse move  - Pick a point\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Turn the perspective view\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset the view\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc       - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags given on the
// command line over it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "fps":
			cfg.FPS = *targetFPS
		case "smooth":
			cfg.Smoothing.Enabled = *smooth
		case "frames":
			cfg.Headless.Frames = *frames
		case "snapshot":
			cfg.Headless.Snapshot = *snapshot
		case "bg":
			cfg.Background = bgColor
		case "highlight":
			cfg.Highlight = highlight
		}
	})
	return cfg, cfg.Validate()
}

func newLogger() (*slog.Logger, func() error, error) {
	if *logPath == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	gpu.SetLogger(logger.With("component", "gpu"))

	if *exportPath != "" {
		room := geometry.New()
		scene.Room(room)
		if err := scene.ExportGLB(*exportPath, room); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("Wrote %s (%d vertices)\n", *exportPath, room.VertexCount())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := canvas.New(0, 0, 1)
	if cfg.Backend == config.BackendHeadless {
		c = canvas.New(float64(cfg.Headless.Width), float64(cfg.Headless.Height), 1)
	}

	a, err := app.New(cfg, c, app.WithLogger(logger.With("component", "app")))
	if err != nil {
		return err
	}

	opts := host.Options{FPS: cfg.FPS, Logger: logger.With("component", "host")}
	switch cfg.Backend {
	case config.BackendWindow:
		opts.MaxFrames = *frames
		return window.Run(ctx, a, cfg.Window, opts)
	case config.BackendHeadless:
		if err := host.RunHeadless(ctx, a, cfg.Headless, opts); err != nil {
			return err
		}
		if cfg.Headless.Snapshot != "" {
			fmt.Printf("Wrote %s (%d frames)\n", cfg.Headless.Snapshot, a.FrameCount())
		}
		return nil
	default:
		opts.MaxFrames = *frames
		return host.RunTerminal(ctx, a, opts)
	}
}
