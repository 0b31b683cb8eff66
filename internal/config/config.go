// Package config holds quadview's settings: defaults, an optional YAML file,
// and validation. Command-line flags override file values in cmd/quadview.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendTerminal = "term"
	BackendWindow   = "window"
	BackendHeadless = "headless"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// maxConfigSize bounds the config file read.
const maxConfigSize = 1024 * 1024

// Config is the full set of settings.
type Config struct {
	Backend string `yaml:"backend"` // term, window or headless
	FPS     int    `yaml:"fps"`

	Background    Colour  `yaml:"background"`     // clear colour
	Highlight     Colour  `yaml:"highlight"`      // crosshair colour
	CrosshairSize float64 `yaml:"crosshair_size"` // passed to the crosshair builder, which ignores it
	Sensitivity   float64 `yaml:"sensitivity"`    // radians per pixel of drag
	Fudge         float64 `yaml:"fudge"`          // perspective factor of the rotating view

	Smoothing Smoothing `yaml:"smoothing"`
	Window    Window    `yaml:"window"`
	Headless  Headless  `yaml:"headless"`
}

// Smoothing configures the spring that eases the rotating view toward the
// dragged angles.
type Smoothing struct {
	Enabled   bool    `yaml:"enabled"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// Window configures the desktop window backend.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Headless configures offscreen rendering.
type Headless struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Frames   int     `yaml:"frames"`
	Snapshot string  `yaml:"snapshot"` // PNG path
	Pointer  []Point `yaml:"pointer"`  // scripted pointer positions, one per frame
}

// Point is a client-space pointer position. Down holds the primary button.
type Point struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Down bool    `yaml:"down"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:       BackendTerminal,
		FPS:           60,
		Background:    Colour{51, 77, 102, 255},
		Highlight:     Colour{255, 255, 255, 70},
		CrosshairSize: 0.05,
		Sensitivity:   0.01,
		Fudge:         0.5,
		Smoothing: Smoothing{
			Frequency: 6,
			Damping:   1,
		},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "quadview",
		},
		Headless: Headless{
			Width:    640,
			Height:   480,
			Frames:   1,
			Snapshot: "quadview.png",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults. Fields the file leaves out keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %s: %w: larger than %d bytes", path, ErrInvalid, maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return cfg.Validate()
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendTerminal, BackendWindow, BackendHeadless:
	default:
		return fmt.Errorf("%w: backend %q (want term, window or headless)", ErrInvalid, c.Backend)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.Fudge < 0 {
		return fmt.Errorf("%w: fudge must not be negative, got %v", ErrInvalid, c.Fudge)
	}
	if c.Smoothing.Enabled && (c.Smoothing.Frequency <= 0 || c.Smoothing.Damping < 0) {
		return fmt.Errorf("%w: smoothing needs a positive frequency and non-negative damping", ErrInvalid)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Headless.Width <= 0 || c.Headless.Height <= 0 {
		return fmt.Errorf("%w: headless size %dx%d", ErrInvalid, c.Headless.Width, c.Headless.Height)
	}
	if c.Headless.Frames < 1 {
		return fmt.Errorf("%w: headless frames must be at least 1, got %d", ErrInvalid, c.Headless.Frames)
	}
	return nil
}

// Colour is an 8-bit RGBA colour written as "R,G,B" or "R,G,B,A". Alpha
// defaults to 255.
type Colour color.RGBA

// ParseColour parses "R,G,B[,A]" with each component in 0-255.
func ParseColour(s string) (Colour, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Colour{}, fmt.Errorf("%w: colour %q: want R,G,B or R,G,B,A", ErrInvalid, s)
	}

	c := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Colour{}, fmt.Errorf("%w: colour %q: component %d: %w", ErrInvalid, s, i+1, err)
		}
		c[i] = uint8(v)
	}
	return Colour{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

// Color returns the colour as a color.RGBA.
func (c Colour) Color() color.RGBA { return color.RGBA(c) }

// Floats returns the components scaled to [0, 1].
func (c Colour) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// String formats the colour as R,G,B,A.
func (c Colour) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// Set implements flag.Value.
func (c *Colour) Set(s string) error {
	v, err := ParseColour(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.Set(s)
}

// MarshalYAML implements yaml.Marshaler.
func (c Colour) MarshalYAML() (any, error) {
	return c.String(), nil
}
