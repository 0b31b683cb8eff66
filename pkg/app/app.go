// Package app ties the scene, the drawing device and the four viewports
// together. An App is the whole per-canvas context: nothing lives in package
// state, so several canvases can be driven side by side.
package app

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/taigrr/quadview/internal/config"
	"github.com/taigrr/quadview/pkg/canvas"
	"github.com/taigrr/quadview/pkg/geometry"
	"github.com/taigrr/quadview/pkg/gpu"
	"github.com/taigrr/quadview/pkg/math3d"
	"github.com/taigrr/quadview/pkg/scene"
	"github.com/taigrr/quadview/pkg/viewport"
)

// Viewport indices, in the order they are drawn and hit-tested.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
	numViews
)

var viewNames = [numViews]string{"top-left", "top-right", "bottom-left", "bottom-right"}

// PrimaryButton is the bit of PointerEvent.Buttons held while dragging.
const PrimaryButton uint8 = 1

// PointerEvent is a pointer position in client units, origin at the top
// left, with the buttons held at the time.
type PointerEvent struct {
	Buttons uint8
	ClientX float64
	ClientY float64
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// App renders the room into four viewports of one canvas.
type App struct {
	cfg    config.Config
	canvas *canvas.Canvas
	logger *slog.Logger

	device    *gpu.Device
	program   *gpu.Program
	positions *gpu.Buffer
	colours   *gpu.Buffer
	matrix    *gpu.UniformLocation
	frameLoc  *gpu.UniformLocation

	model       *geometry.Builder
	highlights  *geometry.Builder
	vertexCount int

	views [numViews]*viewport.Viewport

	frame  int32
	mouse  [2]float64
	angle  [2]float64
	smooth *smoother

	lastPick math3d.Vec4
	picked   bool
}

// New creates the device for c, compiles and links the colour program, builds
// the room and uploads it. Any failure here is fatal for the canvas.
func New(cfg config.Config, c *canvas.Canvas, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		canvas:     c,
		logger:     slog.New(slog.DiscardHandler),
		model:      geometry.New(),
		highlights: geometry.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if cfg.Smoothing.Enabled {
		a.smooth = newSmoother(cfg.FPS, cfg.Smoothing.Frequency, cfg.Smoothing.Damping)
	}

	canvas.ResizeToDisplaySize(c)
	a.device = gpu.NewDevice(c.Width, c.Height)

	if err := a.initProgram(); err != nil {
		return nil, err
	}

	target := deviceTarget{a}
	for i := range a.views {
		a.views[i] = viewport.New(viewNames[i], target, viewport.PickerFunc(a.Pick))
	}

	scene.Room(a.model)
	if err := a.UpdateBuffers(); err != nil {
		return nil, err
	}

	a.logger.Info("scene ready",
		"canvas", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"vertices", a.model.VertexCount(),
		"smoothing", cfg.Smoothing.Enabled)
	return a, nil
}

func (a *App) initProgram() error {
	vs, err := a.device.CreateShader(gpu.ColourVertexSource())
	if err != nil {
		return fmt.Errorf("create vertex shader: %w", err)
	}
	fs, err := a.device.CreateShader(gpu.ColourFragmentSource())
	if err != nil {
		return fmt.Errorf("create fragment shader: %w", err)
	}
	if a.program, err = a.device.CreateProgram(vs, fs); err != nil {
		return fmt.Errorf("create program: %w", err)
	}

	if a.positions, err = a.program.Buffer(gpu.AttribPosition); err != nil {
		return err
	}
	if a.colours, err = a.program.Buffer(gpu.AttribColour); err != nil {
		return err
	}
	if a.matrix, err = a.program.UniformLocation(gpu.UniformMatrix); err != nil {
		return err
	}
	if a.frameLoc, err = a.program.UniformLocation(gpu.UniformFrame); err != nil {
		return err
	}
	return nil
}

// UpdateBuffers packs the model followed by the highlights and uploads them.
func (a *App) UpdateBuffers() error {
	positions, colours := geometry.Pack(a.model, a.highlights)
	if err := a.positions.Data(gpu.Float32, positions); err != nil {
		return err
	}
	if err := a.colours.Data(gpu.Uint8, colours); err != nil {
		return err
	}
	a.vertexCount = len(positions) / 3
	return nil
}

// Frame draws one frame: resize, clear, set state, then render the four
// viewports.
func (a *App) Frame() error {
	if canvas.ResizeToDisplaySize(a.canvas) {
		a.device.Resize(a.canvas.Width, a.canvas.Height)
		a.logger.Debug("canvas resized", "width", a.canvas.Width, "height", a.canvas.Height)
	}

	a.device.ResetStats()
	a.device.ClearColor(a.cfg.Background.Floats())
	a.device.Clear(gpu.ColourBufferBit | gpu.DepthBufferBit)

	a.device.Enable(gpu.DepthTest)
	a.device.Enable(gpu.Blend)
	a.device.BlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha)

	a.device.UseProgram(a.program)
	a.device.Uniform1i(a.frameLoc, a.frame)
	a.frame++

	a.positions.Bind(3, false)
	a.colours.Bind(4, true)

	angle := a.angle
	if a.smooth != nil {
		angle = a.smooth.update(a.angle)
	}

	w, h := a.canvas.Width, a.canvas.Height
	cw, ch := w/2, h/2
	initial := math3d.Identity()
	final := math3d.Scale(0.5/a.canvas.Aspect(), 0.5, 0.5)

	if err := a.views[TopLeft].Render(0, ch, cw, ch,
		initial,
		math3d.RotateX(-math.Pi/2),
		final,
	); err != nil {
		return err
	}
	if err := a.views[TopRight].Render(cw, ch, cw, ch,
		initial,
		final,
	); err != nil {
		return err
	}
	if err := a.views[BottomLeft].Render(0, 0, cw, ch,
		initial,
		math3d.RotateY(-math.Pi/2),
		final,
	); err != nil {
		return err
	}
	return a.views[BottomRight].Render(cw, 0, cw, ch,
		initial,
		math3d.RotateY(angle[1]),
		math3d.RotateX(angle[0]),
		math3d.Translate(0, 0, 1),
		math3d.Projection(a.cfg.Fudge),
		final,
	)
}

// PointerMove handles pointer motion. Dragging with the primary button turns
// the bottom-right view; every move hit-tests all four viewports.
func (a *App) PointerMove(ev PointerEvent) error {
	if ev.Buttons&PrimaryButton != 0 {
		k := a.cfg.Sensitivity
		a.angle[0] += (ev.ClientY - a.mouse[1]) * k
		a.angle[1] += (ev.ClientX - a.mouse[0]) * k
	}
	a.mouse = [2]float64{ev.ClientX, ev.ClientY}

	r := a.canvas.Ratio()
	x := ev.ClientX * r
	y := float64(a.canvas.Height) - ev.ClientY*r

	for _, v := range a.views {
		if _, err := v.Hit(x, y); err != nil {
			return err
		}
	}
	return nil
}

// Pick replaces the highlights with a crosshair at p and re-uploads.
func (a *App) Pick(p math3d.Vec4) error {
	a.highlights.Clear()
	a.highlights.Crosshair(p.Vec3(), a.cfg.CrosshairSize, a.cfg.Highlight.Color())
	a.lastPick, a.picked = p, true
	a.logger.Debug("pick", "x", p.X, "y", p.Y, "z", p.Z, "w", p.W)
	return a.UpdateBuffers()
}

// Reset returns the rotating view to its starting angles.
func (a *App) Reset() {
	a.angle = [2]float64{}
	if a.smooth != nil {
		a.smooth.reset()
	}
	a.logger.Debug("view reset")
}

// ExportGLB writes the model and current highlights to path.
func (a *App) ExportGLB(path string) error {
	return scene.ExportGLB(path, a.model, a.highlights)
}

// Canvas returns the canvas being drawn.
func (a *App) Canvas() *canvas.Canvas { return a.canvas }

// Framebuffer returns the drawing buffer of the last frame.
func (a *App) Framebuffer() *gpu.Framebuffer { return a.device.Framebuffer() }

// Stats returns the device counters for the last frame.
func (a *App) Stats() gpu.Stats { return a.device.Stats }

// FrameCount returns how many frames have been drawn.
func (a *App) FrameCount() int { return int(a.frame) }

// Angles returns the accumulated pitch and yaw of the rotating view.
func (a *App) Angles() (pitch, yaw float64) { return a.angle[0], a.angle[1] }

// LastPick returns the most recent picked point and whether there is one.
func (a *App) LastPick() (math3d.Vec4, bool) { return a.lastPick, a.picked }

// View returns one of the four viewports.
func (a *App) View(i int) *viewport.Viewport { return a.views[i] }

// VertexCount returns the number of vertices uploaded, model plus highlights.
func (a *App) VertexCount() int { return a.vertexCount }

// deviceTarget draws the uploaded scene through the app's device.
type deviceTarget struct {
	a *App
}

func (t deviceTarget) SetViewport(x, y, width, height int) {
	t.a.device.Viewport(x, y, width, height)
}

func (t deviceTarget) SetTransform(m math3d.Mat4) {
	t.a.device.UniformMatrix4fv(t.a.matrix, false, math3d.Flatten(m))
}

func (t deviceTarget) Draw() error {
	return t.a.device.DrawArrays(gpu.Triangles, 0, t.a.vertexCount)
}
