// Package gpu is a software graphics device with a WebGL-shaped API:
// shaders and programs, attribute buffers, uniforms, viewport, depth test,
// blending and triangle draws into an RGBA framebuffer.
package gpu

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/quadview/pkg/math3d"
)

var (
	// ErrNoProgram is returned when drawing without a current program.
	ErrNoProgram = errors.New("no program in use")
	// ErrOutOfRange is returned when a draw reads past the end of a bound buffer.
	ErrOutOfRange = errors.New("draw exceeds buffer")
	// ErrUnsupported is returned for primitives the device cannot draw.
	ErrUnsupported = errors.New("unsupported primitive")
)

// Capability is a piece of fixed-function state toggled with Enable/Disable.
type Capability int

const (
	DepthTest Capability = iota + 1
	Blend
)

// ClearMask selects the buffers Clear resets.
type ClearMask uint8

const (
	ColourBufferBit ClearMask = 1 << iota
	DepthBufferBit
)

// BlendFactor scales the source or destination colour when blending.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcAlpha
	OneMinusSrcAlpha
)

// Primitive is the assembly mode for DrawArrays.
type Primitive int

const (
	Triangles Primitive = iota + 1
)

// Stats counts work done since the last ResetStats.
type Stats struct {
	DrawCalls int
	Triangles int
	Fragments int
}

// Device owns the framebuffer and all pipeline state. It is not safe for
// concurrent use.
type Device struct {
	fb      *Framebuffer
	program *Program

	viewport    [4]int
	clearColour [4]float64

	depthTest bool
	blend     bool
	srcFactor BlendFactor
	dstFactor BlendFactor

	Stats Stats
}

// NewDevice creates a device with a width x height framebuffer. The viewport
// starts out covering the whole framebuffer.
func NewDevice(width, height int) *Device {
	return &Device{
		fb:        NewFramebuffer(width, height),
		viewport:  [4]int{0, 0, width, height},
		srcFactor: One,
		dstFactor: Zero,
	}
}

// Framebuffer returns the current drawing buffer.
func (d *Device) Framebuffer() *Framebuffer {
	return d.fb
}

// Resize replaces the drawing buffer. Pipeline state, including the viewport,
// is kept.
func (d *Device) Resize(width, height int) {
	if d.fb.Width == width && d.fb.Height == height {
		return
	}
	d.fb = NewFramebuffer(width, height)
	Logger().Debug("drawing buffer resized", "width", width, "height", height)
}

// UseProgram makes p current for uniform reads and draws.
func (d *Device) UseProgram(p *Program) {
	d.program = p
}

// Viewport sets the window rectangle that normalized device coordinates map
// onto, with (x, y) the bottom-left corner.
func (d *Device) Viewport(x, y, width, height int) {
	d.viewport = [4]int{x, y, max(width, 0), max(height, 0)}
}

// ViewportRect returns the current viewport.
func (d *Device) ViewportRect() (x, y, width, height int) {
	return d.viewport[0], d.viewport[1], d.viewport[2], d.viewport[3]
}

// ClearColor sets the colour used by Clear, components in [0, 1].
func (d *Device) ClearColor(r, g, b, a float64) {
	d.clearColour = [4]float64{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

// Clear resets the selected buffers over the whole framebuffer.
func (d *Device) Clear(mask ClearMask) {
	if mask&ColourBufferBit != 0 {
		d.fb.Clear(toRGBA(d.clearColour))
	}
	if mask&DepthBufferBit != 0 {
		d.fb.ClearDepth(1)
	}
}

// Enable turns a capability on.
func (d *Device) Enable(c Capability) {
	d.setCapability(c, true)
}

// Disable turns a capability off.
func (d *Device) Disable(c Capability) {
	d.setCapability(c, false)
}

func (d *Device) setCapability(c Capability, on bool) {
	switch c {
	case DepthTest:
		d.depthTest = on
	case Blend:
		d.blend = on
	}
}

// IsEnabled reports whether a capability is on.
func (d *Device) IsEnabled(c Capability) bool {
	switch c {
	case DepthTest:
		return d.depthTest
	case Blend:
		return d.blend
	}
	return false
}

// BlendFunc sets the source and destination blend factors.
func (d *Device) BlendFunc(src, dst BlendFactor) {
	d.srcFactor, d.dstFactor = src, dst
}

// UniformMatrix4fv uploads a mat4. Without transpose, v is column-major.
func (d *Device) UniformMatrix4fv(loc *UniformLocation, transpose bool, v [16]float32) {
	if loc == nil {
		return
	}
	if transpose {
		var t [16]float32
		for r := range 4 {
			for c := range 4 {
				t[c*4+r] = v[r*4+c]
			}
		}
		v = t
	}
	loc.program.uniforms.values[loc.index].matrix = v
}

// Uniform1i uploads an integer.
func (d *Device) Uniform1i(loc *UniformLocation, v int32) {
	if loc == nil {
		return
	}
	loc.program.uniforms.values[loc.index].scalar = v
}

// ResetStats zeroes the work counters.
func (d *Device) ResetStats() {
	d.Stats = Stats{}
}

// DrawArrays draws count vertices starting at first from the current
// program's bound buffers.
func (d *Device) DrawArrays(mode Primitive, first, count int) error {
	if mode != Triangles {
		return fmt.Errorf("draw arrays: %w: %d", ErrUnsupported, mode)
	}
	p := d.program
	if p == nil {
		return fmt.Errorf("draw arrays: %w", ErrNoProgram)
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("draw arrays: %w: first=%d count=%d", ErrOutOfRange, first, count)
	}
	for _, b := range p.buffers {
		if b != nil && b.enabled && first+count > b.vertexCount() {
			return fmt.Errorf("draw arrays: %w: attribute %q holds %d vertices, need %d",
				ErrOutOfRange, b.name, b.vertexCount(), first+count)
		}
	}

	d.Stats.DrawCalls++
	attrs := make([]math3d.Vec4, len(p.buffers))
	var tri [3]clipVertex
	for i := range count - count%3 {
		for loc, b := range p.buffers {
			if b != nil && b.enabled {
				attrs[loc] = b.fetch(first + i)
			} else {
				attrs[loc] = defaultAttribute
			}
		}
		clip, varying := p.vertex(attrs, &p.uniforms)
		tri[i%3] = clipVertex{pos: clip, varying: varying}
		if i%3 == 2 {
			d.drawTriangle(p, tri)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func toRGBA(c [4]float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(clamp01(c[0]) * 255)),
		G: uint8(math.Round(clamp01(c[1]) * 255)),
		B: uint8(math.Round(clamp01(c[2]) * 255)),
		A: uint8(math.Round(clamp01(c[3]) * 255)),
	}
}
