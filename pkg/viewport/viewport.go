// Package viewport maps a rectangle of the canvas to a composed transform,
// draws the scene through it and turns canvas pixels back into model-space
// points.
package viewport

import (
	"fmt"

	"github.com/taigrr/quadview/pkg/math3d"
)

// Target is the drawing surface a viewport renders through.
type Target interface {
	SetViewport(x, y, width, height int)
	SetTransform(m math3d.Mat4)
	Draw() error
}

// Picker receives the model-space point under an accepted hit.
type Picker interface {
	Pick(p math3d.Vec4) error
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(p math3d.Vec4) error

// Pick calls f(p).
func (f PickerFunc) Pick(p math3d.Vec4) error { return f(p) }

// Rect is a viewport rectangle in canvas pixels, origin at the bottom left.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Viewport remembers where it was last drawn and with which transform.
type Viewport struct {
	name   string
	target Target
	picker Picker

	rect   Rect
	matrix math3d.Mat4
}

// New creates a viewport. Until the first Render it has an empty rectangle
// and the identity transform, and rejects every hit.
func New(name string, target Target, picker Picker) *Viewport {
	return &Viewport{
		name:   name,
		target: target,
		picker: picker,
		matrix: math3d.Identity(),
	}
}

// Name returns the viewport's label.
func (v *Viewport) Name() string { return v.name }

// Rect returns the rectangle of the last Render.
func (v *Viewport) Rect() Rect { return v.rect }

// Matrix returns the transform of the last Render.
func (v *Viewport) Matrix() math3d.Mat4 { return v.matrix }

// Render composes matrices, remembers the result and rectangle, and draws the
// scene into (x, y, width, height).
func (v *Viewport) Render(x, y, width, height int, matrices ...math3d.Mat4) error {
	v.matrix = math3d.Compose(matrices...)
	v.rect = Rect{X: x, Y: y, Width: width, Height: height}

	v.target.SetViewport(x, y, width, height)
	v.target.SetTransform(v.matrix)
	if err := v.target.Draw(); err != nil {
		return fmt.Errorf("viewport %s: %w", v.name, err)
	}
	return nil
}

// NDC converts a canvas pixel to normalized device coordinates of this
// viewport. ok is false for an empty rectangle.
func (v *Viewport) NDC(x, y float64) (nx, ny float64, ok bool) {
	if v.rect.Width <= 0 || v.rect.Height <= 0 {
		return 0, 0, false
	}
	nx = (x-float64(v.rect.X))/float64(v.rect.Width)*2 - 1
	ny = (y-float64(v.rect.Y))/float64(v.rect.Height)*2 - 1
	return nx, ny, true
}

// Contains reports whether a canvas pixel falls in the viewport. The lower
// bound is open and the upper closed, so adjacent viewports never both
// accept a pixel.
func (v *Viewport) Contains(x, y float64) bool {
	nx, ny, ok := v.NDC(x, y)
	return ok && inside(nx) && inside(ny)
}

func inside(n float64) bool {
	return n > -1 && n <= 1
}

// Hit tests a canvas pixel against the viewport. When it falls inside, the
// pixel is unprojected on the z = 0 plane through the inverse transform and
// handed to the picker. The point is not divided by w.
func (v *Viewport) Hit(x, y float64) (bool, error) {
	nx, ny, ok := v.NDC(x, y)
	if !ok || !inside(nx) || !inside(ny) {
		return false, nil
	}

	inv, err := math3d.Inverse(v.matrix)
	if err != nil {
		return true, fmt.Errorf("viewport %s: %w", v.name, err)
	}
	p := math3d.Apply(math3d.V4(nx, ny, 0, 1), inv)

	if v.picker == nil {
		return true, nil
	}
	if err := v.picker.Pick(p); err != nil {
		return true, fmt.Errorf("viewport %s: pick: %w", v.name, err)
	}
	return true, nil
}
