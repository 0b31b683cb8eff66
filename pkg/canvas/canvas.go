// Package canvas models the drawing surface quadview renders into: a client
// area measured in logical units and a drawing buffer measured in device
// pixels.
package canvas

// Canvas is a drawing surface. ClientWidth and ClientHeight are the size the
// host lays the canvas out at; Width and Height are the drawing buffer.
type Canvas struct {
	ClientWidth  float64
	ClientHeight float64
	PixelRatio   float64

	Width  int
	Height int
}

// New returns a canvas laid out at the given client size with an empty
// drawing buffer.
func New(clientWidth, clientHeight, pixelRatio float64) *Canvas {
	return &Canvas{
		ClientWidth:  clientWidth,
		ClientHeight: clientHeight,
		PixelRatio:   pixelRatio,
	}
}

// Ratio returns the device pixels per client unit, 1 when unset.
func (c *Canvas) Ratio() float64 {
	if c.PixelRatio <= 0 {
		return 1
	}
	return c.PixelRatio
}

// DisplaySize returns the drawing buffer size that matches the client area.
func (c *Canvas) DisplaySize() (width, height int) {
	r := c.Ratio()
	return int(c.ClientWidth * r), int(c.ClientHeight * r)
}

// Aspect returns width over height of the drawing buffer, or 1 for an empty
// buffer.
func (c *Canvas) Aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// ResizeToDisplaySize makes the drawing buffer match the client area at the
// current pixel ratio and reports whether it changed.
func ResizeToDisplaySize(c *Canvas) bool {
	w, h := c.DisplaySize()
	if c.Width == w && c.Height == h {
		return false
	}
	c.Width, c.Height = w, h
	return true
}
