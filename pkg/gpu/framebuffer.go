package gpu

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is the colour and depth storage a Device draws into.
//
// Pixels are stored top row first so the buffer can be presented directly;
// the device flips its bottom-left window coordinates on write.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data, top row first
	Depth  []float64    // Window-space depth in [0, 1]
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.ClearDepth(1)
	return fb
}

// Clear fills the colour buffer with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// Copy-doubling is faster than a per-element loop.
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// ClearDepth fills the depth buffer with d.
func (fb *Framebuffer) ClearDepth(d float64) {
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = d
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel sets a pixel at (x, y), top-left origin.
// Out of range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the colour at (x, y), top-left origin.
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// PackRGBA writes the pixels into dst as 8-bit RGBA bytes, top row first,
// reusing dst when it has the right length.
func (fb *Framebuffer) PackRGBA(dst []byte) []byte {
	if len(dst) != len(fb.Pixels)*4 {
		dst = make([]byte, len(fb.Pixels)*4)
	}
	for i, c := range fb.Pixels {
		j := i * 4
		dst[j+0] = c.R
		dst[j+1] = c.G
		dst[j+2] = c.B
		dst[j+3] = c.A
	}
	return dst
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
