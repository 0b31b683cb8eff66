package gpu

import (
	"image/color"
	"math"

	"github.com/taigrr/quadview/pkg/math3d"
)

var defaultAttribute = math3d.V4(0, 0, 0, 1)

// clipVertex is a vertex stage output.
type clipVertex struct {
	pos     math3d.Vec4
	varying math3d.Vec4
}

// windowVertex is a vertex after the perspective divide and viewport
// transform. X and Y are window pixels with a bottom-left origin; Z is depth
// in [0, 1] for points inside the clip volume.
type windowVertex struct {
	X, Y, Z float64
	InvW    float64
	Varying math3d.Vec4
}

func (d *Device) toWindow(v clipVertex) windowVertex {
	vx, vy, vw, vh := d.ViewportRect()
	invW := 1 / v.pos.W
	ndcX, ndcY, ndcZ := v.pos.X*invW, v.pos.Y*invW, v.pos.Z*invW
	return windowVertex{
		X:       float64(vx) + (ndcX+1)*0.5*float64(vw),
		Y:       float64(vy) + (ndcY+1)*0.5*float64(vh),
		Z:       (ndcZ + 1) * 0.5,
		InvW:    invW,
		Varying: v.varying,
	}
}

// edge is twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// drawTriangle rasterizes one triangle inside the current viewport. Both
// windings are filled. Triangles with a vertex at or behind the eye (w <= 0)
// are dropped; fragments outside the depth range are clipped per pixel.
func (d *Device) drawTriangle(p *Program, tri [3]clipVertex) {
	for _, v := range tri {
		if !(v.pos.W > 0) {
			return
		}
	}

	var sv [3]windowVertex
	for i, v := range tri {
		sv[i] = d.toWindow(v)
	}

	area := edge(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return
	}
	d.Stats.Triangles++

	// Clip the bounding box against the viewport and the framebuffer.
	vx, vy, vw, vh := d.ViewportRect()
	minX := max(vx, 0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(vx+vw-1, d.fb.Width-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(vy, 0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(vy+vh-1, d.fb.Height-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			b0 := edge(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py) / area
			b1 := edge(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y, px, py) / area
			b2 := edge(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
			if z < 0 || z > 1 {
				continue
			}

			// Framebuffer rows run top to bottom.
			idx := (d.fb.Height-1-y)*d.fb.Width + x
			if d.depthTest && z >= d.fb.Depth[idx] {
				continue
			}

			// Perspective-correct varying.
			w0, w1, w2 := b0*sv[0].InvW, b1*sv[1].InvW, b2*sv[2].InvW
			sum := w0 + w1 + w2
			if sum == 0 {
				continue
			}
			varying := sv[0].Varying.Scale(w0).
				Add(sv[1].Varying.Scale(w1)).
				Add(sv[2].Varying.Scale(w2)).
				Scale(1 / sum)

			src := p.fragment(varying, &p.uniforms)
			if d.depthTest {
				d.fb.Depth[idx] = z
			}
			d.fb.Pixels[idx] = d.blendPixel(src, d.fb.Pixels[idx])
			d.Stats.Fragments++
		}
	}
}

// blendPixel combines a fragment colour in [0, 1] with the stored pixel.
func (d *Device) blendPixel(src math3d.Vec4, dst color.RGBA) color.RGBA {
	s := [4]float64{clamp01(src.X), clamp01(src.Y), clamp01(src.Z), clamp01(src.W)}
	if !d.blend {
		return toRGBA(s)
	}

	t := [4]float64{
		float64(dst.R) / 255,
		float64(dst.G) / 255,
		float64(dst.B) / 255,
		float64(dst.A) / 255,
	}
	sf := blendFactor(d.srcFactor, s[3])
	df := blendFactor(d.dstFactor, s[3])

	var out [4]float64
	for i := range out {
		out[i] = s[i]*sf + t[i]*df
	}
	return toRGBA(out)
}

func blendFactor(f BlendFactor, srcAlpha float64) float64 {
	switch f {
	case One:
		return 1
	case SrcAlpha:
		return srcAlpha
	case OneMinusSrcAlpha:
		return 1 - srcAlpha
	default:
		return 0
	}
}
