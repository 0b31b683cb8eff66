// Package geometry accumulates flat vertex and colour arrays for triangle
// soups, ready to be uploaded as attribute buffers.
package geometry

import (
	"image/color"

	"github.com/taigrr/quadview/pkg/math3d"
)

// Vertex is a model-space position.
type Vertex = math3d.Vec3

// Colour is an 8-bit RGBA colour, uploaded as four normalized bytes.
type Colour = color.RGBA

// Builder holds two parallel flat arrays: three floats and four colour bytes
// per vertex. Every primitive appends the same number of vertices to both.
type Builder struct {
	Positions []float64
	Colours   []uint8
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{}
}

// Clear empties the builder, keeping its backing storage.
func (b *Builder) Clear() {
	b.Positions = b.Positions[:0]
	b.Colours = b.Colours[:0]
}

// VertexCount returns the number of vertices accumulated so far.
func (b *Builder) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of whole triangles accumulated so far.
func (b *Builder) TriangleCount() int {
	return b.VertexCount() / 3
}

func (b *Builder) vertex(v Vertex, c Colour) {
	b.Positions = append(b.Positions, v.X, v.Y, v.Z)
	b.Colours = append(b.Colours, c.R, c.G, c.B, c.A)
}

// Triangle appends a, b and c in the given order. Winding is up to the caller;
// nothing downstream culls faces.
func (b *Builder) Triangle(v0, v1, v2 Vertex, c Colour) {
	b.vertex(v0, c)
	b.vertex(v1, c)
	b.vertex(v2, c)
}

// Quadrilateral appends a quad as the triangles (a, b, c) and (c, a, d).
func (b *Builder) Quadrilateral(v0, v1, v2, v3 Vertex, c Colour) {
	b.Triangle(v0, v1, v2, c)
	b.Triangle(v2, v0, v3, c)
}

// cubeFaces maps a generated (side, u, v) triple onto x, y and z so one loop
// covers all three face pairs.
var cubeFaces = [3][3]int{
	{0, 1, 2},
	{1, 0, 2},
	{1, 2, 0},
}

// cubeCorners lists each face's two triangles: corners 0-2 and 3-5.
var cubeCorners = [6][2]float64{
	{-1, -1},
	{1, -1},
	{1, 1},
	{1, 1},
	{-1, -1},
	{-1, 1},
}

// Cube appends an axis-aligned cube of edge length size around centre:
// 6 faces, 2 triangles each, 36 vertices.
func (b *Builder) Cube(centre Vertex, size float64, c Colour) {
	half := size / 2

	for _, face := range cubeFaces {
		for side := -1.0; side <= 1; side += 2 {
			for _, corner := range cubeCorners {
				v := [3]float64{half * side, half * corner[0], half * corner[1]}
				b.vertex(centre.Add(math3d.V3(v[face[0]], v[face[1]], v[face[2]])), c)
			}
		}
	}
}

// Crosshair appends three orthogonal planes through centre, each spanning
// the full [-1, 1] extent on its other two axes.
//
// size is accepted for symmetry with Cube but does not limit the planes.
func (b *Builder) Crosshair(centre Vertex, size float64, c Colour) {
	b.Quadrilateral(
		math3d.V3(-1, -1, centre.Z),
		math3d.V3(1, -1, centre.Z),
		math3d.V3(1, 1, centre.Z),
		math3d.V3(-1, 1, centre.Z),
		c)

	b.Quadrilateral(
		math3d.V3(-1, centre.Y, -1),
		math3d.V3(1, centre.Y, -1),
		math3d.V3(1, centre.Y, 1),
		math3d.V3(-1, centre.Y, 1),
		c)

	b.Quadrilateral(
		math3d.V3(centre.X, -1, -1),
		math3d.V3(centre.X, 1, -1),
		math3d.V3(centre.X, 1, 1),
		math3d.V3(centre.X, -1, 1),
		c)
}

// Vertex returns the i-th vertex and its colour.
func (b *Builder) Vertex(i int) (Vertex, Colour) {
	p := b.Positions[i*3 : i*3+3]
	c := b.Colours[i*4 : i*4+4]
	return math3d.V3(p[0], p[1], p[2]), color.RGBA{c[0], c[1], c[2], c[3]}
}

// Pack concatenates builders in order into upload-ready arrays: float32
// positions and byte colours.
func Pack(builders ...*Builder) ([]float32, []uint8) {
	var np, nc int
	for _, b := range builders {
		np += len(b.Positions)
		nc += len(b.Colours)
	}

	positions := make([]float32, 0, np)
	colours := make([]uint8, 0, nc)
	for _, b := range builders {
		for _, p := range b.Positions {
			positions = append(positions, float32(p))
		}
		colours = append(colours, b.Colours...)
	}
	return positions, colours
}
