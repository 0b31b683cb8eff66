// Package scene holds the static model quadview renders and exports it as
// glTF binary.
package scene

import (
	"github.com/taigrr/quadview/pkg/geometry"
	"github.com/taigrr/quadview/pkg/math3d"
)

// Wall colours.
var (
	ColourRed     = geometry.Colour{255, 0, 0, 255}
	ColourGreen   = geometry.Colour{0, 255, 0, 255}
	ColourBlue    = geometry.Colour{0, 0, 255, 255}
	ColourCyan    = geometry.Colour{0, 255, 255, 255}
	ColourMagenta = geometry.Colour{255, 0, 255, 255}
	ColourYellow  = geometry.Colour{255, 255, 0, 255}
	ColourCube    = geometry.Colour{200, 230, 250, 255}
)

// CubeSize is the edge length of the cube in the middle of the room.
const CubeSize = 0.5

// RoomVertexCount is the number of vertices Room appends.
const RoomVertexCount = 12*6 + 36

type quad struct {
	a, b, c, d math3d.Vec3
	colour     geometry.Colour
}

var v = math3d.V3

// roomQuads are the stepped walls: two pieces per colour, each pair forming
// an L around an inner ledge.
var roomQuads = []quad{
	{v(-1, 1, 1), v(-1, -1, 1), v(-1, -1, 0.5), v(-1, 1, 0.5), ColourRed},
	{v(-1, -0.5, 0.5), v(-1, -1, 0.5), v(-1, -1, -1), v(-1, -0.5, -1), ColourRed},

	{v(-1, 1, 1), v(1, 1, 1), v(1, 1, 0.5), v(-1, 1, 0.5), ColourGreen},
	{v(1, 1, 0.5), v(1, 1, -1), v(0.5, 1, -1), v(0.5, 1, 0.5), ColourGreen},

	{v(1, 1, -1), v(1, -1, -1), v(0.5, -1, -1), v(0.5, 1, -1), ColourBlue},
	{v(0.5, -0.5, -1), v(0.5, -1, -1), v(-1, -1, -1), v(-1, -0.5, -1), ColourBlue},

	{v(-1, 1, 0.5), v(0.5, 1, 0.5), v(0.5, 0.5, 0.5), v(-1, 0.5, 0.5), ColourCyan},
	{v(-1, 0.5, 0.5), v(-0.5, 0.5, 0.5), v(-0.5, -0.5, 0.5), v(-1, -0.5, 0.5), ColourCyan},

	{v(-1, -0.5, 0.5), v(-1, -0.5, -1), v(-0.5, -0.5, -1), v(-0.5, -0.5, 0.5), ColourMagenta},
	{v(-0.5, -0.5, -0.5), v(0.5, -0.5, -0.5), v(0.5, -0.5, -1), v(-0.5, -0.5, -1), ColourMagenta},

	{v(0.5, 1, 0.5), v(0.5, 1, -1), v(0.5, 0.5, -1), v(0.5, 0.5, 0.5), ColourYellow},
	{v(0.5, 0.5, -0.5), v(0.5, 0.5, -1), v(0.5, -0.5, -1), v(0.5, -0.5, -0.5), ColourYellow},
}

// Room appends the static model to b: the walls followed by the centre cube.
func Room(b *geometry.Builder) {
	for _, q := range roomQuads {
		b.Quadrilateral(q.a, q.b, q.c, q.d, q.colour)
	}
	b.Cube(math3d.Zero3(), CubeSize, ColourCube)
}
