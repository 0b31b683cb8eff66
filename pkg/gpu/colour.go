package gpu

import (
	_ "embed"
	"math"

	"github.com/taigrr/quadview/pkg/math3d"
)

//go:embed shaders/colour.vert.wgsl
var colourVertexWGSL string

//go:embed shaders/colour.frag.wgsl
var colourFragmentWGSL string

// Names declared by the colour program.
const (
	AttribPosition = "a_position"
	AttribColour   = "a_colour"
	UniformMatrix  = "u_matrix"
	UniformFrame   = "u_frame"
)

// ColourVertexSource is the vertex stage of the colour program:
// gl_Position = u_matrix * vec4(a_position, 1), colour passed through.
func ColourVertexSource() ShaderSource {
	return ShaderSource{
		Stage:      StageVertex,
		Label:      "colour.vert",
		WGSL:       colourVertexWGSL,
		Attributes: []string{AttribPosition, AttribColour},
		Uniforms:   []string{UniformMatrix},
		Vertex:     colourVertex,
	}
}

// ColourFragmentSource is the fragment stage of the colour program.
func ColourFragmentSource() ShaderSource {
	return ShaderSource{
		Stage:    StageFragment,
		Label:    "colour.frag",
		WGSL:     colourFragmentWGSL,
		Uniforms: []string{UniformFrame},
		Fragment: colourFragment,
	}
}

func colourVertex(attrs []math3d.Vec4, u *Uniforms) (clip, varying math3d.Vec4) {
	m := u.Matrix(UniformMatrix)
	p := attrs[0]
	// Column-major storage: row r of M*p reads m[r], m[4+r], m[8+r], m[12+r].
	row := func(r int) float64 {
		return float64(m[r])*p.X + float64(m[4+r])*p.Y + float64(m[8+r])*p.Z + float64(m[12+r])*p.W
	}
	return math3d.V4(row(0), row(1), row(2), row(3)), attrs[1]
}

// Pulse returns the alpha multiplier applied to translucent fragments on the
// given frame.
func Pulse(frame int32) float64 {
	return 0.75 + 0.25*math.Sin(float64(frame)*0.1)
}

// opaqueAlpha is the alpha at and above which a fragment counts as opaque;
// interpolation can land a hair under 1.
const opaqueAlpha = 0.999

func colourFragment(varying math3d.Vec4, u *Uniforms) math3d.Vec4 {
	if varying.W < opaqueAlpha {
		varying.W *= Pulse(u.Int(UniformFrame))
	}
	return varying
}
