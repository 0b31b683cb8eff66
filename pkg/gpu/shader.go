package gpu

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/taigrr/quadview/pkg/math3d"
)

var (
	// ErrCompile is returned when a shader cannot be compiled.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink is returned when shaders cannot be linked into a program.
	ErrLink = errors.New("program link failed")
	// ErrUnknownAttribute is returned for attribute names a program does not declare.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrUnknownUniform is returned for uniform names a program does not declare.
	ErrUnknownUniform = errors.New("unknown uniform")
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// VertexFunc runs once per vertex. attrs holds one value per declared
// attribute, in declaration order; missing components default to (0, 0, 0, 1).
// It returns the clip-space position and the varying passed to the fragment
// stage.
type VertexFunc func(attrs []math3d.Vec4, u *Uniforms) (clip, varying math3d.Vec4)

// FragmentFunc runs once per covered pixel with the interpolated varying and
// returns an RGBA colour in [0, 1].
type FragmentFunc func(varying math3d.Vec4, u *Uniforms) math3d.Vec4

// ShaderSource describes one stage: its WGSL text, the names it declares, and
// the host function the software device executes for it.
type ShaderSource struct {
	Stage      Stage
	Label      string
	WGSL       string
	Attributes []string // vertex inputs, in location order
	Uniforms   []string
	Vertex     VertexFunc
	Fragment   FragmentFunc
}

// Shader is a compiled stage.
type Shader struct {
	src   ShaderSource
	spirv []byte
}

// Stage returns the shader's pipeline stage.
func (s *Shader) Stage() Stage { return s.src.Stage }

// SPIRV returns the compiled module.
func (s *Shader) SPIRV() []byte { return s.spirv }

// CreateShader compiles src. Compilation failures wrap ErrCompile.
func (d *Device) CreateShader(src ShaderSource) (*Shader, error) {
	label := src.Label
	if label == "" {
		label = src.Stage.String()
	}

	switch src.Stage {
	case StageVertex:
		if src.Vertex == nil {
			return nil, fmt.Errorf("compile %s shader: %w: no vertex function", label, ErrCompile)
		}
	case StageFragment:
		if src.Fragment == nil {
			return nil, fmt.Errorf("compile %s shader: %w: no fragment function", label, ErrCompile)
		}
	default:
		return nil, fmt.Errorf("compile %s shader: %w: unknown stage %v", label, ErrCompile, src.Stage)
	}

	spirv, err := naga.Compile(src.WGSL)
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w: %w", label, ErrCompile, err)
	}

	Logger().Debug("shader compiled", "label", label, "stage", src.Stage.String(), "spirv_bytes", len(spirv))
	return &Shader{src: src, spirv: spirv}, nil
}

// Program is a linked vertex and fragment shader pair with its attribute and
// uniform state.
type Program struct {
	vertex     VertexFunc
	fragment   FragmentFunc
	attributes []string
	buffers    []*Buffer // bound attribute buffers, by location
	uniforms   Uniforms
}

// CreateProgram links exactly one vertex and one fragment shader.
func (d *Device) CreateProgram(shaders ...*Shader) (*Program, error) {
	var vs, fs *Shader
	for _, s := range shaders {
		if s == nil {
			return nil, fmt.Errorf("%w: nil shader", ErrLink)
		}
		switch s.Stage() {
		case StageVertex:
			if vs != nil {
				return nil, fmt.Errorf("%w: more than one vertex shader", ErrLink)
			}
			vs = s
		case StageFragment:
			if fs != nil {
				return nil, fmt.Errorf("%w: more than one fragment shader", ErrLink)
			}
			fs = s
		}
	}
	if vs == nil {
		return nil, fmt.Errorf("%w: missing vertex shader", ErrLink)
	}
	if fs == nil {
		return nil, fmt.Errorf("%w: missing fragment shader", ErrLink)
	}

	p := &Program{
		vertex:     vs.src.Vertex,
		fragment:   fs.src.Fragment,
		attributes: slices.Clone(vs.src.Attributes),
		buffers:    make([]*Buffer, len(vs.src.Attributes)),
		uniforms:   Uniforms{index: map[string]int{}},
	}
	for _, name := range slices.Concat(vs.src.Uniforms, fs.src.Uniforms) {
		if _, ok := p.uniforms.index[name]; ok {
			continue
		}
		p.uniforms.index[name] = len(p.uniforms.values)
		p.uniforms.values = append(p.uniforms.values, uniformValue{})
	}

	Logger().Info("program linked", "attributes", p.attributes, "uniforms", len(p.uniforms.values))
	return p, nil
}

// attributeLocation returns the location of a declared attribute.
func (p *Program) attributeLocation(name string) (int, error) {
	loc := slices.Index(p.attributes, name)
	if loc < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return loc, nil
}

// Buffer creates an array buffer feeding the named attribute.
func (p *Program) Buffer(name string) (*Buffer, error) {
	loc, err := p.attributeLocation(name)
	if err != nil {
		return nil, err
	}
	return &Buffer{program: p, name: name, location: loc}, nil
}

// UniformLocation looks up a declared uniform.
func (p *Program) UniformLocation(name string) (*UniformLocation, error) {
	i, ok := p.uniforms.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	return &UniformLocation{program: p, name: name, index: i}, nil
}

// UniformLocation addresses one uniform of one program.
type UniformLocation struct {
	program *Program
	name    string
	index   int
}

type uniformValue struct {
	matrix [16]float32
	scalar int32
}

// Uniforms are the values stages read while drawing.
type Uniforms struct {
	index  map[string]int
	values []uniformValue
}

// Matrix returns a mat4 uniform as uploaded: column-major, so element
// (row, col) is at col*4+row.
func (u *Uniforms) Matrix(name string) [16]float32 {
	if i, ok := u.index[name]; ok {
		return u.values[i].matrix
	}
	return [16]float32{}
}

// Int returns an integer uniform.
func (u *Uniforms) Int(name string) int32 {
	if i, ok := u.index[name]; ok {
		return u.values[i].scalar
	}
	return 0
}
