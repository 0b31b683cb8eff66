package gpu

import (
	"errors"
	"fmt"

	"github.com/taigrr/quadview/pkg/math3d"
)

// ErrElementType is returned when buffer data does not match its declared
// element type.
var ErrElementType = errors.New("element type mismatch")

// ElementType tags the component type of buffer data.
type ElementType int

const (
	Float32 ElementType = iota + 1
	Uint8
)

func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint8:
		return "uint8"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// Buffer is an array buffer feeding one program attribute. Components are
// tightly packed: vertex i starts at element i*size.
type Buffer struct {
	program  *Program
	name     string
	location int

	typ    ElementType
	floats []float32
	bytes  []uint8

	size       int
	normalized bool
	enabled    bool
}

// Data replaces the buffer contents. typ must describe data: Float32 with
// []float32, Uint8 with []uint8. The slice is copied.
func (b *Buffer) Data(typ ElementType, data any) error {
	switch typ {
	case Float32:
		v, ok := data.([]float32)
		if !ok {
			return fmt.Errorf("buffer %q: %w: %v with %T", b.name, ErrElementType, typ, data)
		}
		b.floats = append(b.floats[:0], v...)
		b.bytes = nil
		Logger().Debug("buffer upload", "attribute", b.name, "type", typ.String(), "elements", len(v))
	case Uint8:
		v, ok := data.([]uint8)
		if !ok {
			return fmt.Errorf("buffer %q: %w: %v with %T", b.name, ErrElementType, typ, data)
		}
		b.bytes = append(b.bytes[:0], v...)
		b.floats = nil
		Logger().Debug("buffer upload", "attribute", b.name, "type", typ.String(), "elements", len(v))
	default:
		return fmt.Errorf("buffer %q: %w: unknown %v", b.name, ErrElementType, typ)
	}
	b.typ = typ
	return nil
}

// Bind points the attribute at this buffer with size components per vertex
// and enables it. Normalized byte data maps to [0, 1].
func (b *Buffer) Bind(size int, normalized bool) {
	b.size = min(max(size, 1), 4)
	b.normalized = normalized
	b.enabled = true
	b.program.buffers[b.location] = b
}

// Len returns the number of elements stored.
func (b *Buffer) Len() int {
	if b.typ == Float32 {
		return len(b.floats)
	}
	return len(b.bytes)
}

// vertexCount returns how many whole vertices the buffer holds at its bound size.
func (b *Buffer) vertexCount() int {
	if b.size == 0 {
		return 0
	}
	return b.Len() / b.size
}

// fetch reads vertex i, filling unspecified components with (0, 0, 0, 1).
func (b *Buffer) fetch(i int) math3d.Vec4 {
	c := [4]float64{0, 0, 0, 1}
	base := i * b.size
	for k := range b.size {
		switch b.typ {
		case Float32:
			c[k] = float64(b.floats[base+k])
		case Uint8:
			c[k] = float64(b.bytes[base+k])
			if b.normalized {
				c[k] /= 255
			}
		}
	}
	return math3d.V4(c[0], c[1], c[2], c[3])
}
