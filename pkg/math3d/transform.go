package math3d

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix addressed as (row, col).
//
// Points are row vectors multiplied on the left, p' = p · M, so a chain
// Compose(A, B, C) applies A first and C last. Translation lives in the
// bottom row:
//
//	| Xx Xy Xz 0 |
//	| Yx Yy Yz 0 |
//	| Zx Zy Zz 0 |
//	| Tx Ty Tz 1 |
type Mat4 = mgl64.Mat4

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("matrix is singular")

func rows(r0, r1, r2, r3 mgl64.Vec4) Mat4 {
	return mgl64.Mat4FromRows(r0, r1, r2, r3)
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return mgl64.Ident4()
}

// Projection returns the identity with fudge in (row 2, col 3), so w picks up
// z*fudge and farther points shrink after the divide.
func Projection(fudge float64) Mat4 {
	return rows(
		mgl64.Vec4{1, 0, 0, 0},
		mgl64.Vec4{0, 1, 0, 0},
		mgl64.Vec4{0, 0, 1, fudge},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return rows(
		mgl64.Vec4{1, 0, 0, 0},
		mgl64.Vec4{0, c, s, 0},
		mgl64.Vec4{0, -s, c, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return rows(
		mgl64.Vec4{c, 0, -s, 0},
		mgl64.Vec4{0, 1, 0, 0},
		mgl64.Vec4{s, 0, c, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return rows(
		mgl64.Vec4{c, s, 0, 0},
		mgl64.Vec4{-s, c, 0, 0},
		mgl64.Vec4{0, 0, 1, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// Scale creates a scaling matrix.
func Scale(x, y, z float64) Mat4 {
	return rows(
		mgl64.Vec4{x, 0, 0, 0},
		mgl64.Vec4{0, y, 0, 0},
		mgl64.Vec4{0, 0, z, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// Translate creates a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return rows(
		mgl64.Vec4{1, 0, 0, 0},
		mgl64.Vec4{0, 1, 0, 0},
		mgl64.Vec4{0, 0, 1, 0},
		mgl64.Vec4{x, y, z, 1},
	)
}

// Compose multiplies a chain of matrices as a right fold:
// Compose(A, B, C) = A · (B · C). An empty chain is the identity.
func Compose(ms ...Mat4) Mat4 {
	switch len(ms) {
	case 0:
		return Identity()
	case 1:
		return ms[0]
	}
	return ms[0].Mul4(Compose(ms[1:]...))
}

// Inverse returns the inverse of m, or ErrSingular if m cannot be inverted.
func Inverse(m Mat4) (Mat4, error) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Mat4{}, fmt.Errorf("invert (det=%g): %w", det, ErrSingular)
	}
	return m.Inv(), nil
}

// Apply transforms the row vector p by m, returning p · m.
func Apply(p Vec4, m Mat4) Vec4 {
	r := m.Transpose().Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, p.W})
	return Vec4{r[0], r[1], r[2], r[3]}
}

// Flatten returns m row by row. Uploaded to a GL-style uniform without
// transposition, the shader's M * v then equals p · m.
func Flatten(m Mat4) [16]float32 {
	var out [16]float32
	for row := range 4 {
		for col := range 4 {
			out[row*4+col] = float32(m.At(row, col))
		}
	}
	return out
}
