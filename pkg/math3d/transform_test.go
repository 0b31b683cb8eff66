package math3d

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func matApproxEqual(a, b Mat4) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func vec4ApproxEqual(a, b Vec4) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Z-b.Z) < eps && math.Abs(a.W-b.W) < eps
}

func TestTranslateMovesPoint(t *testing.T) {
	p := Apply(V4(1, 2, 3, 1), Translate(10, 20, 30))
	want := V4(11, 22, 33, 1)
	if !vec4ApproxEqual(p, want) {
		t.Errorf("got %v, want %v", p, want)
	}

	// Translation lives in the bottom row.
	m := Translate(4, 5, 6)
	if m.At(3, 0) != 4 || m.At(3, 1) != 5 || m.At(3, 2) != 6 {
		t.Errorf("bottom row = %v, want [4 5 6 1]", m.Row(3))
	}
	if m.At(0, 3) != 0 || m.At(1, 3) != 0 || m.At(2, 3) != 0 {
		t.Errorf("last column = %v, want [0 0 0 1]", m.Col(3))
	}
}

func TestScaleDiagonal(t *testing.T) {
	m := Scale(2, 3, 4)
	for i, want := range []float64{2, 3, 4, 1} {
		if got := m.At(i, i); got != want {
			t.Errorf("At(%d,%d) = %v, want %v", i, i, got, want)
		}
	}
	p := Apply(V4(1, 1, 1, 1), m)
	if !vec4ApproxEqual(p, V4(2, 3, 4, 1)) {
		t.Errorf("scaled point = %v", p)
	}
}

func TestRotationLayouts(t *testing.T) {
	a := 0.3
	c, s := math.Cos(a), math.Sin(a)

	tests := []struct {
		name string
		m    Mat4
		rows [4][4]float64
	}{
		{"x", RotateX(a), [4][4]float64{{1, 0, 0, 0}, {0, c, s, 0}, {0, -s, c, 0}, {0, 0, 0, 1}}},
		{"y", RotateY(a), [4][4]float64{{c, 0, -s, 0}, {0, 1, 0, 0}, {s, 0, c, 0}, {0, 0, 0, 1}}},
		{"z", RotateZ(a), [4][4]float64{{c, s, 0, 0}, {-s, c, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for r := range 4 {
				for col := range 4 {
					if got := tc.m.At(r, col); math.Abs(got-tc.rows[r][col]) > eps {
						t.Errorf("At(%d,%d) = %v, want %v", r, col, got, tc.rows[r][col])
					}
				}
			}
		})
	}
}

func TestRotateXQuarterTurn(t *testing.T) {
	// Row-vector convention: y rotates into z.
	p := Apply(V4(0, 1, 0, 1), RotateX(math.Pi/2))
	if !vec4ApproxEqual(p, V4(0, 0, 1, 1)) {
		t.Errorf("got %v, want (0, 0, 1, 1)", p)
	}
}

func TestProjectionFudge(t *testing.T) {
	m := Projection(0.5)
	if m.At(2, 3) != 0.5 {
		t.Errorf("At(2,3) = %v, want 0.5", m.At(2, 3))
	}
	p := Apply(V4(1, 1, 2, 1), m)
	if !vec4ApproxEqual(p, V4(1, 1, 2, 2)) {
		t.Errorf("got %v, want w = 1 + z*fudge = 2", p)
	}
}

func TestComposeSingle(t *testing.T) {
	m := Compose(RotateX(0.7), Translate(1, 2, 3))
	if got := Compose(m); got != m {
		t.Errorf("Compose(M) = %v, want M unchanged", got)
	}
}

func TestComposeEmptyIsIdentity(t *testing.T) {
	if got := Compose(); got != Identity() {
		t.Errorf("Compose() = %v, want identity", got)
	}
}

func TestComposeRightFold(t *testing.T) {
	a := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	b := Mat4{
		2, 0, 1, 0,
		0, 3, 0, 1,
		1, 0, 2, 0,
		0, 1, 0, 4,
	}
	c := Mat4{
		1, 1, 0, 0,
		0, 1, 1, 0,
		0, 0, 1, 1,
		1, 0, 0, 1,
	}

	want := a.Mul4(b.Mul4(c))
	if got := Compose(a, b, c); !matApproxEqual(got, want) {
		t.Errorf("Compose(A,B,C) = %v, want A·(B·C) = %v", got, want)
	}
}

func TestComposeAppliesLeftToRight(t *testing.T) {
	// Scale first, then translate: p·S·T.
	m := Compose(Scale(2, 2, 2), Translate(1, 0, 0))
	p := Apply(V4(1, 1, 1, 1), m)
	if !vec4ApproxEqual(p, V4(3, 2, 2, 1)) {
		t.Errorf("got %v, want (3, 2, 2, 1)", p)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Compose(
		Identity(),
		RotateY(0.4),
		RotateX(-0.9),
		Translate(0, 0, 1),
		Projection(0.5),
		Scale(0.5/1.5, 0.5, 0.5),
	)
	inv, err := Inverse(m)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if !matApproxEqual(m.Mul4(inv), Identity()) {
		t.Errorf("M·M⁻¹ = %v, want identity", m.Mul4(inv))
	}

	p := V4(0.25, -0.5, 0.1, 1)
	back := Apply(Apply(p, m), inv)
	if !vec4ApproxEqual(back, p) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestInverseSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"zero scale", Scale(0, 1, 1)},
		{"zero matrix", Mat4{}},
		{"nan", Scale(math.NaN(), 1, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Inverse(tc.m)
			if !errors.Is(err, ErrSingular) {
				t.Errorf("err = %v, want ErrSingular", err)
			}
		})
	}
}

func TestFlattenRowMajor(t *testing.T) {
	f := Flatten(Translate(7, 8, 9))
	want := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		7, 8, 9, 1,
	}
	if f != want {
		t.Errorf("Flatten = %v, want %v", f, want)
	}
}
