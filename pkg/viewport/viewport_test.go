package viewport

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/quadview/pkg/math3d"
)

type recordingTarget struct {
	rect   Rect
	matrix math3d.Mat4
	draws  int
	err    error
}

func (r *recordingTarget) SetViewport(x, y, w, h int) { r.rect = Rect{x, y, w, h} }
func (r *recordingTarget) SetTransform(m math3d.Mat4) { r.matrix = m }
func (r *recordingTarget) Draw() error {
	r.draws++
	return r.err
}

type recordingPicker struct {
	points []math3d.Vec4
}

func (r *recordingPicker) Pick(p math3d.Vec4) error {
	r.points = append(r.points, p)
	return nil
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRenderConfiguresTarget(t *testing.T) {
	target := &recordingTarget{}
	v := New("top-right", target, nil)

	m := math3d.Scale(2, 3, 4)
	if err := v.Render(10, 20, 30, 40, math3d.Identity(), m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := Rect{10, 20, 30, 40}
	if target.rect != want || v.Rect() != want {
		t.Errorf("rect = %v / %v, want %v", target.rect, v.Rect(), want)
	}
	if target.matrix != m || v.Matrix() != m {
		t.Errorf("matrix not stored")
	}
	if target.draws != 1 {
		t.Errorf("draws = %d, want 1", target.draws)
	}
}

func TestRenderDrawError(t *testing.T) {
	boom := errors.New("boom")
	v := New("x", &recordingTarget{err: boom}, nil)
	if err := v.Render(0, 0, 1, 1, math3d.Identity()); !errors.Is(err, boom) {
		t.Errorf("Render error = %v, want %v", err, boom)
	}
}

func TestHitBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"lower corner is open", 0, 0, false},
		{"upper corner is closed", 100, 100, true},
		{"centre", 50, 50, true},
		{"left edge", 0, 50, false},
		{"past right edge", 100.5, 50, false},
		{"below", 50, -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			picker := &recordingPicker{}
			v := New("v", &recordingTarget{}, picker)
			if err := v.Render(0, 0, 100, 100, math3d.Identity()); err != nil {
				t.Fatal(err)
			}

			got, err := v.Hit(tc.x, tc.y)
			if err != nil {
				t.Fatalf("Hit: %v", err)
			}
			if got != tc.want {
				t.Errorf("Hit(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
			if picked := len(picker.points) == 1; picked != tc.want {
				t.Errorf("picker called = %v, want %v", picked, tc.want)
			}
		})
	}
}

func TestHitUnprojects(t *testing.T) {
	picker := &recordingPicker{}
	v := New("v", &recordingTarget{}, picker)
	// Halving x means a pixel at ndc x maps back to model x*2.
	if err := v.Render(0, 0, 100, 100, math3d.Scale(0.5, 1, 1)); err != nil {
		t.Fatal(err)
	}

	if _, err := v.Hit(75, 100); err != nil {
		t.Fatal(err)
	}
	p := picker.points[0]
	if !approx(p.X, 1) || !approx(p.Y, 1) || !approx(p.Z, 0) || !approx(p.W, 1) {
		t.Errorf("picked %v, want (1, 1, 0, 1)", p)
	}
}

func TestHitNoPerspectiveDivide(t *testing.T) {
	picker := &recordingPicker{}
	v := New("v", &recordingTarget{}, picker)
	m := math3d.Identity()
	m.Set(3, 3, 2)
	if err := v.Render(0, 0, 100, 100, m); err != nil {
		t.Fatal(err)
	}

	if _, err := v.Hit(75, 75); err != nil {
		t.Fatal(err)
	}
	p := picker.points[0]
	if !approx(p.X, 0.5) || !approx(p.Y, 0.5) || !approx(p.W, 0.5) {
		t.Errorf("picked %v, want raw (0.5, 0.5, 0, 0.5)", p)
	}
}

func TestHitSingularMatrix(t *testing.T) {
	picker := &recordingPicker{}
	v := New("v", &recordingTarget{}, picker)
	if err := v.Render(0, 0, 100, 100, math3d.Scale(0, 1, 1)); err != nil {
		t.Fatal(err)
	}

	_, err := v.Hit(50, 50)
	if !errors.Is(err, math3d.ErrSingular) {
		t.Errorf("Hit error = %v, want ErrSingular", err)
	}
	if len(picker.points) != 0 {
		t.Error("picker called for singular transform")
	}
}

func TestHitBeforeRender(t *testing.T) {
	picker := &recordingPicker{}
	v := New("v", &recordingTarget{}, picker)
	for _, p := range [][2]float64{{0, 0}, {1, 1}, {-1, -1}} {
		if ok, err := v.Hit(p[0], p[1]); ok || err != nil {
			t.Errorf("Hit(%v) = %v, %v before any render", p, ok, err)
		}
	}
}

func TestViewportsPartitionCanvas(t *testing.T) {
	const w, h = 10, 8
	cw, ch := w/2, h/2
	vs := []*Viewport{
		New("top-left", &recordingTarget{}, nil),
		New("top-right", &recordingTarget{}, nil),
		New("bottom-left", &recordingTarget{}, nil),
		New("bottom-right", &recordingTarget{}, nil),
	}
	rects := []Rect{{0, ch, cw, ch}, {cw, ch, cw, ch}, {0, 0, cw, ch}, {cw, 0, cw, ch}}
	for i, v := range vs {
		r := rects[i]
		if err := v.Render(r.X, r.Y, r.Width, r.Height, math3d.Identity()); err != nil {
			t.Fatal(err)
		}
	}

	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			n := 0
			for _, v := range vs {
				ok, err := v.Hit(float64(x), float64(y))
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					n++
				}
			}
			if n > 1 {
				t.Errorf("pixel (%d,%d) accepted by %d viewports", x, y, n)
			}
		}
	}
}

func TestPickerFunc(t *testing.T) {
	var got math3d.Vec4
	v := New("v", &recordingTarget{}, PickerFunc(func(p math3d.Vec4) error {
		got = p
		return nil
	}))
	if err := v.Render(0, 0, 2, 2, math3d.Identity()); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Hit(2, 2); err != nil {
		t.Fatal(err)
	}
	if !approx(got.X, 1) || !approx(got.Y, 1) {
		t.Errorf("picked %v, want (1, 1)", got)
	}
}
