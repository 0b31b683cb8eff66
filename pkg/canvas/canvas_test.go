package canvas

import "testing"

func TestResizeToDisplaySize(t *testing.T) {
	c := &Canvas{ClientWidth: 800, ClientHeight: 600, PixelRatio: 2, Width: 800, Height: 600}

	if !ResizeToDisplaySize(c) {
		t.Fatal("first resize reported no change")
	}
	if c.Width != 1600 || c.Height != 1200 {
		t.Errorf("size = %dx%d, want 1600x1200", c.Width, c.Height)
	}
	if ResizeToDisplaySize(c) {
		t.Error("second resize reported a change")
	}
}

func TestResizeToDisplaySizeRatio(t *testing.T) {
	tests := []struct {
		name          string
		client        [2]float64
		ratio         float64
		width, height int
	}{
		{"unset ratio", [2]float64{80, 24}, 0, 80, 24},
		{"negative ratio", [2]float64{80, 24}, -1, 80, 24},
		{"fractional truncates", [2]float64{101, 51}, 1.5, 151, 76},
		{"empty", [2]float64{0, 0}, 2, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.client[0], tc.client[1], tc.ratio)
			ResizeToDisplaySize(c)
			if c.Width != tc.width || c.Height != tc.height {
				t.Errorf("size = %dx%d, want %dx%d", c.Width, c.Height, tc.width, tc.height)
			}
		})
	}
}

func TestAspect(t *testing.T) {
	c := New(0, 0, 1)
	if got := c.Aspect(); got != 1 {
		t.Errorf("empty aspect = %v, want 1", got)
	}
	c.Width, c.Height = 200, 100
	if got := c.Aspect(); got != 2 {
		t.Errorf("aspect = %v, want 2", got)
	}
}
