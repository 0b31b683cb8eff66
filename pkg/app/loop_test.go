package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopMaxFrames(t *testing.T) {
	n := 0
	l := NewLoop(1000, func() error { n++; return nil })
	l.MaxFrames = 3

	if err := l.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 3 || l.Frames() != 3 {
		t.Errorf("frames = %d (%d), want 3", n, l.Frames())
	}
}

func TestLoopFrameError(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	l := NewLoop(1000, func() error {
		n++
		if n == 2 {
			return boom
		}
		return nil
	})

	if err := l.Run(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Run = %v, want %v", err, boom)
	}
	if n != 2 {
		t.Errorf("frames = %d, want 2", n)
	}
}

func TestLoopStopFromInput(t *testing.T) {
	l := NewLoop(1, func() error { return nil })
	inputs := make(chan func() error, 1)
	inputs <- func() error {
		l.Stop()
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background(), inputs) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	if l.Frames() != 1 {
		t.Errorf("frames = %d, want 1", l.Frames())
	}
}

func TestLoopInputError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoop(1, func() error { return nil })
	inputs := make(chan func() error, 1)
	inputs <- func() error { return boom }

	if err := l.Run(context.Background(), inputs); !errors.Is(err, boom) {
		t.Errorf("Run = %v, want %v", err, boom)
	}
}

func TestLoopContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(1000, func() error { return nil })
	inputs := make(chan func() error)

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, inputs) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop ignored cancellation")
	}
}

func TestLoopClosedInputs(t *testing.T) {
	inputs := make(chan func() error)
	close(inputs)
	l := NewLoop(1000, func() error { return nil })
	l.MaxFrames = 2

	if err := l.Run(context.Background(), inputs); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 2 {
		t.Errorf("frames = %d, want 2", l.Frames())
	}
}

func TestLoopStopBeforeRun(t *testing.T) {
	l := &Loop{Frame: func() error { t.Error("frame ran after Stop"); return nil }}
	l.Stop()
	l.Stop()
	if err := l.Run(context.Background(), nil); err != nil {
		t.Errorf("Run = %v", err)
	}
}
