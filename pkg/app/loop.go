package app

import (
	"context"
	"sync"
	"time"
)

// Loop drives frames at a fixed interval and runs input callbacks between
// them. Frames and callbacks run on the goroutine that calls Run, so neither
// needs locking against the other.
type Loop struct {
	Interval  time.Duration
	Frame     func() error
	MaxFrames int // stop after this many frames; 0 runs until stopped

	frames   int
	stop     chan struct{}
	initOnce sync.Once
	stopOnce sync.Once
}

// NewLoop returns a loop calling frame fps times a second.
func NewLoop(fps int, frame func() error) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		Interval: time.Second / time.Duration(fps),
		Frame:    frame,
		stop:     make(chan struct{}),
	}
}

// Stop makes Run return after the current frame or callback. It is safe to
// call from any goroutine, and more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan()) })
}

func (l *Loop) stopChan() chan struct{} {
	l.initOnce.Do(func() {
		if l.stop == nil {
			l.stop = make(chan struct{})
		}
	})
	return l.stop
}

// Frames returns the number of frames drawn so far.
func (l *Loop) Frames() int { return l.frames }

// Run draws a frame immediately and then once per interval until ctx is
// done, Stop is called, MaxFrames is reached, or a frame or callback fails.
// Callbacks received on inputs run in between frames. A nil inputs channel
// is fine. Cancellation and Stop are not errors.
func (l *Loop) Run(ctx context.Context, inputs <-chan func() error) error {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	stop := l.stopChan()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stop:
			return nil
		default:
		}

		if err := l.Frame(); err != nil {
			return err
		}
		l.frames++
		if l.MaxFrames > 0 && l.frames >= l.MaxFrames {
			return nil
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-stop:
				return nil
			case <-ticker.C:
				break wait
			case in, ok := <-inputs:
				if !ok {
					inputs = nil
					continue
				}
				if err := in(); err != nil {
					return err
				}
			}
		}
	}
}
