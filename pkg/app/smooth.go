package app

import "github.com/charmbracelet/harmonica"

// smoother eases the displayed view angles toward the dragged ones with a
// spring per axis.
type smoother struct {
	spring harmonica.Spring
	pos    [2]float64
	vel    [2]float64
}

func newSmoother(fps int, frequency, damping float64) *smoother {
	return &smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// update advances one frame toward target and returns the displayed angles.
func (s *smoother) update(target [2]float64) [2]float64 {
	for i := range s.pos {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target[i])
	}
	return s.pos
}

func (s *smoother) reset() {
	s.pos = [2]float64{}
	s.vel = [2]float64{}
}
