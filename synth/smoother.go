package synth

import "math"

// smoother ramps a value to its target over a fixed number of samples.
type smoother struct {
	style SmoothingStyle
	steps int

	current float64
	target  float64

	step           float64
	multiplicative bool
	remaining      int
}

func (s *smoother) configure(style SmoothingStyle, ms, sampleRate float64) {
	s.style = style
	s.steps = int(math.Round(ms / 1000 * sampleRate))

	if style == SmoothNone {
		s.steps = 0
	}
}

func (s *smoother) reset(v float64) {
	s.current = v
	s.target = v
	s.remaining = 0
}

func (s *smoother) setTarget(target float64) {
	if target == s.target {
		return
	}

	s.target = target

	if s.steps <= 0 {
		s.reset(target)
		return
	}

	s.remaining = s.steps
	n := float64(s.steps)

	if s.style == SmoothLogarithmic && s.current != 0 && target != 0 && (s.current > 0) == (target > 0) {
		s.multiplicative = true
		s.step = math.Pow(target/s.current, 1/n)

		return
	}

	s.multiplicative = false
	s.step = (target - s.current) / n
}

func (s *smoother) next() float64 {
	if s.remaining == 0 {
		return s.current
	}

	s.remaining--

	switch {
	case s.remaining == 0:
		s.current = s.target
	case s.multiplicative:
		s.current *= s.step
	default:
		s.current += s.step
	}

	return s.current
}
