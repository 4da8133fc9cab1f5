package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Comb is a feedback comb delay built on a Line.
//
// Each Process call reads the sample delay steps back, writes the input plus
// feedback times that sample, and returns what was read. With zero feedback
// it is a pure delay.
type Comb struct {
	line     *Line
	delay    int
	feedback float64
}

// NewComb returns a comb with the given capacity, delay and feedback.
// The delay is clamped into [1, capacity].
func NewComb(capacity, delay int, feedback float64) (*Comb, error) {
	line, err := New(capacity)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return nil, fmt.Errorf("delay feedback must be finite: %f", feedback)
	}

	c := &Comb{line: line, feedback: feedback}
	c.SetDelay(delay)
	return c, nil
}

// Capacity returns the largest delay the comb can hold.
func (c *Comb) Capacity() int {
	return c.line.Len()
}

// Delay returns the current delay length in samples.
func (c *Comb) Delay() int {
	return c.delay
}

// Feedback returns the current feedback gain.
func (c *Comb) Feedback() float64 {
	return c.feedback
}

// SetDelay updates the delay length, clamped into [1, capacity].
func (c *Comb) SetDelay(delay int) {
	if delay < 1 {
		delay = 1
	}
	if n := c.line.Len(); delay > n {
		delay = n
	}
	c.delay = delay
}

// SetFeedback updates the feedback gain. Non-finite values are ignored.
func (c *Comb) SetFeedback(feedback float64) {
	if !core.IsFinite(feedback) {
		return
	}
	c.feedback = feedback
}

// Process runs one sample through the comb.
func (c *Comb) Process(x float64) float64 {
	y := c.line.Read(c.delay)
	c.line.Write(core.FlushDenormals(x + c.feedback*y))
	return y
}

// ProcessInPlace runs buf through the comb.
func (c *Comb) ProcessInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = c.Process(v)
	}
}

// Reset clears the delay memory.
func (c *Comb) Reset() {
	c.line.Reset()
}
