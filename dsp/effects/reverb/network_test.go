package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := New(48000, WithCapacity(0)); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := New(48000, WithStereoSpread(-1)); err == nil {
		t.Fatal("expected error for negative spread")
	}
}

func TestDefaults(t *testing.T) {
	n, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if n.Capacity() != defaultCapacity {
		t.Fatalf("Capacity() = %d, want %d", n.Capacity(), defaultCapacity)
	}
	if got := n.Stage(0, 0); got.Delay != 10000 || got.Frequency != 1000 || got.Q != 2 {
		t.Fatalf("default stage 1 = %+v", got)
	}
}

func TestUpdateStageOffsets(t *testing.T) {
	n, err := New(48000, WithStereoSpread(10))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n.Update(6000, 0.3, 1000, 2)

	want := []StageSettings{
		{Delay: 10000, Feedback: 0.3, Frequency: 1000, Q: 2},
		{Delay: 6000, Feedback: 0.1, Frequency: 800, Q: 2},
		{Delay: 4400, Feedback: 0.5, Frequency: 1200, Q: 2},
	}

	for i, w := range want {
		got := n.Stage(0, i)
		if got.Delay != w.Delay || math.Abs(got.Feedback-w.Feedback) > 1e-12 ||
			got.Frequency != w.Frequency || got.Q != w.Q {
			t.Fatalf("left stage %d = %+v, want %+v", i, got, w)
		}

		right := n.Stage(1, i)
		if right.Delay != w.Delay+10 {
			t.Fatalf("right stage %d delay = %d, want %d", i, right.Delay, w.Delay+10)
		}
	}
}

func TestUpdateClamps(t *testing.T) {
	n, err := New(48000, WithCapacity(50000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n.Update(49000, 0.9, 10, 0.5)
	if got := n.Stage(0, 0).Delay; got != 50000 {
		t.Fatalf("stage 1 delay = %d, want capacity", got)
	}
	if got := n.Stage(0, 2).Feedback; got != maxFeedback {
		t.Fatalf("stage 3 feedback = %v, want %v", got, maxFeedback)
	}
	if got := n.Stage(0, 1).Frequency; got != minFrequency {
		t.Fatalf("stage 2 frequency = %v, want %v", got, minFrequency)
	}

	n.Update(-5000, -1, 1e6, 1)
	for i := 0; i < numStages; i++ {
		s := n.Stage(0, i)
		if s.Delay != 1 {
			t.Fatalf("stage %d delay = %d, want 1", i, s.Delay)
		}
		if s.Feedback < 0 {
			t.Fatalf("stage %d feedback = %v, want >= 0", i, s.Feedback)
		}
		if s.Frequency > 0.45*48000 {
			t.Fatalf("stage %d frequency = %v above band", i, s.Frequency)
		}
	}
}

func TestCrossFedArrivalTimes(t *testing.T) {
	n, err := New(48000, WithCapacity(10000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.Update(2000, 0, 1000, 2)

	// Left chain: right line 3 (437) + left line 2 (2000) + right line 1 (6037).
	// Right chain: left line 3 (400) + right line 2 (2037) + left line 1 (6000).
	const wantLeft, wantRight = 8474, 8437

	firstLeft, firstRight := -1, -1
	for i := 0; i < 9000; i++ {
		x := 0.0
		if i == 0 {
			x = 1
		}
		l, r := n.Process(x)
		if firstLeft < 0 && l != 0 {
			firstLeft = i
		}
		if firstRight < 0 && r != 0 {
			firstRight = i
		}
	}

	if firstLeft != wantLeft {
		t.Fatalf("left arrival at %d, want %d", firstLeft, wantLeft)
	}
	if firstRight != wantRight {
		t.Fatalf("right arrival at %d, want %d", firstRight, wantRight)
	}
}

func TestZeroSpreadIsMono(t *testing.T) {
	n, err := New(48000, WithCapacity(5000), WithStereoSpread(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.Update(500, 0.4, 1500, 1)

	for i, x := range testutil.DeterministicNoise(3, 1, 4000) {
		l, r := n.Process(x)
		if l != r {
			t.Fatalf("sample %d: left %v != right %v", i, l, r)
		}
	}
}

func TestOutputFiniteAtMaxFeedback(t *testing.T) {
	n, err := New(48000, WithCapacity(4000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.Update(300, 1, 5000, 10)

	left := make([]float64, 48000)
	right := make([]float64, 48000)
	in := testutil.DeterministicNoise(5, 0.5, len(left))
	for i, x := range in {
		left[i], right[i] = n.Process(x)
	}

	testutil.RequireFinite(t, left)
	testutil.RequireFinite(t, right)
}

func TestReset(t *testing.T) {
	n, err := New(48000, WithCapacity(1000))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n.Update(10, 0.5, 1000, 1)

	for _, x := range testutil.DeterministicNoise(9, 1, 5000) {
		n.Process(x)
	}
	n.Reset()

	for i := 0; i < 2000; i++ {
		if l, r := n.Process(0); l != 0 || r != 0 {
			t.Fatalf("sample %d after reset: %v %v", i, l, r)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	n, err := New(48000)
	if err != nil {
		b.Fatal(err)
	}
	in := testutil.DeterministicNoise(1, 1, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range in {
			n.Process(x)
		}
	}
}
