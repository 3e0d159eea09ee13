package markup

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestBuildTimedSequenceLaughTiming(t *testing.T) {
	// 1.5s laugh + 0.5s break = 2.0s cycle, 30 cycles over 60 seconds.
	seq, err := BuildTimedSequence(60, LaughBehavior, 1.5, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}

	behaviors := BehaviorElements(seq)
	if len(behaviors) != 30 {
		t.Fatalf("expected 30 behavior elements, got %d", len(behaviors))
	}

	breaks := BreakElements(seq)
	if len(breaks) != 29 {
		t.Fatalf("expected 29 break elements, got %d", len(breaks))
	}

	realized := RealizedDuration(60, 1.5, 0.5)
	if realized != 59.5 {
		t.Fatalf("expected realized duration 59.5, got %v", realized)
	}
}

func TestBuildTimedSequenceUnevenCycle(t *testing.T) {
	// 2.0s + 0.3s = 2.3s cycle; floor(60/2.3) = 26 behaviors, 25 breaks.
	seq, err := BuildTimedSequence(60, "Bht_Spin_360", 2.0, 0.3)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}

	if got := len(BehaviorElements(seq)); got != 26 {
		t.Fatalf("expected 26 behavior elements, got %d", got)
	}
	if got := len(BreakElements(seq)); got != 25 {
		t.Fatalf("expected 25 break elements, got %d", got)
	}

	realized := RealizedDuration(60, 2.0, 0.3)
	if math.Abs(realized-59.5) > 1e-9 {
		t.Fatalf("expected realized duration 59.5, got %v", realized)
	}
}

func TestRealizedDurationBounds(t *testing.T) {
	cases := []struct {
		total, behavior, gap float64
	}{
		{60, 1.5, 0.5},
		{60, 2.0, 0.3},
		{45, 3.0, 1.0},
		{10, 1.0, 0.0},
		{7, 2.5, 0.25},
	}

	for _, tc := range cases {
		cycle := tc.behavior + tc.gap
		realized := RealizedDuration(tc.total, tc.behavior, tc.gap)
		if realized > tc.total {
			t.Errorf("total=%v behavior=%v gap=%v: realized %v exceeds target",
				tc.total, tc.behavior, tc.gap, realized)
		}
		if realized <= tc.total-cycle {
			t.Errorf("total=%v behavior=%v gap=%v: realized %v undershoots by a full cycle",
				tc.total, tc.behavior, tc.gap, realized)
		}
	}
}

func TestBuildTimedSequenceShorterThanOneBehavior(t *testing.T) {
	seq, err := BuildTimedSequence(1, "Bht_Startled", 2.0, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}

	if got := len(BehaviorElements(seq)); got != 1 {
		t.Fatalf("expected exactly 1 behavior element, got %d", got)
	}
	if got := len(BreakElements(seq)); got != 0 {
		t.Fatalf("expected no break elements, got %d", got)
	}
}

func TestBuildTimedSequenceInvalidParameters(t *testing.T) {
	cases := []struct {
		name                 string
		total, behavior, gap float64
	}{
		{"zero behavior duration", 60, 0, 0.5},
		{"negative behavior duration", 60, -1.5, 0.5},
		{"negative gap", 60, 1.5, -0.5},
		{"zero total", 0, 1.5, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seq, err := BuildTimedSequence(tc.total, "Bht_Spin_360", tc.behavior, tc.gap)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if seq != "" {
				t.Fatalf("expected no markup on error, got %q", seq)
			}
		})
	}
}

func TestBuildTimedSequenceStartsAndEndsWithBehavior(t *testing.T) {
	seq, err := BuildTimedSequence(20, LaughBehavior, 1.5, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}

	if !strings.HasPrefix(seq, `<mark name="cmd:behaviour-tree`) {
		t.Fatalf("sequence must start with a behavior element: %q", seq[:40])
	}
	if !strings.HasSuffix(seq, `"/>`) || strings.HasSuffix(seq, BreakElement(0.5)) {
		t.Fatalf("sequence must not end with a break element")
	}
}

func TestBuildTimedSequenceDeterministic(t *testing.T) {
	first, err := BuildTimedSequence(60, LaughBehavior, 1.5, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}
	second, err := BuildTimedSequence(60, LaughBehavior, 1.5, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}
	if first != second {
		t.Fatal("identical inputs must yield byte-identical markup")
	}
}

func TestBreakElementsMatchStructurally(t *testing.T) {
	// Break detection must key on the element tag and time attribute, not
	// on whitespace splitting: behaviour-tree marks contain spaces.
	seq, err := BuildTimedSequence(10, LaughBehavior, 1.5, 0.5)
	if err != nil {
		t.Fatalf("BuildTimedSequence: %v", err)
	}

	times := BreakTimes(seq)
	if len(times) == 0 {
		t.Fatal("expected break elements")
	}
	for i, tm := range times {
		if tm != "0.5s" {
			t.Fatalf("break %d has time %q, want 0.5s", i, tm)
		}
	}

	for _, el := range BreakElements(seq) {
		if el != `<break time="0.5s"/>` {
			t.Fatalf("malformed break element %q", el)
		}
	}
}

func TestLaughSequence(t *testing.T) {
	seq := LaughSequence()

	tokens := BehaviorTokens(seq)
	if len(tokens) != 30 {
		t.Fatalf("expected 30 laugh commands, got %d", len(tokens))
	}
	for _, token := range tokens {
		if token != LaughBehavior {
			t.Fatalf("unexpected behavior token %q", token)
		}
	}
	if got := strings.Count(seq, `<break time="0.5s"/>`); got != 29 {
		t.Fatalf("expected 29 breaks, got %d", got)
	}
}
