package markup

import (
	"fmt"
	"math"
	"strings"
)

// Default timing for the 60-second laugh sequence: each laugh plays for
// 1.5s followed by a 0.5s break, 30 cycles over 60 seconds.
const (
	LaughBehavior        = "Bht_Vg_Laugh_Big_Fourcount"
	DefaultLaughTotal    = 60.0
	DefaultLaughDuration = 1.5
	DefaultLaughGap      = 0.5
)

// BuildTimedSequence renders a single markup string that plays the given
// behavior repeatedly for approximately totalSeconds. The sequence holds
// n = floor(totalSeconds / (behaviorSeconds + gapSeconds)) behavior elements
// (minimum one) separated by n-1 break elements, so it always starts and
// ends on a behavior. The realized duration is n*behaviorSeconds +
// (n-1)*gapSeconds, which undershoots totalSeconds by less than one cycle;
// callers accept the approximation.
//
// The output is deterministic: identical inputs yield byte-identical markup.
func BuildTimedSequence(totalSeconds float64, behavior string, behaviorSeconds, gapSeconds float64) (string, error) {
	if behavior == "" {
		return "", fmt.Errorf("%w: behavior is required", ErrInvalidParameter)
	}
	if behaviorSeconds <= 0 {
		return "", fmt.Errorf("%w: behavior duration must be positive, got %s",
			ErrInvalidParameter, FormatSeconds(behaviorSeconds))
	}
	if gapSeconds < 0 {
		return "", fmt.Errorf("%w: gap must be non-negative, got %s",
			ErrInvalidParameter, FormatSeconds(gapSeconds))
	}
	if totalSeconds <= 0 {
		return "", fmt.Errorf("%w: total duration must be positive, got %s",
			ErrInvalidParameter, FormatSeconds(totalSeconds))
	}

	cycle := behaviorSeconds + gapSeconds
	n := int(math.Floor(totalSeconds / cycle))
	if n < 1 {
		// A request shorter than one behavior still plays the behavior once.
		n = 1
	}

	element := BehaviorElement(behavior, behaviorSeconds)
	pause := BreakElement(gapSeconds)

	parts := make([]string, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			parts = append(parts, pause)
		}
		parts = append(parts, element)
	}

	return strings.Join(parts, " "), nil
}

// RealizedDuration reports the playback time of a sequence built with the
// given parameters: n behaviors plus n-1 gaps.
func RealizedDuration(totalSeconds, behaviorSeconds, gapSeconds float64) float64 {
	cycle := behaviorSeconds + gapSeconds
	n := math.Floor(totalSeconds / cycle)
	if n < 1 {
		n = 1
	}
	return n*behaviorSeconds + (n-1)*gapSeconds
}

// LaughSequence builds the stock 60-second big-fourcount laugh sequence.
func LaughSequence() string {
	seq, err := BuildTimedSequence(DefaultLaughTotal, LaughBehavior, DefaultLaughDuration, DefaultLaughGap)
	if err != nil {
		// Constants above satisfy the validation rules.
		panic(err)
	}
	return seq
}
