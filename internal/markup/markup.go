// Package markup builds the instruction markup sent to Moxie devices and
// renders timed behavior sequences.
package markup

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Markup errors.
var (
	ErrInvalidParameter = errors.New("invalid timing parameter")
)

var (
	breakElementRe    = regexp.MustCompile(`<break[^>]*\btime="([^"]+)"[^>]*/?>`)
	behaviorElementRe = regexp.MustCompile(`<mark name="cmd:behaviour-tree[^>]*/>`)
	behaviourTokenRe  = regexp.MustCompile(`\+behaviour\+:\+([^+]+)\+`)
)

// FormatSeconds renders a duration value the way device markup expects:
// no exponent, no trailing zeros ("1.5", "0.5", "2").
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// BehaviorElement renders a single non-blocking behaviour-tree command with
// an explicit play duration. Used by timed sequences, where the device must
// not queue behaviors behind each other.
func BehaviorElement(behavior string, durationSeconds float64) string {
	var b strings.Builder
	b.WriteString(`<mark name="cmd:behaviour-tree,data:{+transition+:0.1,+duration+:`)
	b.WriteString(FormatSeconds(durationSeconds))
	b.WriteString(`,+repeat+:1,+layerBlendInTime+:0.1,+layerBlendOutTime+:0.1,+blocking+:false,+action+:0,+eventName+:+Gesture_None+,+category+:+None+,+behaviour+:+`)
	b.WriteString(behavior)
	b.WriteString(`+,+Track+:++}"/>`)
	return b.String()
}

// BreakElement renders a timed pause between behaviors.
func BreakElement(seconds float64) string {
	return `<break time="` + FormatSeconds(seconds) + `s"/>`
}

// BreakElements returns every complete break element in the markup, in order.
// Callers must match elements structurally like this, never by splitting on
// whitespace: behaviour-tree marks contain spaces and a token split tears
// them apart.
func BreakElements(markup string) []string {
	return breakElementRe.FindAllString(markup, -1)
}

// BreakTimes returns the time attribute of every break element, in order.
func BreakTimes(markup string) []string {
	matches := breakElementRe.FindAllStringSubmatch(markup, -1)
	times := make([]string, 0, len(matches))
	for _, m := range matches {
		times = append(times, m[1])
	}
	return times
}

// BehaviorElements returns every behaviour-tree mark element in the markup.
func BehaviorElements(markup string) []string {
	return behaviorElementRe.FindAllString(markup, -1)
}

// BehaviorTokens returns the behaviour token carried by each behaviour-tree
// mark element, in order.
func BehaviorTokens(markup string) []string {
	elements := BehaviorElements(markup)
	tokens := make([]string, 0, len(elements))
	for _, el := range elements {
		if m := behaviourTokenRe.FindStringSubmatch(el); m != nil {
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}
