// Package cli wait feedback for long-running commands.
package cli

import (
	"fmt"
	"os"
	"time"
)

// statusLine prints "label... done (1.2s)" style feedback on stderr while
// a command waits on a dispatch. Nil is a valid receiver: startProgress
// returns nil when stderr is not a terminal or when MOXIE_NO_PROGRESS or
// NO_PROGRESS is set, so piped output stays clean.
type statusLine struct {
	started time.Time
}

func startProgress(label string) *statusLine {
	if !statusEnabled() {
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s... ", label)
	return &statusLine{started: time.Now()}
}

func (s *statusLine) Done() {
	if s == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "done (%s)\n", roundElapsed(time.Since(s.started)))
}

func (s *statusLine) Fail(err error) {
	if s == nil {
		return
	}
	if err == nil {
		fmt.Fprintln(os.Stderr, "failed")
		return
	}
	fmt.Fprintf(os.Stderr, "failed: %v\n", err)
}

func statusEnabled() bool {
	for _, name := range []string{"MOXIE_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(name); ok {
			return false
		}
	}
	return hasTTY()
}

// roundElapsed keeps the wait summary readable: sub-second waits get
// 10ms precision, longer ones 100ms.
func roundElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
