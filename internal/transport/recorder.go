package transport

import (
	"context"
	"sync"
)

// SentCommand is one command captured by a Recorder.
type SentCommand struct {
	DeviceID  string
	Markup    string // empty for interrupts
	Interrupt bool
}

// Recorder is an in-memory transport that captures every command. Tests and
// local dry-runs use it to inspect what would have reached the device.
type Recorder struct {
	mu   sync.Mutex
	sent []SentCommand

	// fail, when set, is returned from every send. Tests use it to simulate
	// an unreachable device via SetFail.
	fail error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SendMarkup records a markup send.
func (r *Recorder) SendMarkup(ctx context.Context, deviceID, markup string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, SentCommand{DeviceID: deviceID, Markup: markup})
	return nil
}

// SendInterrupt records an interrupt send.
func (r *Recorder) SendInterrupt(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, SentCommand{DeviceID: deviceID, Interrupt: true})
	return nil
}

// Sent returns a copy of all captured commands in send order.
func (r *Recorder) Sent() []SentCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentCommand, len(r.sent))
	copy(out, r.sent)
	return out
}

// SetFail makes subsequent sends return err (nil restores delivery).
func (r *Recorder) SetFail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}
