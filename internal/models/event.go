// Package models defines shared data types for the Moxie dispatch services.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Dispatch lifecycle events
	EventTypeDispatchStarted   EventType = "dispatch.started"
	EventTypeDispatchCompleted EventType = "dispatch.completed"
	EventTypeDispatchCancelled EventType = "dispatch.cancelled"
	EventTypeDispatchRejected  EventType = "dispatch.rejected"

	// Per-tick events
	EventTypeTickFailed EventType = "tick.failed"

	// One-shot command events
	EventTypeSequenceSent  EventType = "sequence.sent"
	EventTypeMarkupSent    EventType = "markup.sent"
	EventTypeInterruptSent EventType = "interrupt.sent"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeDevice   EntityType = "device"
	EntityTypeDispatch EntityType = "dispatch"
	EntityTypeSystem   EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	if strings.TrimSpace(string(e.Type)) == "" {
		return fmt.Errorf("event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		return fmt.Errorf("entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		return fmt.Errorf("entity_id is required")
	}
	return nil
}

// DispatchStartedPayload is the payload for dispatch.started events.
type DispatchStartedPayload struct {
	HandleID        string  `json:"handle_id"`
	DeviceID        string  `json:"device_id"`
	Behavior        string  `json:"behavior"`
	BehaviorSeconds float64 `json:"behavior_seconds"`
	GapSeconds      float64 `json:"gap_seconds"`
	TotalSeconds    float64 `json:"total_seconds"`
}

// DispatchFinishedPayload is the payload for dispatch.completed and
// dispatch.cancelled events.
type DispatchFinishedPayload struct {
	HandleID  string `json:"handle_id"`
	DeviceID  string `json:"device_id"`
	TicksSent int    `json:"ticks_sent"`
	Elapsed   string `json:"elapsed"`
}

// DispatchRejectedPayload is the payload for dispatch.rejected events.
type DispatchRejectedPayload struct {
	DeviceID string `json:"device_id"`
	Reason   string `json:"reason"`
}

// TickFailedPayload is the payload for tick.failed events.
type TickFailedPayload struct {
	HandleID string `json:"handle_id"`
	DeviceID string `json:"device_id"`
	Tick     int    `json:"tick"`
	Error    string `json:"error"`
}

// SequenceSentPayload is the payload for sequence.sent events.
type SequenceSentPayload struct {
	DeviceID        string  `json:"device_id"`
	Behavior        string  `json:"behavior"`
	Behaviors       int     `json:"behaviors"`
	Breaks          int     `json:"breaks"`
	RealizedSeconds float64 `json:"realized_seconds"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
