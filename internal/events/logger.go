// Package events provides helper functions for recording dispatch events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moxierobots/openmoxie/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Append(ctx context.Context, event *models.Event) error
}

// LogDispatchStarted records that a repeated dispatch began for a device.
func LogDispatchStarted(ctx context.Context, repo Repository, p models.DispatchStartedPayload) error {
	return appendEvent(ctx, repo, models.EventTypeDispatchStarted, models.EntityTypeDispatch, p.HandleID, p)
}

// LogDispatchCompleted records that a dispatch ran to its full duration.
func LogDispatchCompleted(ctx context.Context, repo Repository, p models.DispatchFinishedPayload) error {
	return appendEvent(ctx, repo, models.EventTypeDispatchCompleted, models.EntityTypeDispatch, p.HandleID, p)
}

// LogDispatchCancelled records that a dispatch exited on cancellation.
func LogDispatchCancelled(ctx context.Context, repo Repository, p models.DispatchFinishedPayload) error {
	return appendEvent(ctx, repo, models.EventTypeDispatchCancelled, models.EntityTypeDispatch, p.HandleID, p)
}

// LogDispatchRejected records a dispatch refused because the device was busy.
func LogDispatchRejected(ctx context.Context, repo Repository, p models.DispatchRejectedPayload) error {
	return appendEvent(ctx, repo, models.EventTypeDispatchRejected, models.EntityTypeDevice, p.DeviceID, p)
}

// LogTickFailed records a single failed tick inside a running dispatch.
// The dispatch itself continues; this is the observability record of the
// transient transport failure.
func LogTickFailed(ctx context.Context, repo Repository, p models.TickFailedPayload) error {
	return appendEvent(ctx, repo, models.EventTypeTickFailed, models.EntityTypeDispatch, p.HandleID, p)
}

// LogSequenceSent records a pre-built timed sequence sent to a device.
func LogSequenceSent(ctx context.Context, repo Repository, p models.SequenceSentPayload) error {
	return appendEvent(ctx, repo, models.EventTypeSequenceSent, models.EntityTypeDevice, p.DeviceID, p)
}

// LogInterruptSent records an interrupt sent to a device.
func LogInterruptSent(ctx context.Context, repo Repository, deviceID string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	return repo.Append(ctx, &models.Event{
		Type:       models.EventTypeInterruptSent,
		EntityType: models.EntityTypeDevice,
		EntityID:   deviceID,
		Timestamp:  time.Now().UTC(),
	})
}

func appendEvent(ctx context.Context, repo Repository, eventType models.EventType, entityType models.EntityType, entityID string, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return repo.Append(ctx, &models.Event{
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    data,
	})
}
