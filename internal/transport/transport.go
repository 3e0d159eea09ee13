// Package transport defines the device command transport consumed by the
// dispatch services. The concrete broker wiring (MQTT topics, TLS, ACLs)
// lives outside this module; everything here speaks to a device through
// this interface.
package transport

import (
	"context"
	"errors"
)

// ErrDeviceUnreachable indicates the transport could not deliver a command
// to the device.
var ErrDeviceUnreachable = errors.New("device unreachable")

// Transport delivers commands to a single Moxie device.
type Transport interface {
	// SendMarkup delivers a markup payload for immediate playback.
	SendMarkup(ctx context.Context, deviceID, markup string) error

	// SendInterrupt stops whatever the device is currently playing.
	SendInterrupt(ctx context.Context, deviceID string) error
}
