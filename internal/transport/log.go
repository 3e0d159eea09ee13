package transport

import (
	"context"

	"github.com/moxierobots/openmoxie/internal/logging"
	"github.com/rs/zerolog"
)

// Log is a dry-run transport that logs every command instead of delivering
// it. The CLI uses it when no broker is wired up.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a logging transport.
func NewLog() *Log {
	return &Log{logger: logging.Component("transport")}
}

// SendMarkup logs the markup payload.
func (t *Log) SendMarkup(ctx context.Context, deviceID, markup string) error {
	t.logger.Info().
		Str("device_id", deviceID).
		Int("markup_len", len(markup)).
		Str("markup", markup).
		Msg("send markup")
	return nil
}

// SendInterrupt logs the interrupt.
func (t *Log) SendInterrupt(ctx context.Context, deviceID string) error {
	t.logger.Info().
		Str("device_id", deviceID).
		Msg("send interrupt")
	return nil
}
