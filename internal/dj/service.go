// Package dj exposes the DJ panel command handlers: one-shot behaviors,
// pre-built timed sequences, repeated dispatches, and interrupts.
package dj

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moxierobots/openmoxie/internal/dispatcher"
	"github.com/moxierobots/openmoxie/internal/events"
	"github.com/moxierobots/openmoxie/internal/logging"
	"github.com/moxierobots/openmoxie/internal/markup"
	"github.com/moxierobots/openmoxie/internal/models"
	"github.com/moxierobots/openmoxie/internal/transport"
	"github.com/rs/zerolog"
)

// Service errors.
var (
	ErrMissingDevice = errors.New("device id is required")
	ErrUnknownPreset = errors.New("unknown preset")
)

// presetActionDelay spaces out the steps of a preset so the device finishes
// one before the next arrives. macroActionDelay does the same for recorded
// macros, which already carry their own pacing.
const (
	presetActionDelay = 500 * time.Millisecond
	macroActionDelay  = 300 * time.Millisecond
)

// RepeatParams are the caller-facing knobs for a repeated behavior run.
// An empty behavior and non-positive behavior duration fall back to the
// stock laugh timing. Gap and total use a negative value to request the
// defaults, because zero is meaningful for both: a zero gap sends cycles
// back to back and a zero total runs until cancelled.
type RepeatParams struct {
	Behavior        string
	BehaviorSeconds float64
	GapSeconds      float64
	TotalSeconds    float64
}

// MacroAction is one recorded step of a DJ panel macro.
type MacroAction struct {
	Command   string  `json:"command"`
	Text      string  `json:"text,omitempty"`
	Markup    string  `json:"markup,omitempty"`
	Action    string  `json:"action,omitempty"`
	Behavior  string  `json:"behavior_name,omitempty"`
	Sound     string  `json:"sound_name,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	Preset    string  `json:"preset_name,omitempty"`
	Seconds   float64 `json:"seconds,omitempty"`
	Mood      string  `json:"mood,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
}

// Service routes DJ panel commands to the device transport and the
// repeated-behavior dispatcher.
type Service struct {
	transport  transport.Transport
	dispatcher *dispatcher.Service
	eventRepo  events.Repository // optional
	logger     zerolog.Logger

	// actionDelay overrides the preset/macro pacing; tests shrink it.
	actionDelay time.Duration
}

// New creates the DJ service. The event repository may be nil.
func New(t transport.Transport, d *dispatcher.Service, eventRepo events.Repository) *Service {
	return &Service{
		transport:  t,
		dispatcher: d,
		eventRepo:  eventRepo,
		logger:     logging.Component("dj"),
	}
}

// HandlePrebuiltSequence builds the timed laugh sequence and sends it to the
// device as a single markup payload. There is no retry loop here, so a
// transport failure is returned to the caller directly.
func (s *Service) HandlePrebuiltSequence(ctx context.Context, deviceID string, totalSeconds float64) error {
	if deviceID == "" {
		return ErrMissingDevice
	}
	if totalSeconds <= 0 {
		totalSeconds = markup.DefaultLaughTotal
	}

	seq, err := markup.BuildTimedSequence(totalSeconds, markup.LaughBehavior,
		markup.DefaultLaughDuration, markup.DefaultLaughGap)
	if err != nil {
		return err
	}

	if err := s.transport.SendMarkup(ctx, deviceID, seq); err != nil {
		return fmt.Errorf("send sequence: %w", err)
	}

	behaviors := len(markup.BehaviorElements(seq))
	breaks := len(markup.BreakElements(seq))
	s.logger.Info().
		Str("device_id", deviceID).
		Int("behaviors", behaviors).
		Int("breaks", breaks).
		Msg("prebuilt sequence sent")

	s.record(ctx, func() error {
		return events.LogSequenceSent(ctx, s.eventRepo, models.SequenceSentPayload{
			DeviceID:        deviceID,
			Behavior:        markup.LaughBehavior,
			Behaviors:       behaviors,
			Breaks:          breaks,
			RealizedSeconds: markup.RealizedDuration(totalSeconds, markup.DefaultLaughDuration, markup.DefaultLaughGap),
		})
	})

	return nil
}

// HandleRepeatedBehavior starts a background repeated dispatch and returns
// its handle immediately.
func (s *Service) HandleRepeatedBehavior(ctx context.Context, deviceID string, params RepeatParams) (*dispatcher.Handle, error) {
	if deviceID == "" {
		return nil, ErrMissingDevice
	}

	if params.Behavior == "" {
		params.Behavior = markup.LaughBehavior
	}
	if params.BehaviorSeconds <= 0 {
		params.BehaviorSeconds = markup.DefaultLaughDuration
	}
	if params.GapSeconds < 0 {
		params.GapSeconds = markup.DefaultLaughGap
	}
	if params.TotalSeconds < 0 {
		params.TotalSeconds = markup.DefaultLaughTotal
	}

	plan := dispatcher.Plan{
		Behavior:         params.Behavior,
		BehaviorDuration: secondsToDuration(params.BehaviorSeconds),
		Gap:              secondsToDuration(params.GapSeconds),
		Total:            secondsToDuration(params.TotalSeconds),
	}

	return s.dispatcher.StartRepeated(ctx, deviceID, plan)
}

// HandleInterrupt stops device playback and cancels any running repeated
// dispatch for the device.
func (s *Service) HandleInterrupt(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return ErrMissingDevice
	}

	if s.dispatcher.CancelDevice(deviceID) {
		s.logger.Info().Str("device_id", deviceID).Msg("running dispatch cancelled by interrupt")
	}

	if err := s.transport.SendInterrupt(ctx, deviceID); err != nil {
		return fmt.Errorf("send interrupt: %w", err)
	}

	s.record(ctx, func() error {
		return events.LogInterruptSent(ctx, s.eventRepo, deviceID)
	})

	return nil
}

// HandleBehavior sends the full command markup for one behavior token.
func (s *Service) HandleBehavior(ctx context.Context, deviceID, behavior string) error {
	if deviceID == "" {
		return ErrMissingDevice
	}
	if err := s.transport.SendMarkup(ctx, deviceID, markup.BehaviorMarkup(behavior)); err != nil {
		return fmt.Errorf("send behavior: %w", err)
	}
	return nil
}

// HandleQuickAction resolves a quick-action name and plays its behavior.
func (s *Service) HandleQuickAction(ctx context.Context, deviceID, action string) error {
	return s.HandleBehavior(ctx, deviceID, markup.QuickActionBehavior(action))
}

// HandleSoundEffect plays a one-shot sound effect.
func (s *Service) HandleSoundEffect(ctx context.Context, deviceID, sound string, volume float64) error {
	if deviceID == "" {
		return ErrMissingDevice
	}
	if volume <= 0 {
		volume = 0.75
	}
	if err := s.transport.SendMarkup(ctx, deviceID, markup.SoundEffectMarkup(sound, volume)); err != nil {
		return fmt.Errorf("send sound effect: %w", err)
	}
	return nil
}

// HandlePreset plays a named preset combination, pacing the steps so the
// device finishes each before the next arrives.
func (s *Service) HandlePreset(ctx context.Context, deviceID, name string) error {
	if deviceID == "" {
		return ErrMissingDevice
	}

	actions := markup.Preset(name)
	if actions == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}

	for i, action := range actions {
		if i > 0 {
			if err := s.pause(ctx, s.delay(presetActionDelay)); err != nil {
				return err
			}
		}
		if err := s.playPresetAction(ctx, deviceID, action); err != nil {
			return err
		}
	}
	return nil
}

// HandlePlayMacro replays a recorded macro sequence.
func (s *Service) HandlePlayMacro(ctx context.Context, deviceID string, actions []MacroAction) error {
	if deviceID == "" {
		return ErrMissingDevice
	}

	for i, action := range actions {
		if i > 0 {
			if err := s.pause(ctx, s.delay(macroActionDelay)); err != nil {
				return err
			}
		}

		var err error
		switch action.Command {
		case "speak":
			payload := action.Markup
			if payload == "" {
				payload = action.Text
			}
			err = s.transport.SendMarkup(ctx, deviceID, payload)
		case "quick_action":
			err = s.HandleQuickAction(ctx, deviceID, action.Action)
		case "behavior":
			err = s.HandleBehavior(ctx, deviceID, action.Behavior)
		case "sound_effect":
			err = s.HandleSoundEffect(ctx, deviceID, action.Sound, action.Volume)
		case "preset":
			err = s.HandlePreset(ctx, deviceID, action.Preset)
		case "pause":
			err = s.pause(ctx, secondsToDuration(action.Seconds))
		default:
			s.logger.Warn().Str("command", action.Command).Msg("skipping unknown macro command")
		}
		if err != nil {
			return fmt.Errorf("macro step %d (%s): %w", i+1, action.Command, err)
		}
	}
	return nil
}

func (s *Service) playPresetAction(ctx context.Context, deviceID string, action markup.PresetAction) error {
	switch action.Type {
	case markup.PresetActionSpeak:
		// Speech rides the markup channel as plain text; the device speaks
		// anything that is not a command element.
		return s.transport.SendMarkup(ctx, deviceID, action.Text)
	case markup.PresetActionBehavior:
		return s.HandleBehavior(ctx, deviceID, action.Behavior)
	case markup.PresetActionSoundEffect:
		return s.HandleSoundEffect(ctx, deviceID, action.Sound, action.Volume)
	default:
		return fmt.Errorf("unknown preset action type %q", action.Type)
	}
}

func (s *Service) delay(fallback time.Duration) time.Duration {
	if s.actionDelay > 0 {
		return s.actionDelay
	}
	return fallback
}

func (s *Service) pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) record(ctx context.Context, fn func() error) {
	if s.eventRepo == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record event")
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
