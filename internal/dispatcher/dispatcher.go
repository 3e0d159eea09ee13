// Package dispatcher runs repeated behavior dispatches against a device
// transport. Each dispatch is one background goroutine that sends a behavior
// command once per cycle until its duration elapses or it is cancelled.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moxierobots/openmoxie/internal/events"
	"github.com/moxierobots/openmoxie/internal/logging"
	"github.com/moxierobots/openmoxie/internal/markup"
	"github.com/moxierobots/openmoxie/internal/models"
	"github.com/moxierobots/openmoxie/internal/transport"
	"github.com/rs/zerolog"
)

// Dispatcher errors.
var (
	ErrInvalidPlan    = errors.New("invalid dispatch plan")
	ErrAlreadyRunning = errors.New("device already has a running dispatch")
	ErrUnknownHandle  = errors.New("unknown dispatch handle")
)

// State describes the lifecycle of a dispatch.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Plan holds the parameters for one repeated dispatch.
type Plan struct {
	// Behavior is the behavior token sent on each tick.
	Behavior string

	// BehaviorDuration is how long each behavior plays.
	BehaviorDuration time.Duration

	// Gap is the pause between consecutive ticks. A zero gap is still
	// throttled to minGap between sends.
	Gap time.Duration

	// Total is the target run time measured from the first tick. Zero means
	// run until cancelled.
	Total time.Duration
}

func (p Plan) validate() error {
	if p.Behavior == "" {
		return fmt.Errorf("%w: behavior is required", ErrInvalidPlan)
	}
	if p.BehaviorDuration <= 0 {
		return fmt.Errorf("%w: behavior duration must be positive", ErrInvalidPlan)
	}
	if p.Gap < 0 {
		return fmt.Errorf("%w: gap must be non-negative", ErrInvalidPlan)
	}
	if p.Total < 0 {
		return fmt.Errorf("%w: total duration must be non-negative", ErrInvalidPlan)
	}
	return nil
}

// TickEvent reports the outcome of a single tick.
type TickEvent struct {
	HandleID  string
	DeviceID  string
	Tick      int
	Success   bool
	Error     string
	Timestamp time.Time
}

// Stats contains dispatcher counters.
type Stats struct {
	ActiveDispatches    int
	CompletedDispatches int64
	CancelledDispatches int64
	TotalTicks          int64
	FailedTicks         int64
}

// Handle identifies one dispatch and exposes its observable state.
type Handle struct {
	ID       string
	DeviceID string
	Plan     Plan

	rec *record
}

// State returns the dispatch state.
func (h *Handle) State() State {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return h.rec.state
}

// Ticks returns how many ticks have been attempted so far.
func (h *Handle) Ticks() int {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return h.rec.ticks
}

// Done is closed when the background task has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.rec.done
}

// record is the dispatcher's internal bookkeeping for one dispatch. The
// cancellation flag is the per-handle context; nothing is shared across
// devices.
type record struct {
	id       string
	deviceID string
	plan     Plan

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	state State
	ticks int
}

func (r *record) finish(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	close(r.done)
}

func (r *record) finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != StateRunning
}

// Service owns all dispatch records and their background tasks.
type Service struct {
	transport transport.Transport
	eventRepo events.Repository // optional; nil disables persistence
	logger    zerolog.Logger

	mu       sync.Mutex
	handles  map[string]*record
	byDevice map[string]string // device ID -> running handle ID
	wg       sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats

	tickCh chan TickEvent
}

// New creates a dispatcher Service. The event repository may be nil, in
// which case dispatch events are only logged.
func New(t transport.Transport, eventRepo events.Repository) *Service {
	return &Service{
		transport: t,
		eventRepo: eventRepo,
		logger:    logging.Component("dispatcher"),
		handles:   make(map[string]*record),
		byDevice:  make(map[string]string),
		tickCh:    make(chan TickEvent, 100),
	}
}

// StartRepeated begins a repeated dispatch for a device and returns
// immediately with a handle for later cancellation. A device may have at
// most one running dispatch: a second request is rejected with
// ErrAlreadyRunning rather than queued or superseded, because interleaved
// command streams race at the transport.
func (s *Service) StartRepeated(ctx context.Context, deviceID string, plan Plan) (*Handle, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrInvalidPlan)
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if runningID, ok := s.byDevice[deviceID]; ok {
		if rec := s.handles[runningID]; rec != nil && !rec.finished() {
			s.mu.Unlock()
			s.logger.Warn().
				Str("device_id", deviceID).
				Str("running_handle", runningID).
				Msg("dispatch rejected, device busy")
			s.recordRejected(ctx, deviceID)
			return nil, fmt.Errorf("%w: device %s", ErrAlreadyRunning, deviceID)
		}
		delete(s.byDevice, deviceID)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	rec := &record{
		id:       uuid.New().String(),
		deviceID: deviceID,
		plan:     plan,
		ctx:      runCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
		state:    StateRunning,
	}
	s.handles[rec.id] = rec
	s.byDevice[deviceID] = rec.id
	s.wg.Add(1)
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats.ActiveDispatches++
	s.statsMu.Unlock()

	s.logger.Info().
		Str("handle_id", rec.id).
		Str("device_id", deviceID).
		Str("behavior", plan.Behavior).
		Dur("behavior_duration", plan.BehaviorDuration).
		Dur("gap", plan.Gap).
		Dur("total", plan.Total).
		Msg("repeated dispatch starting")

	s.recordStarted(ctx, rec)

	go s.run(rec)

	return &Handle{ID: rec.id, DeviceID: deviceID, Plan: plan, rec: rec}, nil
}

// Cancel requests cancellation of a dispatch and returns without waiting
// for the task to exit. Cancelling a finished dispatch is a no-op; an ID
// that was never issued returns ErrUnknownHandle.
func (s *Service) Cancel(handleID string) error {
	s.mu.Lock()
	rec, ok := s.handles[handleID]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handleID)
	}
	if rec.finished() {
		return nil
	}

	s.logger.Info().
		Str("handle_id", handleID).
		Str("device_id", rec.deviceID).
		Msg("dispatch cancel requested")

	rec.cancel()
	return nil
}

// CancelDevice cancels the running dispatch for a device, if any. It
// reports whether a dispatch was cancelled.
func (s *Service) CancelDevice(deviceID string) bool {
	s.mu.Lock()
	runningID, ok := s.byDevice[deviceID]
	var rec *record
	if ok {
		rec = s.handles[runningID]
	}
	s.mu.Unlock()

	if rec == nil || rec.finished() {
		return false
	}
	rec.cancel()
	return true
}

// Running reports whether a device currently has a running dispatch.
func (s *Service) Running(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if runningID, ok := s.byDevice[deviceID]; ok {
		if rec := s.handles[runningID]; rec != nil {
			return !rec.finished()
		}
	}
	return false
}

// State returns the state of a dispatch by handle ID.
func (s *Service) State(handleID string) (State, error) {
	s.mu.Lock()
	rec, ok := s.handles[handleID]
	s.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, handleID)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.state, nil
}

// Stats returns current dispatcher counters.
func (s *Service) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// TickEvents returns the channel of per-tick outcomes. Events are dropped
// when no consumer keeps up.
func (s *Service) TickEvents() <-chan TickEvent {
	return s.tickCh
}

// Stop cancels all running dispatches and waits for their tasks to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	for _, rec := range s.handles {
		if !rec.finished() {
			rec.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// run is the background task for one dispatch. One behavior command is sent
// per cycle; cancellation and elapsed time are checked only at cycle
// boundaries, never mid-send.
func (s *Service) run(rec *record) {
	defer s.wg.Done()

	payload := markup.BehaviorElement(rec.plan.Behavior, rec.plan.BehaviorDuration.Seconds())
	start := time.Now()

	for {
		select {
		case <-rec.ctx.Done():
			s.exit(rec, StateCancelled, start)
			return
		default:
		}

		s.sendTick(rec, payload)

		if !s.sleepGap(rec) {
			s.exit(rec, StateCancelled, start)
			return
		}

		if rec.plan.Total > 0 && time.Since(start) >= rec.plan.Total {
			s.exit(rec, StateCompleted, start)
			return
		}
	}
}

// sendTick delivers one behavior command. A transport failure is recorded
// and the dispatch continues; a flaky device must not end the run early.
func (s *Service) sendTick(rec *record, payload string) {
	// The send itself is never interrupted by cancellation.
	sendCtx := context.WithoutCancel(rec.ctx)
	err := s.transport.SendMarkup(sendCtx, rec.deviceID, payload)

	rec.mu.Lock()
	rec.ticks++
	tick := rec.ticks
	rec.mu.Unlock()

	event := TickEvent{
		HandleID:  rec.id,
		DeviceID:  rec.deviceID,
		Tick:      tick,
		Success:   err == nil,
		Timestamp: time.Now().UTC(),
	}

	s.statsMu.Lock()
	s.stats.TotalTicks++
	if err != nil {
		s.stats.FailedTicks++
	}
	s.statsMu.Unlock()

	if err != nil {
		event.Error = err.Error()
		s.logger.Warn().
			Err(err).
			Str("handle_id", rec.id).
			Str("device_id", rec.deviceID).
			Int("tick", tick).
			Msg("tick send failed, continuing")

		if s.eventRepo != nil {
			if logErr := events.LogTickFailed(sendCtx, s.eventRepo, models.TickFailedPayload{
				HandleID: rec.id,
				DeviceID: rec.deviceID,
				Tick:     tick,
				Error:    err.Error(),
			}); logErr != nil {
				s.logger.Warn().Err(logErr).Msg("failed to record tick failure")
			}
		}
	}

	select {
	case s.tickCh <- event:
	default:
	}
}

// minGap paces a zero-gap plan. Without it an unbounded zero-gap run
// would spin flat out against the transport.
const minGap = 10 * time.Millisecond

// sleepGap waits out the inter-cycle gap. It returns false when the
// dispatch was cancelled during the wait.
func (s *Service) sleepGap(rec *record) bool {
	gap := rec.plan.Gap
	if gap < minGap {
		gap = minGap
	}

	timer := time.NewTimer(gap)
	defer timer.Stop()

	select {
	case <-rec.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Service) exit(rec *record, state State, start time.Time) {
	rec.finish(state)

	s.mu.Lock()
	if s.byDevice[rec.deviceID] == rec.id {
		delete(s.byDevice, rec.deviceID)
	}
	s.mu.Unlock()

	elapsed := time.Since(start)

	s.statsMu.Lock()
	s.stats.ActiveDispatches--
	if state == StateCompleted {
		s.stats.CompletedDispatches++
	} else {
		s.stats.CancelledDispatches++
	}
	s.statsMu.Unlock()

	rec.mu.Lock()
	ticks := rec.ticks
	rec.mu.Unlock()

	s.logger.Info().
		Str("handle_id", rec.id).
		Str("device_id", rec.deviceID).
		Str("state", string(state)).
		Int("ticks", ticks).
		Dur("elapsed", elapsed).
		Msg("dispatch finished")

	if s.eventRepo == nil {
		return
	}

	payload := models.DispatchFinishedPayload{
		HandleID:  rec.id,
		DeviceID:  rec.deviceID,
		TicksSent: ticks,
		Elapsed:   elapsed.String(),
	}

	var err error
	if state == StateCompleted {
		err = events.LogDispatchCompleted(context.Background(), s.eventRepo, payload)
	} else {
		err = events.LogDispatchCancelled(context.Background(), s.eventRepo, payload)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("handle_id", rec.id).Msg("failed to record dispatch exit")
	}
}

func (s *Service) recordStarted(ctx context.Context, rec *record) {
	if s.eventRepo == nil {
		return
	}
	err := events.LogDispatchStarted(ctx, s.eventRepo, models.DispatchStartedPayload{
		HandleID:        rec.id,
		DeviceID:        rec.deviceID,
		Behavior:        rec.plan.Behavior,
		BehaviorSeconds: rec.plan.BehaviorDuration.Seconds(),
		GapSeconds:      rec.plan.Gap.Seconds(),
		TotalSeconds:    rec.plan.Total.Seconds(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("handle_id", rec.id).Msg("failed to record dispatch start")
	}
}

func (s *Service) recordRejected(ctx context.Context, deviceID string) {
	if s.eventRepo == nil {
		return
	}
	err := events.LogDispatchRejected(ctx, s.eventRepo, models.DispatchRejectedPayload{
		DeviceID: deviceID,
		Reason:   "already running",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("device_id", deviceID).Msg("failed to record dispatch rejection")
	}
}
