package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moxierobots/openmoxie/internal/markup"
	"github.com/moxierobots/openmoxie/internal/transport"
	"github.com/stretchr/testify/require"
)

func fastPlan() Plan {
	return Plan{
		Behavior:         markup.LaughBehavior,
		BehaviorDuration: 15 * time.Millisecond,
		Gap:              5 * time.Millisecond,
		Total:            60 * time.Millisecond,
	}
}

func TestStartRepeatedRunsToCompletion(t *testing.T) {
	rec := transport.NewRecorder()
	svc := New(rec, nil)
	defer svc.Stop()

	handle, err := svc.StartRepeated(context.Background(), "device-1", fastPlan())
	require.NoError(t, err)
	require.NotEmpty(t, handle.ID)
	require.Equal(t, StateRunning, handle.State())

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}

	require.Equal(t, StateCompleted, handle.State())
	require.GreaterOrEqual(t, handle.Ticks(), 1, "at least one cycle must fire")

	sent := rec.Sent()
	require.NotEmpty(t, sent)
	for _, cmd := range sent {
		require.Equal(t, "device-1", cmd.DeviceID)
		require.False(t, cmd.Interrupt)
		tokens := markup.BehaviorTokens(cmd.Markup)
		require.Equal(t, []string{markup.LaughBehavior}, tokens)
	}
}

func TestCancelBeforeFirstGapElapses(t *testing.T) {
	rec := transport.NewRecorder()
	svc := New(rec, nil)
	defer svc.Stop()

	plan := fastPlan()
	plan.Gap = 500 * time.Millisecond
	plan.Total = 10 * time.Second

	handle, err := svc.StartRepeated(context.Background(), "device-1", plan)
	require.NoError(t, err)

	// Let the first send happen, then cancel during the first gap.
	require.Eventually(t, func() bool {
		return handle.Ticks() >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Cancel(handle.ID))

	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("cancel was not observed within one gap")
	}

	require.Equal(t, StateCancelled, handle.State())
	require.LessOrEqual(t, len(rec.Sent()), 1, "at most one command before cancellation")
}

func TestCancelIsIdempotent(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	handle, err := svc.StartRepeated(context.Background(), "device-1", fastPlan())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(handle.ID))
	<-handle.Done()
	state := handle.State()

	// Second cancel on a finished handle: no error, no state change.
	require.NoError(t, svc.Cancel(handle.ID))
	require.Equal(t, state, handle.State())
}

func TestCancelUnknownHandle(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	err := svc.Cancel("no-such-handle")
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestSecondDispatchForBusyDeviceIsRejected(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	plan := fastPlan()
	plan.Total = 10 * time.Second

	first, err := svc.StartRepeated(context.Background(), "device-1", plan)
	require.NoError(t, err)

	_, err = svc.StartRepeated(context.Background(), "device-1", plan)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	// A different device is unaffected.
	second, err := svc.StartRepeated(context.Background(), "device-2", fastPlan())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(first.ID))
	<-first.Done()
	<-second.Done()

	// Once the first dispatch finished, the device accepts a new one.
	third, err := svc.StartRepeated(context.Background(), "device-1", fastPlan())
	require.NoError(t, err)
	<-third.Done()
}

func TestTransportFailureDoesNotAbortRun(t *testing.T) {
	rec := transport.NewRecorder()
	rec.SetFail(transport.ErrDeviceUnreachable)

	svc := New(rec, nil)
	defer svc.Stop()

	handle, err := svc.StartRepeated(context.Background(), "device-1", fastPlan())
	require.NoError(t, err)

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}

	// Every tick failed, yet the run completed its duration.
	require.Equal(t, StateCompleted, handle.State())
	require.GreaterOrEqual(t, handle.Ticks(), 2, "loop must keep ticking through failures")

	stats := svc.Stats()
	require.Equal(t, stats.TotalTicks, stats.FailedTicks)
	require.Greater(t, stats.FailedTicks, int64(0))
}

func TestTickEventsReportFailures(t *testing.T) {
	rec := transport.NewRecorder()
	rec.SetFail(errors.New("broker down"))

	svc := New(rec, nil)
	defer svc.Stop()

	handle, err := svc.StartRepeated(context.Background(), "device-1", fastPlan())
	require.NoError(t, err)
	<-handle.Done()

	select {
	case event := <-svc.TickEvents():
		require.Equal(t, handle.ID, event.HandleID)
		require.False(t, event.Success)
		require.Contains(t, event.Error, "broker down")
	default:
		t.Fatal("expected at least one tick event")
	}
}

func TestZeroTotalRunsUntilCancelled(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	plan := fastPlan()
	plan.Total = 0

	handle, err := svc.StartRepeated(context.Background(), "device-1", plan)
	require.NoError(t, err)

	// Run well past several cycles; the dispatch must still be alive.
	require.Never(t, func() bool {
		select {
		case <-handle.Done():
			return true
		default:
			return false
		}
	}, 150*time.Millisecond, 25*time.Millisecond)

	require.NoError(t, svc.Cancel(handle.ID))
	<-handle.Done()
	require.Equal(t, StateCancelled, handle.State())
}

func TestZeroGapRunIsPaced(t *testing.T) {
	rec := transport.NewRecorder()
	svc := New(rec, nil)
	defer svc.Stop()

	plan := fastPlan()
	plan.Gap = 0
	plan.Total = 0

	handle, err := svc.StartRepeated(context.Background(), "device-1", plan)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, svc.Cancel(handle.ID))
	<-handle.Done()

	// Cycles are throttled to minGap, so a zero-gap unbounded run sends
	// on the order of ten commands in 100ms, not tens of thousands.
	require.GreaterOrEqual(t, handle.Ticks(), 1)
	require.Less(t, handle.Ticks(), 100, "zero-gap loop must not spin flat out")
}

func TestInvalidPlans(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	cases := []struct {
		name string
		plan Plan
	}{
		{"zero behavior duration", Plan{Behavior: "Bht_Spin_360", Gap: time.Second}},
		{"negative gap", Plan{Behavior: "Bht_Spin_360", BehaviorDuration: time.Second, Gap: -time.Second}},
		{"negative total", Plan{Behavior: "Bht_Spin_360", BehaviorDuration: time.Second, Total: -time.Second}},
		{"missing behavior", Plan{BehaviorDuration: time.Second}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.StartRepeated(context.Background(), "device-1", tc.plan)
			require.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestCancelDevice(t *testing.T) {
	svc := New(transport.NewRecorder(), nil)
	defer svc.Stop()

	plan := fastPlan()
	plan.Total = 10 * time.Second

	handle, err := svc.StartRepeated(context.Background(), "device-1", plan)
	require.NoError(t, err)
	require.True(t, svc.Running("device-1"))

	require.True(t, svc.CancelDevice("device-1"))
	<-handle.Done()
	require.Equal(t, StateCancelled, handle.State())

	require.False(t, svc.CancelDevice("device-1"), "no running dispatch left")
	require.False(t, svc.CancelDevice("device-other"))
}
