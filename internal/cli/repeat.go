// Package cli repeat command: background repeated behavior dispatch.
package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/dj"
)

var (
	repeatBehavior        string
	repeatTotalSeconds    float64
	repeatBehaviorSeconds float64
	repeatGapSeconds      float64
)

func init() {
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(interruptCmd)

	// -1 means "use the laugh defaults"; 0 is a real value for total
	// (run until interrupted) and for gap (no pause between cycles).
	repeatCmd.Flags().StringVar(&repeatBehavior, "behavior", "", "behavior token (default: the laugh)")
	repeatCmd.Flags().Float64Var(&repeatTotalSeconds, "total", -1, "total run length in seconds; 0 runs until interrupted (default 60)")
	repeatCmd.Flags().Float64Var(&repeatBehaviorSeconds, "behavior-seconds", 0, "duration of one behavior")
	repeatCmd.Flags().Float64Var(&repeatGapSeconds, "gap", -1, "pause between repetitions in seconds (default 0.5)")
}

var repeatCmd = &cobra.Command{
	Use:   "repeat",
	Short: "Repeatedly dispatch a behavior to a device",
	Long: `Send a behavior to a device over and over, pausing between
repetitions, until the total window elapses or the run is interrupted
with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, disp, cleanup, err := newDJ(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		handle, err := svc.HandleRepeatedBehavior(ctx, deviceID, dj.RepeatParams{
			Behavior:        repeatBehavior,
			BehaviorSeconds: repeatBehaviorSeconds,
			GapSeconds:      repeatGapSeconds,
			TotalSeconds:    repeatTotalSeconds,
		})
		if err != nil {
			return err
		}

		progress := startProgress(fmt.Sprintf("repeating %s on %s", handle.Plan.Behavior, deviceID))
		select {
		case <-ctx.Done():
			if err := disp.Cancel(handle.ID); err != nil {
				progress.Fail(err)
				return err
			}
			<-handle.Done()
		case <-handle.Done():
		}
		progress.Done()

		fmt.Fprintf(cmd.OutOrStdout(), "dispatch %s: %s after %d ticks\n",
			handle.ID, handle.State(), handle.Ticks())
		return nil
	},
}

var interruptCmd = &cobra.Command{
	Use:   "interrupt",
	Short: "Stop device playback and cancel its running dispatch",
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		svc, _, cleanup, err := newDJ(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return svc.HandleInterrupt(ctx, deviceID)
	},
}
