// Package cli sequence command: build timed behavior markup.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/markup"
)

var (
	seqBehavior        string
	seqTotalSeconds    float64
	seqBehaviorSeconds float64
	seqGapSeconds      float64
)

func init() {
	rootCmd.AddCommand(sequenceCmd)

	sequenceCmd.Flags().StringVar(&seqBehavior, "behavior", markup.LaughBehavior, "behavior token to repeat")
	sequenceCmd.Flags().Float64Var(&seqTotalSeconds, "total", 0, "total sequence length in seconds (default from config)")
	sequenceCmd.Flags().Float64Var(&seqBehaviorSeconds, "behavior-seconds", 0, "duration of one behavior cycle (default from config)")
	sequenceCmd.Flags().Float64Var(&seqGapSeconds, "gap", -1, "pause between behaviors in seconds (default from config)")
}

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Build a timed behavior markup sequence",
	Long: `Build the markup for a behavior repeated to fill a time window,
with a pause between repetitions, and print it to stdout.`,
	Example: `  # The classic 60-second laugh
  moxie sequence

  # A 30-second window of a custom behavior
  moxie sequence --behavior Bht_Vg_Dance_Low_Energy --total 30 --behavior-seconds 2 --gap 0.3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		total := seqTotalSeconds
		if total == 0 {
			total = cfg.Sequence.TotalSeconds
		}
		behaviorSeconds := seqBehaviorSeconds
		if behaviorSeconds == 0 {
			behaviorSeconds = cfg.Sequence.BehaviorSeconds
		}
		gap := seqGapSeconds
		if gap < 0 {
			gap = cfg.Sequence.GapSeconds
		}

		seq, err := markup.BuildTimedSequence(total, seqBehavior, behaviorSeconds, gap)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), seq)
		return nil
	},
}
