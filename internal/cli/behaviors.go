// Package cli listing commands for behaviors, quick actions and presets.
package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/markup"
)

func init() {
	rootCmd.AddCommand(behaviorsCmd)
	rootCmd.AddCommand(quickActionsCmd)
	rootCmd.AddCommand(presetsCmd)
}

var behaviorsCmd = &cobra.Command{
	Use:   "behaviors",
	Short: "List known behavior tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(markup.KnownBehaviors()))
		for _, behavior := range markup.KnownBehaviors() {
			rows = append(rows, []string{behavior})
		}
		return writeTable(cmd.OutOrStdout(), []string{"BEHAVIOR"}, rows)
	},
}

var quickActionsCmd = &cobra.Command{
	Use:   "quick-actions",
	Short: "List quick actions and the behaviors they play",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(markup.QuickActions))
		for name := range markup.QuickActions {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, markup.QuickActions[name]})
		}
		return writeTable(cmd.OutOrStdout(), []string{"ACTION", "BEHAVIOR"}, rows)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List preset combinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(markup.PresetNames()))
		for _, name := range markup.PresetNames() {
			rows = append(rows, []string{name, fmt.Sprintf("%d", len(markup.Preset(name)))})
		}
		return writeTable(cmd.OutOrStdout(), []string{"PRESET", "STEPS"}, rows)
	},
}
