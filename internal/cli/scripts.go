// Package cli script commands: list and run YAML device action scripts.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/scripts"
)

var scriptVars []string

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.AddCommand(scriptListCmd)
	scriptCmd.AddCommand(scriptRunCmd)

	scriptRunCmd.Flags().StringArrayVar(&scriptVars, "var", nil, "script variable as name=value (repeatable)")
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage device action scripts",
	Long: `Device action scripts are YAML files describing a sequence of
speak, behavior, sound and pause steps. Scripts are loaded from the data
directory, the user config directory and the bundled set.`,
}

var scriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := scripts.LoadScriptsFromSearchPaths(GetConfig().DataDir)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(all))
		for _, script := range all {
			rows = append(rows, []string{script.Name, fmt.Sprintf("%d", len(script.Steps)), script.Source, script.Description})
		}
		return writeTable(cmd.OutOrStdout(), []string{"NAME", "STEPS", "SOURCE", "DESCRIPTION"}, rows)
	},
}

var scriptRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a script on a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}

		all, err := scripts.LoadScriptsFromSearchPaths(GetConfig().DataDir)
		if err != nil {
			return err
		}
		var script *scripts.Script
		for _, candidate := range all {
			if candidate.Name == args[0] {
				script = candidate
				break
			}
		}
		if script == nil {
			return fmt.Errorf("unknown script %q", args[0])
		}

		vars, err := parseScriptVars(scriptVars)
		if err != nil {
			return err
		}
		actions, err := scripts.RenderScript(script, vars)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		svc, _, cleanup, err := newDJ(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return svc.HandlePlayMacro(ctx, deviceID, actions)
	},
}

func parseScriptVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", pair)
		}
		vars[strings.TrimSpace(name)] = value
	}
	return vars, nil
}
