// Package cli play commands: one-shot behavior, sound and preset dispatch.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/db"
	"github.com/moxierobots/openmoxie/internal/dispatcher"
	"github.com/moxierobots/openmoxie/internal/dj"
	"github.com/moxierobots/openmoxie/internal/transport"
)

var playVolume float64

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.AddCommand(playBehaviorCmd)
	playCmd.AddCommand(playQuickCmd)
	playCmd.AddCommand(playSoundCmd)
	playCmd.AddCommand(playPresetCmd)
	playCmd.AddCommand(playMacroCmd)
	playCmd.AddCommand(playSequenceCmd)

	playSoundCmd.Flags().Float64Var(&playVolume, "volume", 0, "playback volume (0..1, default 0.75)")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Send behavior commands to a device",
}

// newDJ wires a dj service against the local transport and event log.
// The caller must call the returned cleanup.
func newDJ(ctx context.Context) (*dj.Service, *dispatcher.Service, func(), error) {
	database, err := openDatabase(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	eventRepo := db.NewEventRepository(database)
	trans := transport.NewLog()
	disp := dispatcher.New(trans, eventRepo)
	svc := dj.New(trans, disp, eventRepo)

	cleanup := func() {
		disp.Stop()
		database.Close()
	}
	return svc, disp, cleanup, nil
}

var playBehaviorCmd = &cobra.Command{
	Use:   "behavior <token>",
	Short: "Play a single behavior",
	Args:  cobra.ExactArgs(1),
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
		return svc.HandleBehavior(ctx, deviceID, args[0])
	},
}

var playQuickCmd = &cobra.Command{
	Use:   "quick <action>",
	Short: "Play a quick action (laugh, dance, wave, ...)",
	Args:  cobra.ExactArgs(1),
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
		return svc.HandleQuickAction(ctx, deviceID, args[0])
	},
}

var playSoundCmd = &cobra.Command{
	Use:   "sound <name>",
	Short: "Play a sound effect",
	Args:  cobra.ExactArgs(1),
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
		return svc.HandleSoundEffect(ctx, deviceID, args[0], playVolume)
	},
}

var playPresetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Play a preset combination",
	Args:  cobra.ExactArgs(1),
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
		return svc.HandlePreset(ctx, deviceID, args[0])
	},
}

var playMacroCmd = &cobra.Command{
	Use:   "macro <file.json>",
	Short: "Replay a recorded macro from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read macro: %w", err)
		}
		var actions []dj.MacroAction
		if err := json.Unmarshal(data, &actions); err != nil {
			return fmt.Errorf("parse macro: %w", err)
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

var playSequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Send the prebuilt timed laugh sequence",
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
		return svc.HandlePrebuiltSequence(ctx, deviceID, GetConfig().Sequence.TotalSeconds)
	},
}
