// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	listPresetsCmd.Flags().String("runtime", "", "path to the runtime wasm file")
	displayPresetCmd.Flags().String("runtime", "", "path to the runtime wasm file")
	displayPresetCmd.Flags().String("preset", "", "preset name, the runtime's implicit default when empty")
}

var listPresetsCmd = &cobra.Command{
	Use:   "list-presets",
	Short: "List the named genesis presets a runtime provides",
	RunE: func(cmd *cobra.Command, args []string) error {
		return execListPresets(cmd)
	},
}

var displayPresetCmd = &cobra.Command{
	Use:   "display-preset",
	Short: "Display the configuration of a runtime genesis preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return execDisplayPreset(cmd)
	},
}

func execListPresets(cmd *cobra.Command) error {
	instance, err := runtimeFromFlag(cmd)
	if err != nil {
		return err
	}
	defer instance.Stop()

	presets, err := instance.ListPresets()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		logger.Info("runtime provides no named presets")
		return nil
	}
	for _, preset := range presets {
		fmt.Println(preset)
	}
	return nil
}

func execDisplayPreset(cmd *cobra.Command) error {
	presetID, err := cmd.Flags().GetString("preset")
	if err != nil {
		return fmt.Errorf("failed to get --preset: %s", err)
	}

	instance, err := runtimeFromFlag(cmd)
	if err != nil {
		return err
	}
	defer instance.Stop()

	preset, err := instance.GetPreset(presetID)
	if err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, preset, "", "    "); err != nil {
		return fmt.Errorf("failed to indent preset: %s", err)
	}
	fmt.Println(indented.String())
	return nil
}
