// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/polkabuild/chainspec/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// RootCmd is the chainspec-builder root command.
var RootCmd = &cobra.Command{
	Use:   "chainspec-builder",
	Short: "Chain specification builder",
	Long: `chainspec-builder assembles chain specification documents from
a runtime module's genesis presets or a configuration patch.
Usage:
	chainspec-builder create --runtime runtime.wasm --preset development --chain-name "Dev" --chain-id dev
	chainspec-builder create --runtime runtime.wasm --patch patch.json --chain-name "Local" --chain-id local --raw
	chainspec-builder convert-to-raw chain-spec.json
	chainspec-builder list-presets --runtime runtime.wasm
	chainspec-builder display-preset --runtime runtime.wasm --preset development`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName := viper.GetString("log")
		level, err := log.ParseLevel(levelName)
		if err != nil {
			return fmt.Errorf("failed to parse --log: %s", err)
		}
		log.PatchLevel(level)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("log", "info", "Global log level. One of crit, error, warn, info, debug, trace")
	if err := viper.BindPFlag("log", RootCmd.PersistentFlags().Lookup("log")); err != nil {
		panic(err)
	}

	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(convertToRawCmd)
	RootCmd.AddCommand(listPresetsCmd)
	RootCmd.AddCommand(displayPresetCmd)
}
