// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/polkabuild/chainspec/lib/chainspec"
	wazero_runtime "github.com/polkabuild/chainspec/lib/runtime/wazero"
	"github.com/spf13/cobra"
)

func init() {
	convertToRawCmd.Flags().String("runtime", "", "path to the runtime wasm file, defaults to the code embedded in the specification")
	convertToRawCmd.Flags().String("output", "", "output file path, stdout when empty")
}

var convertToRawCmd = &cobra.Command{
	Use:   "convert-to-raw [chain-spec-file]",
	Short: "Convert a patch or full chain specification into its raw form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execConvertToRaw(cmd, args[0])
	},
}

func execConvertToRaw(cmd *cobra.Command, specPath string) error {
	buildSpec, err := chainspec.BuildFromSpecFile(specPath)
	if err != nil {
		return err
	}
	spec := buildSpec.Spec()

	if spec.Genesis.IsRaw() {
		logger.Info("specification is already in raw form")
		outputPath, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("failed to get --output: %s", err)
		}
		return writeOrPrint(buildSpec, outputPath)
	}

	runtimePath, err := cmd.Flags().GetString("runtime")
	if err != nil {
		return fmt.Errorf("failed to get --runtime: %s", err)
	}
	code, err := runtimeCode(runtimePath, spec)
	if err != nil {
		return err
	}

	instance, err := wazero_runtime.NewInstance(code)
	if err != nil {
		return fmt.Errorf("failed to instantiate runtime: %s", err)
	}
	defer instance.Stop()

	if err := spec.ToRaw(instance); err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get --output: %s", err)
	}
	return writeOrPrint(buildSpec, outputPath)
}
