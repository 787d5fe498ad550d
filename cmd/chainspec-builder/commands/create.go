// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/polkabuild/chainspec/lib/chainspec"
	"github.com/spf13/cobra"
)

func init() {
	createCmd.Flags().String("runtime", "", "path to the runtime wasm file")
	createCmd.Flags().String("preset", "", "name of the runtime preset to base the genesis on")
	createCmd.Flags().Bool("default-preset", false, "base the genesis on the runtime's implicit default preset")
	createCmd.Flags().String("patch", "", "path to a genesis configuration patch file")
	createCmd.Flags().String("chain-name", "", "human readable chain name")
	createCmd.Flags().String("chain-id", "", "chain identifier")
	createCmd.Flags().String("chain-type", "live", "chain type. One of dev, local, live, or a custom name")
	createCmd.Flags().StringSlice("bootnodes", nil, "bootnode multiaddresses")
	createCmd.Flags().String("protocol-id", "", "network protocol identifier")
	createCmd.Flags().String("fork-id", "", "network fork identifier")
	createCmd.Flags().String("properties", "", "chain properties as a JSON object")
	createCmd.Flags().Bool("raw", false, "execute the genesis build and emit the raw form")
	createCmd.Flags().String("output", "", "output file path, stdout when empty")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a chain specification from a runtime preset or configuration patch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return execCreate(cmd)
	},
}

func execCreate(cmd *cobra.Command) error {
	runtimePath, err := cmd.Flags().GetString("runtime")
	if err != nil {
		return fmt.Errorf("failed to get --runtime: %s", err)
	}
	if runtimePath == "" {
		return fmt.Errorf("--runtime must be specified")
	}

	presetID, err := cmd.Flags().GetString("preset")
	if err != nil {
		return fmt.Errorf("failed to get --preset: %s", err)
	}
	defaultPreset, err := cmd.Flags().GetBool("default-preset")
	if err != nil {
		return fmt.Errorf("failed to get --default-preset: %s", err)
	}
	patchPath, err := cmd.Flags().GetString("patch")
	if err != nil {
		return fmt.Errorf("failed to get --patch: %s", err)
	}

	sources := 0
	for _, set := range []bool{presetID != "", defaultPreset, patchPath != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of --preset, --default-preset or --patch must be specified")
	}

	meta, err := metadataFromFlags(cmd)
	if err != nil {
		return err
	}

	code, err := os.ReadFile(runtimePath)
	if err != nil {
		return fmt.Errorf("failed to read runtime file: %s", err)
	}

	var spec *chainspec.ChainSpec
	if patchPath != "" {
		patch, err := os.ReadFile(patchPath)
		if err != nil {
			return fmt.Errorf("failed to read patch file: %s", err)
		}
		spec, err = chainspec.NewFromPatch(meta, patch, code)
		if err != nil {
			return err
		}
	} else {
		instance, err := loadRuntime(runtimePath)
		if err != nil {
			return err
		}
		defer instance.Stop()

		// the empty preset id selects the runtime's implicit default
		spec, err = chainspec.NewFromPreset(meta, presetID, code, instance)
		if err != nil {
			return err
		}
	}

	if err := spec.Validate(); err != nil {
		return err
	}

	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get --raw: %s", err)
	}
	if raw {
		instance, err := loadRuntime(runtimePath)
		if err != nil {
			return err
		}
		defer instance.Stop()

		if err := spec.ToRaw(instance); err != nil {
			return err
		}
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get --output: %s", err)
	}
	return writeOrPrint(chainspec.NewBuildSpec(spec), outputPath)
}

// metadataFromFlags assembles the specification metadata from the
// create command flags.
func metadataFromFlags(cmd *cobra.Command) (meta chainspec.Metadata, err error) {
	meta.Name, err = cmd.Flags().GetString("chain-name")
	if err != nil {
		return meta, fmt.Errorf("failed to get --chain-name: %s", err)
	}
	meta.ID, err = cmd.Flags().GetString("chain-id")
	if err != nil {
		return meta, fmt.Errorf("failed to get --chain-id: %s", err)
	}
	if meta.Name == "" || meta.ID == "" {
		return meta, fmt.Errorf("--chain-name and --chain-id must be specified")
	}

	chainType, err := cmd.Flags().GetString("chain-type")
	if err != nil {
		return meta, fmt.Errorf("failed to get --chain-type: %s", err)
	}
	meta.ChainType = parseChainType(chainType)

	meta.BootNodes, err = cmd.Flags().GetStringSlice("bootnodes")
	if err != nil {
		return meta, fmt.Errorf("failed to get --bootnodes: %s", err)
	}
	meta.ProtocolID, err = cmd.Flags().GetString("protocol-id")
	if err != nil {
		return meta, fmt.Errorf("failed to get --protocol-id: %s", err)
	}
	meta.ForkID, err = cmd.Flags().GetString("fork-id")
	if err != nil {
		return meta, fmt.Errorf("failed to get --fork-id: %s", err)
	}

	properties, err := cmd.Flags().GetString("properties")
	if err != nil {
		return meta, fmt.Errorf("failed to get --properties: %s", err)
	}
	if properties != "" {
		if !json.Valid([]byte(properties)) {
			return meta, fmt.Errorf("--properties is not valid JSON")
		}
		meta.Properties = json.RawMessage(properties)
	}
	return meta, nil
}
