// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"os"

	"github.com/polkabuild/chainspec/lib/chainspec"
	wazero_runtime "github.com/polkabuild/chainspec/lib/runtime/wazero"
	"github.com/spf13/cobra"
)

// loadRuntime instantiates the runtime module at the given path.
// Stop the returned instance when done with it.
func loadRuntime(path string) (*wazero_runtime.Instance, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime file: %s", err)
	}
	instance, err := wazero_runtime.NewInstance(code)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate runtime: %s", err)
	}
	return instance, nil
}

// runtimeFromFlag instantiates the runtime module named by the
// --runtime flag of the given command.
func runtimeFromFlag(cmd *cobra.Command) (*wazero_runtime.Instance, error) {
	path, err := cmd.Flags().GetString("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get --runtime: %s", err)
	}
	if path == "" {
		return nil, fmt.Errorf("--runtime must be specified")
	}
	return loadRuntime(path)
}

// runtimeCode reads the runtime code from either the --runtime flag
// path or the code already embedded in the given specification.
func runtimeCode(path string, spec *chainspec.ChainSpec) ([]byte, error) {
	if path != "" {
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read runtime file: %s", err)
		}
		return code, nil
	}
	if code := spec.Genesis.RuntimeCode(); len(code) > 0 {
		return code, nil
	}
	return nil, fmt.Errorf("no runtime code: pass --runtime or use a specification embedding code")
}

// writeOrPrint writes the serialized specification to the output path,
// or to stdout when no path is given.
func writeOrPrint(buildSpec *chainspec.BuildSpec, outputPath string) error {
	if outputPath == "" {
		data, err := buildSpec.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if err := buildSpec.WriteSpecFile(outputPath); err != nil {
		return err
	}
	logger.Infof("wrote specification to %s", outputPath)
	return nil
}

// parseChainType maps a command line chain type name to its model
// value, treating unknown names as custom chain types.
func parseChainType(name string) chainspec.ChainType {
	switch name {
	case "", "live", "Live":
		return chainspec.ChainTypeLive
	case "dev", "development", "Development":
		return chainspec.ChainTypeDevelopment
	case "local", "Local":
		return chainspec.ChainTypeLocal
	default:
		return chainspec.CustomChainType(name)
	}
}
