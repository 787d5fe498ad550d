// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"encoding/json"

	"github.com/polkabuild/chainspec/lib/runtime/storage"
)

// Entrypoints a runtime module must export for genesis tooling.
const (
	GenesisBuilderPresetNames = "GenesisBuilder_preset_names"
	GenesisBuilderGetPreset   = "GenesisBuilder_get_preset"
	GenesisBuilderBuildState  = "GenesisBuilder_build_state"
)

// GenesisBuilder is the contract a runtime module exposes for genesis
// tooling. It is the only seam through which runtime code is executed,
// so the execution engine behind it can be swapped without touching
// storage or serialization logic.
type GenesisBuilder interface {
	// ListPresets queries the runtime for its named configuration
	// presets. An empty list is valid.
	ListPresets() ([]string, error)
	// GetPreset returns the configuration for the given preset id.
	// The empty id selects the runtime's implicit default preset.
	// It fails with ErrPresetNotFound for an unrecognised id.
	GetPreset(id string) (json.RawMessage, error)
	// BuildState executes the runtime's genesis-construction logic
	// with the given patch merged onto its defaults and returns all
	// storage writes performed. The output is all-or-nothing: on any
	// failure no storage is returned.
	BuildState(patch json.RawMessage) (*storage.GenesisStorage, error)
}

// Instance is the narrow execution capability the engine boundary
// requires: invoke a named entrypoint with byte-serialized arguments
// and receive byte-serialized results or an error.
type Instance interface {
	Exec(function string, data []byte) ([]byte, error)
	Stop()
}
