// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/polkabuild/chainspec/lib/runtime/storage"
)

// TestGenesisBuilder is an in-memory GenesisBuilder used to test the
// storage collector and document model without executing runtime code.
type TestGenesisBuilder struct {
	// Presets maps preset ids to their configuration. The empty id
	// entry, if present, is the runtime's implicit default preset.
	Presets map[string]json.RawMessage

	// BuildFunc produces the storage writes for a patch. When nil,
	// BuildState returns empty storage.
	BuildFunc func(patch json.RawMessage) (*storage.GenesisStorage, error)
}

var _ GenesisBuilder = (*TestGenesisBuilder)(nil)

// ListPresets returns the named preset ids in lexicographic order,
// excluding the implicit default.
func (b *TestGenesisBuilder) ListPresets() ([]string, error) {
	names := make([]string, 0, len(b.Presets))
	for name := range b.Presets {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetPreset returns the configuration for the given preset id.
func (b *TestGenesisBuilder) GetPreset(id string) (json.RawMessage, error) {
	preset, ok := b.Presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	return preset, nil
}

// BuildState delegates to BuildFunc, or returns empty storage.
func (b *TestGenesisBuilder) BuildState(patch json.RawMessage) (*storage.GenesisStorage, error) {
	if b.BuildFunc != nil {
		return b.BuildFunc(patch)
	}
	return storage.NewGenesisState().Genesis(), nil
}
