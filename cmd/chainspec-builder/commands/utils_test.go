// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/polkabuild/chainspec/lib/chainspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainType(t *testing.T) {
	assert.Equal(t, chainspec.ChainTypeLive, parseChainType(""))
	assert.Equal(t, chainspec.ChainTypeLive, parseChainType("live"))
	assert.Equal(t, chainspec.ChainTypeDevelopment, parseChainType("dev"))
	assert.Equal(t, chainspec.ChainTypeLocal, parseChainType("local"))
	assert.Equal(t, chainspec.CustomChainType("Testanet"), parseChainType("Testanet"))
}

func TestMetadataFromFlags(t *testing.T) {
	cmd := createCmd
	require.NoError(t, cmd.Flags().Set("chain-name", "Local Testnet"))
	require.NoError(t, cmd.Flags().Set("chain-id", "local_testnet"))
	require.NoError(t, cmd.Flags().Set("chain-type", "local"))
	require.NoError(t, cmd.Flags().Set("properties", `{"tokenSymbol":"UNIT"}`))

	meta, err := metadataFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Local Testnet", meta.Name)
	assert.Equal(t, "local_testnet", meta.ID)
	assert.Equal(t, chainspec.ChainTypeLocal, meta.ChainType)
	assert.Equal(t, json.RawMessage(`{"tokenSymbol":"UNIT"}`), meta.Properties)

	require.NoError(t, cmd.Flags().Set("properties", "not json"))
	_, err = metadataFromFlags(cmd)
	assert.EqualError(t, err, "--properties is not valid JSON")
}

func TestRuntimeCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.wasm")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))

	code, err := runtimeCode(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, code)

	spec, err := chainspec.NewFromPatch(chainspec.Metadata{Name: "x", ID: "x"},
		json.RawMessage(`{}`), []byte{9})
	require.NoError(t, err)

	code, err = runtimeCode("", spec)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, code)
}
