// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/polkabuild/chainspec/lib/runtime"
	"github.com/polkabuild/chainspec/lib/runtime/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localMetadata() Metadata {
	return Metadata{
		Name:      "Local Testnet",
		ID:        "local_testnet",
		ChainType: ChainTypeLocal,
	}
}

func TestNewFromPatch(t *testing.T) {
	spec, err := NewFromPatch(localMetadata(), json.RawMessage(`{"a":1}`), []byte{1, 2, 3})
	require.NoError(t, err)

	patch, ok := spec.Genesis.Patch()
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`{"a":1}`), patch)
	assert.Equal(t, []byte{1, 2, 3}, spec.Genesis.RuntimeCode())

	_, err = NewFromPatch(localMetadata(), json.RawMessage(`{}`), nil)
	assert.ErrorIs(t, err, ErrMissingRuntimeCode)
}

func TestNewFromPreset(t *testing.T) {
	builder := &runtime.TestGenesisBuilder{
		Presets: map[string]json.RawMessage{
			"development": json.RawMessage(`{"balances":{"alice":1000}}`),
		},
	}

	spec, err := NewFromPreset(localMetadata(), "development", []byte{1}, builder)
	require.NoError(t, err)
	patch, ok := spec.Genesis.Patch()
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`{"balances":{"alice":1000}}`), patch)

	spec, err = NewFromPreset(localMetadata(), "nonexistent", []byte{1}, builder)
	assert.ErrorIs(t, err, runtime.ErrPresetNotFound)
	assert.Nil(t, spec)
}

func TestChainSpec_ToJSON_patch(t *testing.T) {
	spec, err := NewFromPatch(localMetadata(), json.RawMessage(`{"a":1}`), []byte{1, 2, 3})
	require.NoError(t, err)

	data, err := spec.ToJSON()
	require.NoError(t, err)

	expected := `{
    "name": "Local Testnet",
    "id": "local_testnet",
    "chainType": "Local",
    "bootNodes": null,
    "genesis": {
        "patch": {
            "a": 1
        },
        "code": "0x010203"
    }
}`
	assert.Equal(t, expected, string(data))
}

func TestChainSpec_ToJSON_rawKeyOrdering(t *testing.T) {
	spec := NewFromRaw(localMetadata(), &RawGenesis{
		// insertion order deliberately descending
		Top: map[string]string{
			"0xff":   "0x01",
			"0x0a0b": "0x02",
			"0x0a":   "0x03",
		},
		ChildrenDefault: map[string]map[string]string{},
	}, nil)

	data, err := spec.ToJSON()
	require.NoError(t, err)

	expected := `{
    "name": "Local Testnet",
    "id": "local_testnet",
    "chainType": "Local",
    "bootNodes": null,
    "genesis": {
        "raw": {
            "top": {
                "0x0a": "0x03",
                "0x0a0b": "0x02",
                "0xff": "0x01"
            },
            "childrenDefault": {}
        }
    }
}`
	assert.Equal(t, expected, string(data))
}

func TestChainSpec_roundTripFixedPoint(t *testing.T) {
	spec, err := NewFromPatch(Metadata{
		Name:      "Kusama",
		ID:        "ksmcc3",
		ChainType: ChainTypeLive,
		BootNodes: []string{
			"/dns4/p2p.cc3-0.kusama.network/tcp/30100/p2p/12D3KooWDgtynm4S9M3m6ZZhXYu2RrWKdvkCSScc25xKDVSg1Sjd",
		},
		TelemetryEndpoints: []TelemetryEndpoint{
			{Endpoint: "wss://telemetry.polkadot.io/submit/", Verbosity: 0},
		},
		ProtocolID: "ksmcc3",
		ForkID:     "ksmcc3-fork",
		Properties: json.RawMessage(`{"ss58Format":2,"tokenDecimals":12,"tokenSymbol":"KSM"}`),
		CodeSubstitutes: CodeSubstitutes{
			"10": []byte{0xaa},
			"2":  []byte{0xbb},
		},
	}, json.RawMessage(`{"balances":{"alice":1000}}`), []byte{1, 2, 3})
	require.NoError(t, err)

	first, err := spec.ToJSON()
	require.NoError(t, err)

	decoded, err := Decode(first)
	require.NoError(t, err)

	second, err := decoded.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestChainSpec_roundTripSemanticEquality(t *testing.T) {
	spec := NewFromRaw(localMetadata(), &RawGenesis{
		Top: map[string]string{"0x616263": "0x0102"},
		ChildrenDefault: map[string]map[string]string{
			"0x3a6368696c645f73746f726167653a64656661756c743a7472": {"0x6b": "0x76"},
		},
	}, nil)

	data, err := spec.ToJSON()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, spec, decoded)
}

func TestDecode_errors(t *testing.T) {
	testCases := map[string]struct {
		data       string
		errWrapped error
		errMessage string
	}{
		"unknown top level field": {
			data:       `{"name":"x","id":"x","genesis":{"raw":{"top":{}}},"bogus":1}`,
			errWrapped: ErrUnknownField,
			errMessage: "unknown field: bogus",
		},
		"unknown genesis field": {
			data:       `{"name":"x","id":"x","genesis":{"raw":{"top":{}},"extra":1}}`,
			errWrapped: ErrUnknownField,
			errMessage: "unknown field: genesis.extra",
		},
		"missing genesis": {
			data:       `{"name":"x","id":"x"}`,
			errWrapped: ErrDecode,
			errMessage: "cannot decode specification document: genesis: field is required",
		},
		"no genesis variant": {
			data:       `{"name":"x","id":"x","genesis":{}}`,
			errWrapped: ErrNoGenesisVariant,
		},
		"multiple genesis variants": {
			data:       `{"name":"x","id":"x","genesis":{"raw":{"top":{}},"patch":{},"code":"0x01"}}`,
			errWrapped: ErrMultipleGenesisVariants,
		},
		"patch without code": {
			data:       `{"name":"x","id":"x","genesis":{"patch":{}}}`,
			errWrapped: ErrMissingRuntimeCode,
		},
		"invalid chain type": {
			data:       `{"name":"x","id":"x","chainType":"Weird","genesis":{"raw":{"top":{}}}}`,
			errWrapped: ErrInvalidChainType,
		},
		"malformed hex key": {
			data:       `{"name":"x","id":"x","genesis":{"raw":{"top":{"nothex":"0x01"}}}}`,
			errWrapped: ErrDecode,
		},
		"not json": {
			data:       `{`,
			errWrapped: ErrDecode,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(testCase.data))
			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errMessage != "" {
				assert.EqualError(t, err, testCase.errMessage)
			}
		})
	}
}

func TestChainSpec_ToRaw(t *testing.T) {
	builder := &runtime.TestGenesisBuilder{
		BuildFunc: func(patch json.RawMessage) (*storage.GenesisStorage, error) {
			state := storage.NewGenesisState()
			state.Put([]byte("balances:alice"), []byte{0xe8, 0x03})
			return state.Genesis(), nil
		},
	}

	spec, err := NewFromPatch(localMetadata(), json.RawMessage(`{"balances":{"alice":1000}}`), []byte{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, spec.ToRaw(builder))

	raw, ok := spec.Genesis.Raw()
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"0x62616c616e6365733a616c696365": "0xe803",
	}, raw.Top)
	assert.Empty(t, raw.ChildrenDefault)

	// code survives as the sibling carrier since the runtime did not
	// write it into storage
	data, err := spec.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"code": "0x010203"`)
}

func TestChainSpec_ToRaw_idempotent(t *testing.T) {
	spec := NewFromRaw(localMetadata(), &RawGenesis{
		Top:             map[string]string{"0x6b": "0x76"},
		ChildrenDefault: map[string]map[string]string{},
	}, nil)

	before, err := spec.ToJSON()
	require.NoError(t, err)

	// a builder which would fail if it were ever invoked
	builder := &runtime.TestGenesisBuilder{
		BuildFunc: func(json.RawMessage) (*storage.GenesisStorage, error) {
			return nil, errors.New("must not be called")
		},
	}
	require.NoError(t, spec.ToRaw(builder))

	after, err := spec.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestChainSpec_ToRaw_noMutationOnFailure(t *testing.T) {
	builder := &runtime.TestGenesisBuilder{
		BuildFunc: func(json.RawMessage) (*storage.GenesisStorage, error) {
			return nil, runtime.ErrBuildFailed
		},
	}

	spec, err := NewFromPatch(localMetadata(), json.RawMessage(`{"a":1}`), []byte{1})
	require.NoError(t, err)
	before, err := spec.ToJSON()
	require.NoError(t, err)

	err = spec.ToRaw(builder)
	assert.ErrorIs(t, err, runtime.ErrBuildFailed)

	after, err := spec.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestChainSpec_ToRaw_runtimeWritesCode(t *testing.T) {
	builder := &runtime.TestGenesisBuilder{
		BuildFunc: func(json.RawMessage) (*storage.GenesisStorage, error) {
			state := storage.NewGenesisState()
			state.Put([]byte(":code"), []byte{9, 9})
			return state.Genesis(), nil
		},
	}

	spec, err := NewFromPatch(localMetadata(), json.RawMessage(`{}`), []byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, spec.ToRaw(builder))

	// no redundant sibling code field once storage holds the code
	data, err := spec.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"code"`)
	raw, _ := spec.Genesis.Raw()
	assert.Equal(t, "0x0909", raw.Top["0x3a636f6465"])
}

func TestChainType_marshalling(t *testing.T) {
	testCases := map[string]struct {
		chainType ChainType
		encoded   string
	}{
		"development": {ChainTypeDevelopment, `"Development"`},
		"local":       {ChainTypeLocal, `"Local"`},
		"live":        {ChainTypeLive, `"Live"`},
		"zero value":  {ChainType{}, `"Live"`},
		"custom":      {CustomChainType("Testanet"), `{"Custom":"Testanet"}`},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			encoded, err := json.Marshal(testCase.chainType)
			require.NoError(t, err)
			assert.Equal(t, testCase.encoded, string(encoded))

			var decoded ChainType
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			assert.Equal(t, testCase.chainType.String(), decoded.String())
		})
	}
}

func TestTelemetryEndpoint_marshalling(t *testing.T) {
	endpoint := TelemetryEndpoint{Endpoint: "wss://telemetry.polkadot.io/submit/", Verbosity: 1}

	encoded, err := json.Marshal(endpoint)
	require.NoError(t, err)
	assert.Equal(t, `["wss://telemetry.polkadot.io/submit/",1]`, string(encoded))

	var decoded TelemetryEndpoint
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, endpoint, decoded)

	err = json.Unmarshal([]byte(`["url"]`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidTelemetryEndpoint)
}

func TestCodeSubstitutes_numericOrder(t *testing.T) {
	substitutes := CodeSubstitutes{
		"10":  []byte{0x0a},
		"2":   []byte{0x02},
		"100": []byte{0x64},
	}

	encoded, err := json.Marshal(substitutes)
	require.NoError(t, err)
	// lexicographic order would put "10" and "100" before "2"
	assert.Equal(t, `{"2":"0x02","10":"0x0a","100":"0x64"}`, string(encoded))
}

func TestChainSpec_Validate(t *testing.T) {
	spec, err := NewFromPatch(Metadata{
		Name: "Local Testnet",
		ID:   "local_testnet",
		BootNodes: []string{
			"/ip4/127.0.0.1/tcp/30333/p2p/12D3KooWDgtynm4S9M3m6ZZhXYu2RrWKdvkCSScc25xKDVSg1Sjd",
		},
	}, json.RawMessage(`{}`), []byte{1})
	require.NoError(t, err)
	assert.NoError(t, spec.Validate())

	spec.BootNodes = []string{"not-a-multiaddr"}
	assert.Error(t, spec.Validate())

	spec.BootNodes = nil
	spec.Name = ""
	assert.Error(t, spec.Validate())
}
