// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package chainspec holds the chain specification document model:
// network identity metadata plus a genesis payload in raw, patch or
// full form, together with its canonical JSON serialization.
package chainspec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/polkabuild/chainspec/lib/runtime"
)

// ChainSpec is a chain specification document: the canonical
// description of a network's genesis state and identity metadata,
// consumed by a node at startup.
type ChainSpec struct {
	Name               string              `json:"name" validate:"required"`
	ID                 string              `json:"id" validate:"required"`
	ChainType          ChainType           `json:"chainType"`
	BootNodes          []string            `json:"bootNodes"`
	TelemetryEndpoints []TelemetryEndpoint `json:"telemetryEndpoints,omitempty"`
	ProtocolID         string              `json:"protocolId,omitempty"`
	ForkID             string              `json:"forkId,omitempty"`
	Properties         json.RawMessage     `json:"properties,omitempty"`
	CodeSubstitutes    CodeSubstitutes     `json:"codeSubstitutes,omitempty"`
	Genesis            Genesis             `json:"genesis"`
}

// Metadata is the identity and network metadata of a specification,
// everything but its genesis payload.
type Metadata struct {
	Name               string
	ID                 string
	ChainType          ChainType
	BootNodes          []string
	TelemetryEndpoints []TelemetryEndpoint
	ProtocolID         string
	ForkID             string
	Properties         json.RawMessage
	CodeSubstitutes    CodeSubstitutes
}

func newSpec(meta Metadata, genesis Genesis) *ChainSpec {
	return &ChainSpec{
		Name:               meta.Name,
		ID:                 meta.ID,
		ChainType:          meta.ChainType,
		BootNodes:          meta.BootNodes,
		TelemetryEndpoints: meta.TelemetryEndpoints,
		ProtocolID:         meta.ProtocolID,
		ForkID:             meta.ForkID,
		Properties:         meta.Properties,
		CodeSubstitutes:    meta.CodeSubstitutes,
		Genesis:            genesis,
	}
}

// NewFromPatch produces a patch form specification embedding the
// runtime code. No runtime execution happens here: the build is
// deferred to node startup.
func NewFromPatch(meta Metadata, patch json.RawMessage, runtimeCode []byte) (*ChainSpec, error) {
	if len(runtimeCode) == 0 {
		return nil, ErrMissingRuntimeCode
	}
	return newSpec(meta, PatchGenesis(patch, runtimeCode)), nil
}

// NewFromPreset resolves the named preset through the runtime and
// produces a patch form specification from it. The empty preset id
// selects the runtime's implicit default preset.
func NewFromPreset(meta Metadata, presetID string, runtimeCode []byte,
	builder runtime.GenesisBuilder) (*ChainSpec, error) {
	if len(runtimeCode) == 0 {
		return nil, ErrMissingRuntimeCode
	}
	patch, err := builder.GetPreset(presetID)
	if err != nil {
		return nil, err
	}
	return newSpec(meta, PatchGenesis(patch, runtimeCode)), nil
}

// NewFromRaw produces a specification around an already built raw
// genesis payload.
func NewFromRaw(meta Metadata, raw *RawGenesis, runtimeCode []byte) *ChainSpec {
	return newSpec(meta, RawGenesisPayload(raw, runtimeCode))
}

// ToRaw executes the runtime's genesis construction on the patch or
// full configuration and replaces the payload with the collected raw
// storage. It is idempotent on an already raw specification, and on
// any failure the specification is left unmodified.
func (cs *ChainSpec) ToRaw(builder runtime.GenesisBuilder) error {
	if cs.Genesis.IsRaw() {
		return nil
	}

	input, ok := cs.Genesis.buildInput()
	if !ok {
		return ErrNoGenesisVariant
	}

	built, err := builder.BuildState(input)
	if err != nil {
		return err
	}

	cs.Genesis = RawGenesisPayload(NewRawGenesis(built), cs.Genesis.RuntimeCode())
	return nil
}

// ToJSON serializes the specification to canonical indented JSON:
// lowercase 0x hex for all byte fields, storage keys in ascending
// raw-byte order and code substitute keys in ascending numeric order.
// The output is a fixed point of Decode followed by ToJSON.
func (cs *ChainSpec) ToJSON() ([]byte, error) {
	return json.MarshalIndent(cs, "", "    ")
}

// Decode decodes a specification document, rejecting unknown fields
// with their field path.
func Decode(data []byte) (*ChainSpec, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	spec := &ChainSpec{}
	targets := map[string]any{
		"name":               &spec.Name,
		"id":                 &spec.ID,
		"chainType":          &spec.ChainType,
		"bootNodes":          &spec.BootNodes,
		"telemetryEndpoints": &spec.TelemetryEndpoints,
		"protocolId":         &spec.ProtocolID,
		"forkId":             &spec.ForkID,
		"properties":         &spec.Properties,
		"codeSubstitutes":    &spec.CodeSubstitutes,
		"genesis":            &spec.Genesis,
	}

	for name, raw := range fields {
		target, known := targets[name]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			if errorIsTyped(err) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %s", ErrDecode, name, err)
		}
	}

	if _, present := fields["genesis"]; !present {
		return nil, fmt.Errorf("%w: genesis: field is required", ErrDecode)
	}
	return spec, nil
}

// errorIsTyped reports whether the error already carries one of this
// package's sentinels, so Decode does not wrap it a second time.
func errorIsTyped(err error) bool {
	for _, sentinel := range []error{
		ErrDecode, ErrUnknownField,
		ErrNoGenesisVariant, ErrMultipleGenesisVariants, ErrMissingRuntimeCode,
		ErrInvalidChainType, ErrInvalidTelemetryEndpoint,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
