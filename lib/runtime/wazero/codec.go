// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package wazero_runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/polkabuild/chainspec/lib/runtime"
)

// Result and Option tag bytes of the SCALE codec.
const (
	resultOk  byte = 0x00
	resultErr byte = 0x01

	optionNone byte = 0x00
	optionSome byte = 0x01
)

// encodeBuildStateArgs encodes the configuration patch for
// GenesisBuilder_build_state as SCALE bytes.
func encodeBuildStateArgs(patch json.RawMessage) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := scale.NewEncoder(&buffer)
	if err := encoder.Encode([]byte(patch)); err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}
	return buffer.Bytes(), nil
}

// decodeBuildStateResult decodes the SCALE Result<(), String> returned
// by GenesisBuilder_build_state. A runtime-side error is surfaced as
// ErrBuildFailed with the diagnostic passed through verbatim.
func decodeBuildStateResult(data []byte) error {
	decoder := scale.NewDecoder(bytes.NewReader(data))
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return fmt.Errorf("decoding build result tag: %w", err)
	}

	switch tag {
	case resultOk:
		return nil
	case resultErr:
		var diagnostic string
		if err := decoder.Decode(&diagnostic); err != nil {
			return fmt.Errorf("decoding build diagnostic: %w", err)
		}
		return fmt.Errorf("%w: %s", runtime.ErrBuildFailed, diagnostic)
	default:
		return fmt.Errorf("%w: unexpected result tag 0x%02x", runtime.ErrBuildFailed, tag)
	}
}

// encodeGetPresetArgs encodes the SCALE Option<&str> argument of
// GenesisBuilder_get_preset. The empty id encodes the None sentinel
// selecting the runtime's implicit default preset.
func encodeGetPresetArgs(id string) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := scale.NewEncoder(&buffer)

	if id == "" {
		if err := encoder.PushByte(optionNone); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	}

	if err := encoder.PushByte(optionSome); err != nil {
		return nil, err
	}
	if err := encoder.Encode(id); err != nil {
		return nil, fmt.Errorf("encoding preset id: %w", err)
	}
	return buffer.Bytes(), nil
}

// decodeGetPresetResult decodes the SCALE Option<Vec<u8>> returned by
// GenesisBuilder_get_preset. None means the preset id is unknown.
func decodeGetPresetResult(data []byte) (json.RawMessage, bool, error) {
	decoder := scale.NewDecoder(bytes.NewReader(data))
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return nil, false, fmt.Errorf("decoding preset option tag: %w", err)
	}

	switch tag {
	case optionNone:
		return nil, false, nil
	case optionSome:
		var preset []byte
		if err := decoder.Decode(&preset); err != nil {
			return nil, false, fmt.Errorf("decoding preset configuration: %w", err)
		}
		return json.RawMessage(preset), true, nil
	default:
		return nil, false, fmt.Errorf("unexpected option tag 0x%02x", tag)
	}
}

// decodePresetNames decodes the SCALE Vec<String> returned by
// GenesisBuilder_preset_names.
func decodePresetNames(data []byte) ([]string, error) {
	decoder := scale.NewDecoder(bytes.NewReader(data))
	var names []string
	if err := decoder.Decode(&names); err != nil {
		return nil, fmt.Errorf("decoding preset names: %w", err)
	}
	return names, nil
}

// appendListItem appends a SCALE item to an existing SCALE encoded
// list, incrementing its compact length prefix. An empty current list
// starts a new single item list.
func appendListItem(current, item []byte) ([]byte, error) {
	count := big.NewInt(0)
	var rest []byte

	if len(current) > 0 {
		reader := bytes.NewReader(current)
		decoder := scale.NewDecoder(reader)
		decoded, err := decoder.DecodeUintCompact()
		if err != nil {
			return nil, fmt.Errorf("decoding list length: %w", err)
		}
		count = decoded
		rest, err = io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("reading list items: %w", err)
		}
	}

	count.Add(count, big.NewInt(1))

	var buffer bytes.Buffer
	encoder := scale.NewEncoder(&buffer)
	if err := encoder.EncodeUintCompact(*count); err != nil {
		return nil, fmt.Errorf("encoding list length: %w", err)
	}
	if err := encoder.Write(rest); err != nil {
		return nil, err
	}
	if err := encoder.Write(item); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
