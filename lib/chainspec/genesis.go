// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/polkabuild/chainspec/lib/common"
	"github.com/polkabuild/chainspec/lib/runtime/storage"
)

// Genesis is the genesis payload of a specification document in
// exactly one of its three forms: precomputed raw storage, a
// configuration patch, or a full runtime genesis configuration.
// The unexported variant fields keep invalid combinations (for
// example both raw and patch populated) unrepresentable from outside
// the package.
type Genesis struct {
	raw   *RawGenesis
	patch json.RawMessage
	full  json.RawMessage
	code  common.HexBytes
}

// PatchGenesis returns a patch form genesis payload carrying the
// runtime code the node needs for its deferred build.
func PatchGenesis(patch json.RawMessage, code []byte) Genesis {
	return Genesis{patch: patch, code: code}
}

// FullGenesis returns a full runtimeGenesisConfig form genesis
// payload carrying the runtime code.
func FullGenesis(config json.RawMessage, code []byte) Genesis {
	return Genesis{full: config, code: code}
}

// RawGenesisPayload returns a raw form genesis payload. The code is
// kept as a sibling carrier and only serialized when the raw storage
// itself lacks the runtime code key.
func RawGenesisPayload(raw *RawGenesis, code []byte) Genesis {
	return Genesis{raw: raw, code: code}
}

// IsRaw returns true for the raw form.
func (g *Genesis) IsRaw() bool { return g.raw != nil }

// Raw returns the raw storage and true for the raw form.
func (g *Genesis) Raw() (*RawGenesis, bool) { return g.raw, g.raw != nil }

// Patch returns the configuration patch and true for the patch form.
func (g *Genesis) Patch() (json.RawMessage, bool) { return g.patch, g.patch != nil }

// RuntimeGenesisConfig returns the full configuration and true for the
// full form.
func (g *Genesis) RuntimeGenesisConfig() (json.RawMessage, bool) { return g.full, g.full != nil }

// RuntimeCode returns the runtime code travelling with the payload.
func (g *Genesis) RuntimeCode() []byte { return g.code }

// buildInput returns the configuration to feed to the runtime's
// genesis construction, for the patch and full forms.
func (g *Genesis) buildInput() (json.RawMessage, bool) {
	switch {
	case g.patch != nil:
		return g.patch, true
	case g.full != nil:
		return g.full, true
	default:
		return nil, false
	}
}

// MarshalJSON marshals the payload as an object holding its single
// variant, with the runtime code as a sibling code field where the
// variant needs one.
func (g Genesis) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	writeField := func(name string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding genesis %s: %w", name, err)
		}
		if buffer.Len() > 1 {
			buffer.WriteByte(',')
		}
		buffer.WriteString(strconv.Quote(name))
		buffer.WriteByte(':')
		buffer.Write(encoded)
		return nil
	}

	switch {
	case g.raw != nil:
		if err := writeField("raw", g.raw); err != nil {
			return nil, err
		}
		if len(g.code) > 0 && !g.raw.hasRuntimeCode() {
			if err := writeField("code", g.code); err != nil {
				return nil, err
			}
		}
	case g.patch != nil:
		if err := writeField("patch", g.patch); err != nil {
			return nil, err
		}
		if err := writeField("code", g.code); err != nil {
			return nil, err
		}
	case g.full != nil:
		if err := writeField("runtimeGenesisConfig", g.full); err != nil {
			return nil, err
		}
		if err := writeField("code", g.code); err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoGenesisVariant
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON unmarshals the genesis object, rejecting unknown
// fields and enforcing that exactly one variant is present and that
// the patch and full forms carry runtime code.
func (g *Genesis) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: genesis: %s", ErrDecode, err)
	}

	decoded := Genesis{}
	variants := 0
	for name, raw := range fields {
		switch name {
		case "raw":
			rawGenesis := new(RawGenesis)
			if err := json.Unmarshal(raw, rawGenesis); err != nil {
				return err
			}
			decoded.raw = rawGenesis
			variants++
		case "patch":
			decoded.patch = raw
			variants++
		case "runtimeGenesisConfig":
			decoded.full = raw
			variants++
		case "code":
			if err := json.Unmarshal(raw, &decoded.code); err != nil {
				return fmt.Errorf("%w: genesis.code: %s", ErrDecode, err)
			}
		default:
			return fmt.Errorf("%w: genesis.%s", ErrUnknownField, name)
		}
	}

	switch {
	case variants == 0:
		return ErrNoGenesisVariant
	case variants > 1:
		return ErrMultipleGenesisVariants
	case decoded.raw == nil && len(decoded.code) == 0:
		return ErrMissingRuntimeCode
	}

	*g = decoded
	return nil
}

// RawGenesis is precomputed genesis storage: the top-level trie
// entries plus the entries of every default child trie, all keys and
// values as 0x prefixed lowercase hex. Child tries are keyed by their
// full prefixed declaration key.
type RawGenesis struct {
	Top             map[string]string            `json:"top"`
	ChildrenDefault map[string]map[string]string `json:"childrenDefault"`
}

// NewRawGenesis converts collected genesis storage into its hex
// serialized raw form.
func NewRawGenesis(genesisStorage *storage.GenesisStorage) *RawGenesis {
	raw := &RawGenesis{
		Top:             make(map[string]string, len(genesisStorage.Top)),
		ChildrenDefault: make(map[string]map[string]string, len(genesisStorage.Children)),
	}
	for key, value := range genesisStorage.Top {
		raw.Top[common.BytesToHex([]byte(key))] = common.BytesToHex(value)
	}
	for id, child := range genesisStorage.Children {
		prefixed := make([]byte, 0, len(common.DefaultChildStorageKeyPrefix)+len(id))
		prefixed = append(prefixed, common.DefaultChildStorageKeyPrefix...)
		prefixed = append(prefixed, id...)

		entries := make(map[string]string, len(child))
		for key, value := range child {
			entries[common.BytesToHex([]byte(key))] = common.BytesToHex(value)
		}
		raw.ChildrenDefault[common.BytesToHex(prefixed)] = entries
	}
	return raw
}

// hasRuntimeCode returns true if the top-level entries already hold
// the runtime code under its well known key.
func (r *RawGenesis) hasRuntimeCode() bool {
	_, ok := r.Top[common.BytesToHex(common.CodeKey)]
	return ok
}

// UnmarshalJSON unmarshals the raw storage, rejecting unknown fields
// and normalizing every key and value to canonical lowercase hex.
func (r *RawGenesis) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: genesis.raw: %s", ErrDecode, err)
	}

	decoded := RawGenesis{
		Top:             make(map[string]string),
		ChildrenDefault: make(map[string]map[string]string),
	}
	for name, raw := range fields {
		switch name {
		case "top":
			var top map[string]string
			if err := json.Unmarshal(raw, &top); err != nil {
				return fmt.Errorf("%w: genesis.raw.top: %s", ErrDecode, err)
			}
			normalized, err := normalizeHexEntries(top)
			if err != nil {
				return fmt.Errorf("%w: genesis.raw.top: %s", ErrDecode, err)
			}
			decoded.Top = normalized
		case "childrenDefault":
			var children map[string]map[string]string
			if err := json.Unmarshal(raw, &children); err != nil {
				return fmt.Errorf("%w: genesis.raw.childrenDefault: %s", ErrDecode, err)
			}
			for childKey, entries := range children {
				childKeyBytes, err := common.HexToBytes(childKey)
				if err != nil {
					return fmt.Errorf("%w: genesis.raw.childrenDefault: %s", ErrDecode, err)
				}
				normalized, err := normalizeHexEntries(entries)
				if err != nil {
					return fmt.Errorf("%w: genesis.raw.childrenDefault[%s]: %s", ErrDecode, childKey, err)
				}
				decoded.ChildrenDefault[common.BytesToHex(childKeyBytes)] = normalized
			}
		default:
			return fmt.Errorf("%w: genesis.raw.%s", ErrUnknownField, name)
		}
	}

	*r = decoded
	return nil
}

// normalizeHexEntries re-encodes every key and value of a hex entry
// map into canonical 0x prefixed lowercase hex.
func normalizeHexEntries(entries map[string]string) (map[string]string, error) {
	normalized := make(map[string]string, len(entries))
	for key, value := range entries {
		keyBytes, err := common.HexToBytes(key)
		if err != nil {
			return nil, fmt.Errorf("key %q: %s", key, err)
		}
		valueBytes, err := common.HexToBytes(value)
		if err != nil {
			return nil, fmt.Errorf("value of key %q: %s", key, err)
		}
		normalized[common.BytesToHex(keyBytes)] = common.BytesToHex(valueBytes)
	}
	return normalized, nil
}

// CodeSubstitutes maps decimal block numbers to replacement runtime
// code, for emergency on-chain code overrides. It serializes its keys
// in ascending numeric order.
type CodeSubstitutes map[string]common.HexBytes

// MarshalJSON marshals the substitutes with block number keys in
// ascending numeric order rather than the lexicographic order plain
// string keys would get.
func (c CodeSubstitutes) MarshalJSON() ([]byte, error) {
	numbers := make([]uint64, 0, len(c))
	for key := range c {
		number, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing block number %q: %w", key, err)
		}
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, number := range numbers {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key := strconv.FormatUint(number, 10)
		encoded, err := json.Marshal(c[key])
		if err != nil {
			return nil, err
		}
		buffer.WriteString(strconv.Quote(key))
		buffer.WriteByte(':')
		buffer.Write(encoded)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON unmarshals the substitutes, normalizing block number
// keys to canonical decimal text.
func (c *CodeSubstitutes) UnmarshalJSON(data []byte) error {
	var entries map[string]common.HexBytes
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: codeSubstitutes: %s", ErrDecode, err)
	}

	decoded := make(CodeSubstitutes, len(entries))
	for key, value := range entries {
		number, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: codeSubstitutes: block number %q is not decimal", ErrDecode, key)
		}
		decoded[strconv.FormatUint(number, 10)] = value
	}
	*c = decoded
	return nil
}
