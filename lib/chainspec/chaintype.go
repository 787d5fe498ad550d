// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import (
	"encoding/json"
	"fmt"
)

// ChainType classifies the network a specification describes. The zero
// value serializes as Live.
type ChainType struct {
	kind   string
	custom string
}

// Known chain types.
var (
	ChainTypeDevelopment = ChainType{kind: "Development"}
	ChainTypeLocal       = ChainType{kind: "Local"}
	ChainTypeLive        = ChainType{kind: "Live"}
)

// CustomChainType returns a chain type outside the known set,
// serialized as {"Custom": name}.
func CustomChainType(name string) ChainType {
	return ChainType{kind: "Custom", custom: name}
}

func (t ChainType) String() string {
	if t.kind == "Custom" {
		return t.custom
	}
	if t.kind == "" {
		return "Live"
	}
	return t.kind
}

// MarshalJSON marshals known chain types as plain strings and custom
// ones as a single-key object.
func (t ChainType) MarshalJSON() ([]byte, error) {
	if t.kind == "Custom" {
		return json.Marshal(map[string]string{"Custom": t.custom})
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either a known chain type string or a
// {"Custom": name} object.
func (t *ChainType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "Development", "Local", "Live":
			*t = ChainType{kind: name}
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrInvalidChainType, name)
		}
	}

	var custom map[string]string
	if err := json.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidChainType, string(data))
	}
	name, ok := custom["Custom"]
	if !ok || len(custom) != 1 {
		return fmt.Errorf("%w: %s", ErrInvalidChainType, string(data))
	}
	*t = CustomChainType(name)
	return nil
}

// TelemetryEndpoint is one telemetry submission target together with
// its verbosity level. It serializes as a [url, verbosity] pair.
type TelemetryEndpoint struct {
	Endpoint  string
	Verbosity uint8
}

// MarshalJSON marshals the endpoint as a two element array.
func (e TelemetryEndpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Endpoint, e.Verbosity})
}

// UnmarshalJSON unmarshals a [url, verbosity] array.
func (e *TelemetryEndpoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTelemetryEndpoint, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrInvalidTelemetryEndpoint, len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Endpoint); err != nil {
		return fmt.Errorf("%w: endpoint url: %s", ErrInvalidTelemetryEndpoint, err)
	}
	if err := json.Unmarshal(pair[1], &e.Verbosity); err != nil {
		return fmt.Errorf("%w: verbosity: %s", ErrInvalidTelemetryEndpoint, err)
	}
	return nil
}
