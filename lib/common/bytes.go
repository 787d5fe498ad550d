// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoPrefix is returned when a hex string is missing its 0x prefix.
var ErrNoPrefix = errors.New("could not byteify non 0x prefixed string")

// HexToBytes turns a 0x prefixed hex string into a byte slice.
func HexToBytes(in string) ([]byte, error) {
	if !strings.HasPrefix(in, "0x") {
		return nil, fmt.Errorf("%w: %s", ErrNoPrefix, in)
	}
	in = strings.TrimPrefix(in, "0x")
	if len(in)%2 != 0 {
		return nil, errors.New("cannot decode a odd length string")
	}
	return hex.DecodeString(in)
}

// MustHexToBytes turns a 0x prefixed hex string into a byte slice.
// It panics if it cannot decode the string.
func MustHexToBytes(in string) []byte {
	out, err := HexToBytes(in)
	if err != nil {
		panic(err)
	}
	return out
}

// BytesToHex turns a byte slice into a 0x prefixed lowercase hex string.
func BytesToHex(in []byte) string {
	return "0x" + hex.EncodeToString(in)
}

// HexBytes is a byte slice which marshals to and from a 0x prefixed
// lowercase hex JSON string.
type HexBytes []byte

// MarshalJSON marshals the bytes as a 0x prefixed hex JSON string.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(BytesToHex(b))
}

// UnmarshalJSON unmarshals a 0x prefixed hex JSON string into the bytes.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := HexToBytes(s)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// String returns the 0x prefixed hex representation of the bytes.
func (b HexBytes) String() string {
	return BytesToHex(b)
}
