// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
		err  string
	}{
		{name: "valid", in: "0x3a636f6465", want: []byte(":code")},
		{name: "empty payload", in: "0x", want: []byte{}},
		{name: "no prefix", in: "3a636f6465", err: "could not byteify non 0x prefixed string: 3a636f6465"},
		{name: "odd length", in: "0x3a6", err: "cannot decode a odd length string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToBytes(tt.in)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBytesToHex(t *testing.T) {
	assert.Equal(t, "0x3a636f6465", BytesToHex([]byte(":code")))
	assert.Equal(t, "0x", BytesToHex(nil))
}

func TestHexBytes_JSON(t *testing.T) {
	in := HexBytes{0xde, 0xad, 0xbe, 0xef}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"0xdeadbeef"`, string(data))

	var out HexBytes
	err = json.Unmarshal(data, &out)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`"deadbeef"`), &out)
	assert.ErrorIs(t, err, ErrNoPrefix)
}

func TestChildTrieID(t *testing.T) {
	id, ok := ChildTrieID([]byte(":child_storage:default:tokens"))
	assert.True(t, ok)
	assert.Equal(t, []byte("tokens"), id)

	_, ok = ChildTrieID([]byte("balances:alice"))
	assert.False(t, ok)
}
