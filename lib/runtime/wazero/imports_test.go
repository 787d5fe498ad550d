// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package wazero_runtime

import (
	"testing"

	"github.com/polkabuild/chainspec/lib/common"
	"github.com/stretchr/testify/assert"
)

func TestSha256Digest(t *testing.T) {
	testCases := map[string]struct {
		data   []byte
		digest []byte
	}{
		"empty input": {
			digest: common.MustHexToBytes(
				"0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
		},
		"known vector": {
			data: []byte("test"),
			digest: common.MustHexToBytes(
				"0x9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"),
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testCase.digest, sha256Digest(testCase.data))
		})
	}
}

func TestKeccak256Digest(t *testing.T) {
	digest := keccak256Digest(nil)
	assert.Equal(t, common.MustHexToBytes(
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		digest)
}

func TestBlake2b256Digest(t *testing.T) {
	digest := blake2b256Digest([]byte("abc"))
	assert.Equal(t, common.MustHexToBytes(
		"0xbddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"),
		digest)
}

func TestBlake2b128Digest(t *testing.T) {
	digest := blake2b128Digest([]byte("abc"))
	assert.Len(t, digest, 16)
	assert.Equal(t, digest, blake2b128Digest([]byte("abc")))
	assert.NotEqual(t, digest, blake2b128Digest([]byte("abd")))
}

func TestTwox(t *testing.T) {
	testCases := map[string]struct {
		data   []byte
		rounds uint64
		digest []byte
	}{
		"64-bit empty input": {
			rounds: 1,
			digest: common.MustHexToBytes("0x99e9d85137db46ef"),
		},
		"128-bit module prefix": {
			data:   []byte("System"),
			rounds: 2,
			digest: common.MustHexToBytes("0x26aa394eea5630e07c48ae0c9558cef7"),
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testCase.digest, twox(testCase.data, testCase.rounds))
		})
	}
}
