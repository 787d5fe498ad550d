// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package wazero_runtime

import (
	"fmt"
	"testing"

	"github.com/polkabuild/chainspec/lib/runtime/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstance_emptyCode(t *testing.T) {
	_, err := NewInstance(nil)
	assert.EqualError(t, err, "code is empty")
}

func TestContext_fail(t *testing.T) {
	rtCtx := &Context{}

	first := fmt.Errorf("setting child storage: %w", storage.ErrMalformedStorageEvent)
	assert.PanicsWithError(t, first.Error(), func() {
		rtCtx.fail(first)
	})
	assert.Equal(t, first, rtCtx.hostErr)

	// a later failure does not displace the first recorded error
	assert.Panics(t, func() {
		rtCtx.fail(fmt.Errorf("second failure"))
	})
	assert.Equal(t, first, rtCtx.hostErr)
}

func TestCallFailure(t *testing.T) {
	testCases := map[string]struct {
		rtCtx      *Context
		cause      any
		errWrapped error
		errMessage string
	}{
		"recorded host error wins over the trap": {
			rtCtx: &Context{hostErr: fmt.Errorf("setting child storage: %w",
				storage.ErrMalformedStorageEvent)},
			cause:      "wasm error: unreachable",
			errWrapped: storage.ErrMalformedStorageEvent,
			errMessage: "calling GenesisBuilder_build_state: " +
				"setting child storage: malformed storage event",
		},
		"engine trap without host error": {
			rtCtx:      &Context{},
			cause:      "wasm error: out of bounds memory access",
			errMessage: "calling GenesisBuilder_build_state: " +
				"wasm error: out of bounds memory access",
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			err := callFailure(testCase.rtCtx, "GenesisBuilder_build_state", testCase.cause)
			require.Error(t, err)
			if testCase.errWrapped != nil {
				assert.ErrorIs(t, err, testCase.errWrapped)
			}
			assert.EqualError(t, err, testCase.errMessage)
		})
	}
}
