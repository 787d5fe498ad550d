// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package wazero_runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/polkabuild/chainspec/internal/log"
	"github.com/polkabuild/chainspec/lib/runtime"
	"github.com/polkabuild/chainspec/lib/runtime/storage"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var logger = log.NewFromGlobal(
	log.AddContext("pkg", "runtime"),
	log.AddContext("module", "wazero"),
)

// fallback when the runtime module does not export __heap_base.
const defaultHeapBase = uint32(1 << 21)

type contextKey struct{}

// Context carries the per-invocation state host functions operate on.
type Context struct {
	State     *storage.GenesisState
	Allocator *runtime.FreeingBumpHeapAllocator

	// hostErr records a typed host-side failure so Exec can surface
	// it instead of the generic trap message.
	hostErr error
}

// fail records the typed error and aborts the invocation. The first
// recorded error wins.
func (c *Context) fail(err error) {
	if c.hostErr == nil {
		c.hostErr = err
	}
	panic(err)
}

func mustContext(ctx context.Context) *Context {
	rtCtx, ok := ctx.Value(contextKey{}).(*Context)
	if !ok {
		panic("missing runtime context")
	}
	return rtCtx
}

// Instance is a runtime module instantiated by wazero.
type Instance struct {
	ctx      context.Context
	rt       wazero.Runtime
	module   api.Module
	heapBase uint32

	mutex sync.Mutex
	state *storage.GenesisState
}

var _ runtime.GenesisBuilder = (*Instance)(nil)
var _ runtime.Instance = (*Instance)(nil)

// NewInstance instantiates a runtime from raw wasm bytecode.
func NewInstance(code []byte) (*Instance, error) {
	if len(code) == 0 {
		return nil, errors.New("code is empty")
	}

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)

	if err := registerImports(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("registering host imports: %w", err)
	}

	module, err := rt.InstantiateWithConfig(ctx, code,
		wazero.NewModuleConfig().WithName("runtime"))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiating runtime module: %w", err)
	}

	heapBase := defaultHeapBase
	if global := module.ExportedGlobal("__heap_base"); global != nil {
		heapBase = uint32(global.Get())
	}

	return &Instance{
		ctx:      ctx,
		rt:       rt,
		module:   module,
		heapBase: heapBase,
	}, nil
}

// Stop closes the instance and releases its resources.
func (in *Instance) Stop() {
	_ = in.rt.Close(in.ctx)
}

// Exec calls the given exported runtime function with the
// byte-serialized data and returns the byte-serialized result.
// Traps inside the runtime surface as errors, never as panics.
func (in *Instance) Exec(function string, data []byte) (result []byte, err error) {
	in.mutex.Lock()
	defer in.mutex.Unlock()

	fn := in.module.ExportedFunction(function)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", runtime.ErrEntrypointMissing, function)
	}

	rtCtx := &Context{
		State:     in.state,
		Allocator: runtime.NewAllocator(in.module.Memory(), in.heapBase),
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = callFailure(rtCtx, function, r)
		}
	}()

	inputPtr, err := rtCtx.Allocator.Allocate(uint32(len(data)))
	if err != nil {
		return nil, fmt.Errorf("allocating input data: %w", err)
	}
	if len(data) > 0 {
		if ok := in.module.Memory().Write(inputPtr, data); !ok {
			return nil, fmt.Errorf("out of range write at %d", inputPtr)
		}
	}

	ctx := context.WithValue(in.ctx, contextKey{}, rtCtx)

	values, err := fn.Call(ctx, uint64(inputPtr), uint64(len(data)))
	if err != nil {
		return nil, callFailure(rtCtx, function, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no value returned from %s", function)
	}

	ptr, size := splitPointerSize(int64(values[0]))
	output, ok := in.module.Memory().Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("out of range read at %d", ptr)
	}

	result = make([]byte, len(output))
	copy(result, output)
	return result, nil
}

// callFailure resolves a failed entrypoint invocation to an error,
// preferring the typed error a host function recorded over the
// engine's trap or panic message.
func callFailure(rtCtx *Context, function string, cause any) error {
	if rtCtx.hostErr != nil {
		return fmt.Errorf("calling %s: %w", function, rtCtx.hostErr)
	}
	return fmt.Errorf("calling %s: %v", function, cause)
}

func (in *Instance) setState(state *storage.GenesisState) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.state = state
}

// ListPresets queries the runtime for its named configuration presets.
func (in *Instance) ListPresets() ([]string, error) {
	output, err := in.Exec(runtime.GenesisBuilderPresetNames, nil)
	if err != nil {
		return nil, err
	}
	return decodePresetNames(output)
}

// GetPreset returns the configuration of the given preset id, the
// empty id selecting the runtime's implicit default preset.
func (in *Instance) GetPreset(id string) (json.RawMessage, error) {
	args, err := encodeGetPresetArgs(id)
	if err != nil {
		return nil, err
	}

	output, err := in.Exec(runtime.GenesisBuilderGetPreset, args)
	if err != nil {
		return nil, err
	}

	preset, found, err := decodeGetPresetResult(output)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", runtime.ErrPresetNotFound, id)
	}
	return preset, nil
}

// BuildState executes the runtime's genesis construction with the
// given patch and collects every storage write it performs. No
// storage is returned unless the whole build succeeds.
func (in *Instance) BuildState(patch json.RawMessage) (*storage.GenesisStorage, error) {
	args, err := encodeBuildStateArgs(patch)
	if err != nil {
		return nil, err
	}

	state := storage.NewGenesisState()
	in.setState(state)
	defer in.setState(nil)

	output, err := in.Exec(runtime.GenesisBuilderBuildState, args)
	if err != nil {
		if errors.Is(err, runtime.ErrEntrypointMissing) ||
			errors.Is(err, storage.ErrMalformedStorageEvent) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", runtime.ErrBuildFailed, err)
	}

	if err := decodeBuildStateResult(output); err != nil {
		return nil, err
	}

	genesis := state.Genesis()
	logger.Debugf("genesis build collected %d top-level keys", len(genesis.Top))
	return genesis, nil
}
