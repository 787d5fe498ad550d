// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package wazero_runtime

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// splitPointerSize converts an int64 pointer size to an
// uint32 pointer and an uint32 size.
func splitPointerSize(pointerSize int64) (ptr, size uint32) {
	return uint32(pointerSize), uint32(pointerSize >> 32)
}

// joinPointerSize joins an uint32 pointer and an uint32 size
// into an int64 pointer size.
func joinPointerSize(ptr, size uint32) (pointerSize int64) {
	return int64(ptr) | (int64(size) << 32)
}

// asMemorySlice converts a 64 bit pointer size to an owned Go byte slice.
func asMemorySlice(m api.Module, pointerSize int64) (data []byte) {
	ptr, size := splitPointerSize(pointerSize)
	view, ok := m.Memory().Read(ptr, size)
	if !ok {
		panic(fmt.Sprintf("out of range memory read at %d (size %d)", ptr, size))
	}
	data = make([]byte, len(view))
	copy(data, view)
	return data
}

// toWasmMemory copies a Go byte slice to wasm memory and returns the
// corresponding 64 bit pointer size.
func toWasmMemory(ctx context.Context, m api.Module, data []byte) int64 {
	rtCtx := mustContext(ctx)

	pointer, err := rtCtx.Allocator.Allocate(uint32(len(data)))
	if err != nil {
		panic(fmt.Sprintf("allocating: %s", err))
	}
	if len(data) > 0 {
		if ok := m.Memory().Write(pointer, data); !ok {
			panic(fmt.Sprintf("out of range memory write at %d", pointer))
		}
	}
	return joinPointerSize(pointer, uint32(len(data)))
}

// toWasmMemorySized copies a Go byte slice of well known fixed length
// to wasm memory and returns the corresponding 32 bit pointer.
func toWasmMemorySized(ctx context.Context, m api.Module, data []byte) uint32 {
	rtCtx := mustContext(ctx)

	pointer, err := rtCtx.Allocator.Allocate(uint32(len(data)))
	if err != nil {
		panic(fmt.Sprintf("allocating: %s", err))
	}
	if ok := m.Memory().Write(pointer, data); !ok {
		panic(fmt.Sprintf("out of range memory write at %d", pointer))
	}
	return pointer
}

// toWasmMemoryOptional writes data as a SCALE Option<Vec<u8>> to wasm
// memory. A nil slice encodes None.
func toWasmMemoryOptional(ctx context.Context, m api.Module, data []byte) int64 {
	var buffer bytes.Buffer
	encoder := scale.NewEncoder(&buffer)
	if data == nil {
		_ = encoder.PushByte(optionNone)
	} else {
		_ = encoder.PushByte(optionSome)
		if err := encoder.Encode(data); err != nil {
			panic(fmt.Sprintf("encoding option: %s", err))
		}
	}
	return toWasmMemory(ctx, m, buffer.Bytes())
}

// toWasmMemoryOptionalUint32 writes a SCALE Option<u32> to wasm memory.
func toWasmMemoryOptionalUint32(ctx context.Context, m api.Module, value *uint32) int64 {
	var buffer bytes.Buffer
	if value == nil {
		buffer.WriteByte(optionNone)
	} else {
		buffer.WriteByte(optionSome)
		encoded := make([]byte, 4)
		binary.LittleEndian.PutUint32(encoded, *value)
		buffer.Write(encoded)
	}
	return toWasmMemory(ctx, m, buffer.Bytes())
}

func ext_logging_log_version_1(_ context.Context, m api.Module, level int32, targetData, msgData int64) {
	target := string(asMemorySlice(m, targetData))
	msg := string(asMemorySlice(m, msgData))

	switch int(level) {
	case 0:
		logger.Critical("target=" + target + " message=" + msg)
	case 1:
		logger.Warn("target=" + target + " message=" + msg)
	case 2:
		logger.Info("target=" + target + " message=" + msg)
	case 3:
		logger.Debug("target=" + target + " message=" + msg)
	case 4:
		logger.Trace("target=" + target + " message=" + msg)
	default:
		logger.Errorf("level=%d target=%s message=%s", int(level), target, msg)
	}
}

func ext_logging_max_level_version_1(_ context.Context, _ api.Module) int32 {
	const traceLevel = 4
	return traceLevel
}

func ext_misc_print_utf8_version_1(_ context.Context, m api.Module, dataSpan int64) {
	logger.Info(string(asMemorySlice(m, dataSpan)))
}

func ext_misc_print_hex_version_1(_ context.Context, m api.Module, dataSpan int64) {
	logger.Infof("0x%x", asMemorySlice(m, dataSpan))
}

func ext_misc_print_num_version_1(_ context.Context, _ api.Module, data int64) {
	logger.Infof("%d", data)
}

func ext_allocator_malloc_version_1(ctx context.Context, _ api.Module, size int32) int32 {
	rtCtx := mustContext(ctx)
	pointer, err := rtCtx.Allocator.Allocate(uint32(size))
	if err != nil {
		panic(fmt.Sprintf("allocating: %s", err))
	}
	return int32(pointer)
}

func ext_allocator_free_version_1(ctx context.Context, _ api.Module, addr int32) {
	rtCtx := mustContext(ctx)
	if err := rtCtx.Allocator.Deallocate(uint32(addr)); err != nil {
		panic(fmt.Sprintf("deallocating: %s", err))
	}
}

func ext_storage_set_version_1(ctx context.Context, m api.Module, keySpan, valueSpan int64) {
	rtCtx := mustContext(ctx)
	key := asMemorySlice(m, keySpan)
	value := asMemorySlice(m, valueSpan)
	logger.Tracef("key 0x%x has value 0x%x", key, value)
	rtCtx.State.Put(key, value)
}

func ext_storage_get_version_1(ctx context.Context, m api.Module, keySpan int64) int64 {
	rtCtx := mustContext(ctx)
	key := asMemorySlice(m, keySpan)
	return toWasmMemoryOptional(ctx, m, rtCtx.State.Get(key))
}

func ext_storage_read_version_1(ctx context.Context, m api.Module, keySpan, valueOut int64, offset int32) int64 {
	rtCtx := mustContext(ctx)
	key := asMemorySlice(m, keySpan)

	value := rtCtx.State.Get(key)
	if value == nil {
		return toWasmMemoryOptionalUint32(ctx, m, nil)
	}

	var read []byte
	if int(offset) <= len(value) {
		read = value[offset:]
	}
	outPtr, outSize := splitPointerSize(valueOut)
	if uint32(len(read)) > outSize {
		read = read[:outSize]
	}
	if len(read) > 0 {
		if ok := m.Memory().Write(outPtr, read); !ok {
			panic(fmt.Sprintf("out of range memory write at %d", outPtr))
		}
	}
	written := uint32(len(read))
	return toWasmMemoryOptionalUint32(ctx, m, &written)
}

func ext_storage_clear_version_1(ctx context.Context, m api.Module, keySpan int64) {
	rtCtx := mustContext(ctx)
	key := asMemorySlice(m, keySpan)
	logger.Tracef("key 0x%x", key)
	rtCtx.State.Delete(key)
}

func ext_storage_exists_version_1(ctx context.Context, m api.Module, keySpan int64) int32 {
	rtCtx := mustContext(ctx)
	if rtCtx.State.Has(asMemorySlice(m, keySpan)) {
		return 1
	}
	return 0
}

func ext_storage_clear_prefix_version_1(ctx context.Context, m api.Module, prefixSpan int64) {
	rtCtx := mustContext(ctx)
	rtCtx.State.ClearPrefix(asMemorySlice(m, prefixSpan))
}

func ext_storage_clear_prefix_version_2(ctx context.Context, m api.Module, prefixSpan, _ int64) int64 {
	rtCtx := mustContext(ctx)
	rtCtx.State.ClearPrefix(asMemorySlice(m, prefixSpan))

	// KillStorageResult::AllRemoved(0): the collector does not track
	// removal counts during genesis construction.
	var buffer bytes.Buffer
	buffer.WriteByte(0)
	buffer.Write(make([]byte, 4))
	return toWasmMemory(ctx, m, buffer.Bytes())
}

func ext_storage_append_version_1(ctx context.Context, m api.Module, keySpan, valueSpan int64) {
	rtCtx := mustContext(ctx)
	key := asMemorySlice(m, keySpan)
	item := asMemorySlice(m, valueSpan)

	appended, err := appendListItem(rtCtx.State.Get(key), item)
	if err != nil {
		panic(fmt.Sprintf("appending to storage list at key 0x%x: %s", key, err))
	}
	rtCtx.State.Put(key, appended)
}

func ext_storage_next_key_version_1(ctx context.Context, m api.Module, keySpan int64) int64 {
	rtCtx := mustContext(ctx)
	next := rtCtx.State.NextKey(asMemorySlice(m, keySpan))
	return toWasmMemoryOptional(ctx, m, next)
}

func ext_storage_root_version_1(ctx context.Context, m api.Module) int64 {
	rtCtx := mustContext(ctx)
	root := rtCtx.State.Root()
	return toWasmMemory(ctx, m, root[:])
}

func ext_storage_root_version_2(ctx context.Context, m api.Module, _ int32) int64 {
	return ext_storage_root_version_1(ctx, m)
}

// Storage transactions are single-shot during a genesis build: the
// whole invocation is already all-or-nothing, so begin and commit are
// recorded for tracing only.
func ext_storage_start_transaction_version_1(_ context.Context, _ api.Module) {
	logger.Trace("storage transaction started")
}

func ext_storage_commit_transaction_version_1(_ context.Context, _ api.Module) {
	logger.Trace("storage transaction committed")
}

func ext_storage_rollback_transaction_version_1(_ context.Context, _ api.Module) {
	panic("storage transaction rollback is not supported during genesis construction")
}

func ext_default_child_storage_set_version_1(ctx context.Context, m api.Module, childSpan, keySpan, valueSpan int64) {
	rtCtx := mustContext(ctx)
	child := asMemorySlice(m, childSpan)
	key := asMemorySlice(m, keySpan)
	value := asMemorySlice(m, valueSpan)

	if err := rtCtx.State.SetChildStorage(child, key, value); err != nil {
		rtCtx.fail(fmt.Errorf("setting child storage: %w", err))
	}
}

func ext_default_child_storage_get_version_1(ctx context.Context, m api.Module, childSpan, keySpan int64) int64 {
	rtCtx := mustContext(ctx)
	value, err := rtCtx.State.GetChildStorage(asMemorySlice(m, childSpan), asMemorySlice(m, keySpan))
	if err != nil {
		rtCtx.fail(fmt.Errorf("getting child storage: %w", err))
	}
	return toWasmMemoryOptional(ctx, m, value)
}

func ext_default_child_storage_read_version_1(ctx context.Context, m api.Module,
	childSpan, keySpan, valueOut int64, offset int32) int64 {
	rtCtx := mustContext(ctx)
	value, err := rtCtx.State.GetChildStorage(asMemorySlice(m, childSpan), asMemorySlice(m, keySpan))
	if err != nil {
		rtCtx.fail(fmt.Errorf("reading child storage: %w", err))
	}
	if value == nil {
		return toWasmMemoryOptionalUint32(ctx, m, nil)
	}

	var read []byte
	if int(offset) <= len(value) {
		read = value[offset:]
	}
	outPtr, outSize := splitPointerSize(valueOut)
	if uint32(len(read)) > outSize {
		read = read[:outSize]
	}
	if len(read) > 0 {
		if ok := m.Memory().Write(outPtr, read); !ok {
			panic(fmt.Sprintf("out of range memory write at %d", outPtr))
		}
	}
	written := uint32(len(read))
	return toWasmMemoryOptionalUint32(ctx, m, &written)
}

func ext_default_child_storage_clear_version_1(ctx context.Context, m api.Module, childSpan, keySpan int64) {
	rtCtx := mustContext(ctx)
	if err := rtCtx.State.ClearChildStorage(asMemorySlice(m, childSpan), asMemorySlice(m, keySpan)); err != nil {
		rtCtx.fail(fmt.Errorf("clearing child storage: %w", err))
	}
}

func ext_default_child_storage_exists_version_1(ctx context.Context, m api.Module, childSpan, keySpan int64) int32 {
	rtCtx := mustContext(ctx)
	value, err := rtCtx.State.GetChildStorage(asMemorySlice(m, childSpan), asMemorySlice(m, keySpan))
	if err != nil {
		rtCtx.fail(fmt.Errorf("checking child storage: %w", err))
	}
	if value != nil {
		return 1
	}
	return 0
}

func ext_default_child_storage_clear_prefix_version_1(ctx context.Context, m api.Module, childSpan, prefixSpan int64) {
	rtCtx := mustContext(ctx)
	if err := rtCtx.State.ClearChildPrefix(asMemorySlice(m, childSpan), asMemorySlice(m, prefixSpan)); err != nil {
		rtCtx.fail(fmt.Errorf("clearing child storage prefix: %w", err))
	}
}

func ext_default_child_storage_next_key_version_1(ctx context.Context, m api.Module, childSpan, keySpan int64) int64 {
	rtCtx := mustContext(ctx)
	next, err := rtCtx.State.NextChildKey(asMemorySlice(m, childSpan), asMemorySlice(m, keySpan))
	if err != nil {
		rtCtx.fail(fmt.Errorf("getting next child key: %w", err))
	}
	return toWasmMemoryOptional(ctx, m, next)
}

func ext_default_child_storage_storage_kill_version_1(ctx context.Context, m api.Module, childSpan int64) {
	rtCtx := mustContext(ctx)
	if err := rtCtx.State.DeleteChild(asMemorySlice(m, childSpan)); err != nil {
		rtCtx.fail(fmt.Errorf("killing child storage: %w", err))
	}
}

func ext_default_child_storage_storage_kill_version_2(ctx context.Context, m api.Module, childSpan, _ int64) int32 {
	ext_default_child_storage_storage_kill_version_1(ctx, m, childSpan)
	return 1
}

func ext_default_child_storage_storage_kill_version_3(ctx context.Context, m api.Module, childSpan, _ int64) int64 {
	ext_default_child_storage_storage_kill_version_1(ctx, m, childSpan)

	// KillStorageResult::AllRemoved(0)
	var buffer bytes.Buffer
	buffer.WriteByte(0)
	buffer.Write(make([]byte, 4))
	return toWasmMemory(ctx, m, buffer.Bytes())
}

func ext_default_child_storage_root_version_1(ctx context.Context, m api.Module, _ int64) int64 {
	rtCtx := mustContext(ctx)
	root := rtCtx.State.Root()
	return toWasmMemory(ctx, m, root[:])
}

func ext_default_child_storage_root_version_2(ctx context.Context, m api.Module, childSpan int64, _ int32) int64 {
	return ext_default_child_storage_root_version_1(ctx, m, childSpan)
}

func blake2b128Digest(data []byte) []byte {
	hasher, err := blake2b.New(16, nil)
	if err != nil {
		panic(err)
	}
	hasher.Write(data)
	return hasher.Sum(nil)
}

func blake2b256Digest(data []byte) []byte {
	hash := blake2b.Sum256(data)
	return hash[:]
}

func keccak256Digest(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func sha256Digest(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

func ext_hashing_blake2_128_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, blake2b128Digest(asMemorySlice(m, dataSpan))))
}

func ext_hashing_blake2_256_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, blake2b256Digest(asMemorySlice(m, dataSpan))))
}

func ext_hashing_keccak_256_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, keccak256Digest(asMemorySlice(m, dataSpan))))
}

func ext_hashing_sha2_256_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, sha256Digest(asMemorySlice(m, dataSpan))))
}

// twox writes the xxhash64 of data under rounds increasing seeds,
// little endian, concatenated.
func twox(data []byte, rounds uint64) []byte {
	out := make([]byte, 0, rounds*8)
	for seed := uint64(0); seed < rounds; seed++ {
		hasher := xxhash.NewS64(seed)
		_, _ = hasher.Write(data)
		sum := make([]byte, 8)
		binary.LittleEndian.PutUint64(sum, hasher.Sum64())
		out = append(out, sum...)
	}
	return out
}

func ext_hashing_twox_64_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, twox(asMemorySlice(m, dataSpan), 1)))
}

func ext_hashing_twox_128_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, twox(asMemorySlice(m, dataSpan), 2)))
}

func ext_hashing_twox_256_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, twox(asMemorySlice(m, dataSpan), 4)))
}

func ext_trie_blake2_256_root_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, blake2b256Digest(asMemorySlice(m, dataSpan))))
}

func ext_trie_blake2_256_root_version_2(ctx context.Context, m api.Module, dataSpan int64, _ int32) int32 {
	return ext_trie_blake2_256_root_version_1(ctx, m, dataSpan)
}

func ext_trie_blake2_256_ordered_root_version_1(ctx context.Context, m api.Module, dataSpan int64) int32 {
	return int32(toWasmMemorySized(ctx, m, blake2b256Digest(asMemorySlice(m, dataSpan))))
}

func ext_trie_blake2_256_ordered_root_version_2(ctx context.Context, m api.Module, dataSpan int64, _ int32) int32 {
	return ext_trie_blake2_256_ordered_root_version_1(ctx, m, dataSpan)
}

// unusedImports are host functions runtimes import but which have no
// business executing during genesis construction. They are registered
// as trapping stubs so instantiation succeeds and any unexpected call
// surfaces as a build failure with the function name.
var unusedImports = []struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
}{
	{"ext_crypto_ed25519_generate_version_1", i32i64, i32},
	{"ext_crypto_ed25519_public_keys_version_1", i32, i64},
	{"ext_crypto_ed25519_sign_version_1", i32i32i64, i64},
	{"ext_crypto_ed25519_verify_version_1", i32i64i32, i32},
	{"ext_crypto_sr25519_generate_version_1", i32i64, i32},
	{"ext_crypto_sr25519_public_keys_version_1", i32, i64},
	{"ext_crypto_sr25519_sign_version_1", i32i32i64, i64},
	{"ext_crypto_sr25519_verify_version_1", i32i64i32, i32},
	{"ext_crypto_sr25519_verify_version_2", i32i64i32, i32},
	{"ext_crypto_ecdsa_generate_version_1", i32i64, i32},
	{"ext_crypto_ecdsa_verify_version_2", i32i64i32, i32},
	{"ext_crypto_secp256k1_ecdsa_recover_version_1", i32i32, i64},
	{"ext_crypto_secp256k1_ecdsa_recover_version_2", i32i32, i64},
	{"ext_crypto_secp256k1_ecdsa_recover_compressed_version_1", i32i32, i64},
	{"ext_crypto_secp256k1_ecdsa_recover_compressed_version_2", i32i32, i64},
	{"ext_crypto_start_batch_verify_version_1", nil, nil},
	{"ext_crypto_finish_batch_verify_version_1", nil, i32},
	{"ext_offchain_is_validator_version_1", nil, i32},
	{"ext_offchain_local_storage_get_version_1", i32i64, i64},
	{"ext_offchain_local_storage_set_version_1", i32i64i64, nil},
	{"ext_offchain_local_storage_compare_and_set_version_1", i32i64i64i64, i32},
	{"ext_offchain_network_state_version_1", nil, i64},
	{"ext_offchain_random_seed_version_1", nil, i32},
	{"ext_offchain_submit_transaction_version_1", i64, i64},
	{"ext_offchain_timestamp_version_1", nil, i64},
	{"ext_offchain_sleep_until_version_1", i64, nil},
	{"ext_offchain_http_request_start_version_1", i64i64i64, i64},
	{"ext_offchain_index_set_version_1", i64i64, nil},
	{"ext_offchain_index_clear_version_1", i64, nil},
}

var (
	i32          = []api.ValueType{api.ValueTypeI32}
	i64          = []api.ValueType{api.ValueTypeI64}
	i32i32       = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	i32i64       = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64}
	i64i64       = []api.ValueType{api.ValueTypeI64, api.ValueTypeI64}
	i32i32i64    = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI64}
	i32i64i32    = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeI32}
	i32i64i64    = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeI64}
	i64i64i64    = []api.ValueType{api.ValueTypeI64, api.ValueTypeI64, api.ValueTypeI64}
	i32i64i64i64 = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeI64, api.ValueTypeI64}
)

// registerImports instantiates the env host module providing the host
// functions genesis construction needs.
func registerImports(ctx context.Context, rt wazero.Runtime) error {
	builder := rt.NewHostModuleBuilder("env")

	builder.NewFunctionBuilder().WithFunc(ext_logging_log_version_1).Export("ext_logging_log_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_logging_max_level_version_1).Export("ext_logging_max_level_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_misc_print_utf8_version_1).Export("ext_misc_print_utf8_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_misc_print_hex_version_1).Export("ext_misc_print_hex_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_misc_print_num_version_1).Export("ext_misc_print_num_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_allocator_malloc_version_1).Export("ext_allocator_malloc_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_allocator_free_version_1).Export("ext_allocator_free_version_1")

	builder.NewFunctionBuilder().WithFunc(ext_storage_set_version_1).Export("ext_storage_set_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_get_version_1).Export("ext_storage_get_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_read_version_1).Export("ext_storage_read_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_clear_version_1).Export("ext_storage_clear_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_exists_version_1).Export("ext_storage_exists_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_clear_prefix_version_1).Export("ext_storage_clear_prefix_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_clear_prefix_version_2).Export("ext_storage_clear_prefix_version_2")
	builder.NewFunctionBuilder().WithFunc(ext_storage_append_version_1).Export("ext_storage_append_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_next_key_version_1).Export("ext_storage_next_key_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_root_version_1).Export("ext_storage_root_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_root_version_2).Export("ext_storage_root_version_2")
	builder.NewFunctionBuilder().WithFunc(ext_storage_start_transaction_version_1).Export("ext_storage_start_transaction_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_commit_transaction_version_1).Export("ext_storage_commit_transaction_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_storage_rollback_transaction_version_1).Export("ext_storage_rollback_transaction_version_1")

	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_set_version_1).Export("ext_default_child_storage_set_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_get_version_1).Export("ext_default_child_storage_get_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_read_version_1).Export("ext_default_child_storage_read_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_clear_version_1).Export("ext_default_child_storage_clear_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_exists_version_1).Export("ext_default_child_storage_exists_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_clear_prefix_version_1).Export("ext_default_child_storage_clear_prefix_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_next_key_version_1).Export("ext_default_child_storage_next_key_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_storage_kill_version_1).Export("ext_default_child_storage_storage_kill_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_storage_kill_version_2).Export("ext_default_child_storage_storage_kill_version_2")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_storage_kill_version_3).Export("ext_default_child_storage_storage_kill_version_3")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_root_version_1).Export("ext_default_child_storage_root_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_default_child_storage_root_version_2).Export("ext_default_child_storage_root_version_2")

	builder.NewFunctionBuilder().WithFunc(ext_hashing_blake2_128_version_1).Export("ext_hashing_blake2_128_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_blake2_256_version_1).Export("ext_hashing_blake2_256_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_keccak_256_version_1).Export("ext_hashing_keccak_256_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_sha2_256_version_1).Export("ext_hashing_sha2_256_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_twox_64_version_1).Export("ext_hashing_twox_64_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_twox_128_version_1).Export("ext_hashing_twox_128_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_hashing_twox_256_version_1).Export("ext_hashing_twox_256_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_trie_blake2_256_root_version_1).Export("ext_trie_blake2_256_root_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_trie_blake2_256_root_version_2).Export("ext_trie_blake2_256_root_version_2")
	builder.NewFunctionBuilder().WithFunc(ext_trie_blake2_256_ordered_root_version_1).Export("ext_trie_blake2_256_ordered_root_version_1")
	builder.NewFunctionBuilder().WithFunc(ext_trie_blake2_256_ordered_root_version_2).Export("ext_trie_blake2_256_ordered_root_version_2")

	for _, stub := range unusedImports {
		name := stub.name
		builder.NewFunctionBuilder().WithGoModuleFunction(
			api.GoModuleFunc(func(_ context.Context, _ api.Module, _ []uint64) {
				panic(fmt.Sprintf("host function %s must not be called during genesis construction", name))
			}),
			stub.params, stub.results,
		).Export(name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}
