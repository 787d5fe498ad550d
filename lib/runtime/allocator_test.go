// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMemory is a growable in-memory implementation of Memory.
type testMemory struct {
	data []byte
}

func newTestMemory(pages uint32) *testMemory {
	return &testMemory{data: make([]byte, pages*pageSize)}
}

func (m *testMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *testMemory) Grow(deltaPages uint32) (previousPages uint32, ok bool) {
	previousPages = uint32(len(m.data)) / pageSize
	m.data = append(m.data, make([]byte, deltaPages*pageSize)...)
	return previousPages, true
}

func (m *testMemory) ReadUint64Le(offset uint32) (uint64, bool) {
	if int(offset)+8 > len(m.data) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), true
}

func (m *testMemory) WriteUint64Le(offset uint32, v uint64) bool {
	if int(offset)+8 > len(m.data) {
		return false
	}
	binary.LittleEndian.PutUint64(m.data[offset:], v)
	return true
}

func TestAllocator_allocateAndReuse(t *testing.T) {
	mem := newTestMemory(1)
	allocator := NewAllocator(mem, 0)

	ptr1, err := allocator.Allocate(32)
	require.NoError(t, err)

	ptr2, err := allocator.Allocate(32)
	require.NoError(t, err)
	assert.NotEqual(t, ptr1, ptr2)

	require.NoError(t, allocator.Deallocate(ptr1))

	// freed block of the same order is reused
	ptr3, err := allocator.Allocate(20)
	require.NoError(t, err)
	assert.Equal(t, ptr1, ptr3)
}

func TestAllocator_growsMemory(t *testing.T) {
	mem := newTestMemory(1)
	allocator := NewAllocator(mem, 0)

	ptr, err := allocator.Allocate(2 * pageSize)
	require.NoError(t, err)
	assert.NotZero(t, ptr)
	assert.GreaterOrEqual(t, mem.Size(), uint32(2*pageSize))
}

func TestAllocator_tooLarge(t *testing.T) {
	mem := newTestMemory(1)
	allocator := NewAllocator(mem, 0)

	_, err := allocator.Allocate(maxPossibleAllocation + 1)
	assert.ErrorIs(t, err, ErrRequestedAllocationTooLarge)
}

func TestAllocator_deallocateInvalidPointer(t *testing.T) {
	mem := newTestMemory(1)
	allocator := NewAllocator(mem, 64)

	err := allocator.Deallocate(8)
	assert.ErrorIs(t, err, ErrInvalidPointer)
}
