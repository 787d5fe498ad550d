// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"errors"
	"fmt"
)

const (
	// each allocation carries an 8 byte header recording its order
	// while live, or the next free block pointer while freed.
	headerSize = 8

	// the maximum possible allocation of 32 MiB.
	maxPossibleAllocation uint32 = 1 << 25

	// orders 2^3 up to 2^25 bytes.
	numOrders = 23

	pageSize = 65536

	nilPtr uint32 = ^uint32(0)
)

var (
	// ErrRequestedAllocationTooLarge is returned when the requested
	// allocation exceeds the maximum possible allocation.
	ErrRequestedAllocationTooLarge = errors.New("requested allocation size is too large")

	// ErrCannotGrowLinearMemory is returned when the linear memory
	// cannot be grown to fit an allocation.
	ErrCannotGrowLinearMemory = errors.New("cannot grow linear memory")

	// ErrInvalidPointer is returned when deallocating a pointer
	// outside the allocated heap.
	ErrInvalidPointer = errors.New("pointer is outside the heap")
)

// Memory is the linear memory surface the allocator needs. It is
// satisfied by wazero's api.Memory.
type Memory interface {
	Size() uint32
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
	ReadUint64Le(offset uint32) (uint64, bool)
	WriteUint64Le(offset uint32, v uint64) bool
}

// FreeingBumpHeapAllocator is a bump allocator with per-order free
// lists, matching the allocation strategy runtimes expect from the
// host. Freed blocks are reused for subsequent allocations of the
// same order.
type FreeingBumpHeapAllocator struct {
	memory   Memory
	heapBase uint32
	bumper   uint32
	heads    [numOrders]uint32
}

// NewAllocator creates a new allocator over the given memory,
// starting allocations at heapBase.
func NewAllocator(memory Memory, heapBase uint32) *FreeingBumpHeapAllocator {
	a := &FreeingBumpHeapAllocator{
		memory:   memory,
		heapBase: alignUp(heapBase),
	}
	for i := range a.heads {
		a.heads[i] = nilPtr
	}
	return a
}

func alignUp(v uint32) uint32 {
	return (v + headerSize - 1) &^ (headerSize - 1)
}

// orderFor returns the smallest order whose block size fits size.
func orderFor(size uint32) (order uint32, err error) {
	if size > maxPossibleAllocation {
		return 0, fmt.Errorf("%w: %d bytes requested, maximum is %d",
			ErrRequestedAllocationTooLarge, size, maxPossibleAllocation)
	}
	blockSize := uint32(8)
	for order = 0; order < numOrders; order++ {
		if blockSize >= size {
			return order, nil
		}
		blockSize <<= 1
	}
	return 0, fmt.Errorf("%w: %d bytes requested", ErrRequestedAllocationTooLarge, size)
}

// Allocate reserves size bytes in linear memory and returns the
// pointer to the start of the usable block, after the header.
func (a *FreeingBumpHeapAllocator) Allocate(size uint32) (pointer uint32, err error) {
	order, err := orderFor(size)
	if err != nil {
		return 0, err
	}

	var headerPtr uint32
	if a.heads[order] != nilPtr {
		headerPtr = a.heads[order]
		next, ok := a.memory.ReadUint64Le(headerPtr)
		if !ok {
			return 0, fmt.Errorf("%w: free list header at %d", ErrInvalidPointer, headerPtr)
		}
		a.heads[order] = uint32(next)
	} else {
		blockSize := uint32(8) << order
		headerPtr = a.heapBase + a.bumper
		if err := a.ensureSize(headerPtr + headerSize + blockSize); err != nil {
			return 0, err
		}
		a.bumper += headerSize + blockSize
	}

	if ok := a.memory.WriteUint64Le(headerPtr, uint64(order)); !ok {
		return 0, fmt.Errorf("%w: header at %d", ErrInvalidPointer, headerPtr)
	}
	return headerPtr + headerSize, nil
}

// Deallocate returns the block at pointer to its order's free list.
func (a *FreeingBumpHeapAllocator) Deallocate(pointer uint32) error {
	if pointer < a.heapBase+headerSize {
		return fmt.Errorf("%w: %d", ErrInvalidPointer, pointer)
	}
	headerPtr := pointer - headerSize

	header, ok := a.memory.ReadUint64Le(headerPtr)
	if !ok {
		return fmt.Errorf("%w: header at %d", ErrInvalidPointer, headerPtr)
	}
	order := uint32(header)
	if order >= numOrders {
		return fmt.Errorf("%w: invalid order %d at %d", ErrInvalidPointer, order, headerPtr)
	}

	if ok := a.memory.WriteUint64Le(headerPtr, uint64(a.heads[order])); !ok {
		return fmt.Errorf("%w: header at %d", ErrInvalidPointer, headerPtr)
	}
	a.heads[order] = headerPtr
	return nil
}

// ensureSize grows the linear memory so at least end bytes are
// addressable.
func (a *FreeingBumpHeapAllocator) ensureSize(end uint32) error {
	current := a.memory.Size()
	if end <= current {
		return nil
	}
	deltaPages := (end - current + pageSize - 1) / pageSize
	if _, ok := a.memory.Grow(deltaPages); !ok {
		return fmt.Errorf("%w: by %d pages", ErrCannotGrowLinearMemory, deltaPages)
	}
	return nil
}
