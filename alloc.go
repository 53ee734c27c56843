// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/atomix"
)

// Allocator is the pluggable allocate/deallocate pair backing suspended
// generator state. Every state block a generator owns is obtained through
// Alloc and released through Free of the same Allocator, either when the
// handle is closed or when the producer runs to completion.
//
// Alloc receives the block size in bytes and a constructor for a fresh
// block; it returns a recycled or freshly constructed block, or nil to
// report allocation failure. Implementations must not panic on failure:
// generator construction turns a nil block into an invalid handle the
// caller can test with [Generator.Valid].
type Allocator interface {
	Alloc(size int, mk func() any) any
	Free(block any, size int)
}

// HeapAllocator delegates to the Go runtime and keeps Free as a no-op;
// reclamation is left to the garbage collector.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int, mk func() any) any { return mk() }

func (HeapAllocator) Free(any, int) {}

// DefaultAllocator is the process-wide allocation hook used by [New] and
// [NewExpr] unless a ...With constructor overrides it per generator.
var DefaultAllocator Allocator = HeapAllocator{}

// PoolAllocator recycles state blocks on a size-keyed freelist.
//
// Blocks are keyed by size only, so a PoolAllocator must serve generators
// of a single state type; mixing value types of coincidentally equal size
// through one pool hands a block of the wrong type back to Alloc's caller.
// Not safe for concurrent use; the engine is single-threaded by contract.
type PoolAllocator struct {
	free map[int][]any
}

// NewPoolAllocator creates an empty pool.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{free: make(map[int][]any)}
}

// Alloc pops a recycled block of the given size, or constructs one via mk.
func (p *PoolAllocator) Alloc(size int, mk func() any) any {
	if blocks := p.free[size]; len(blocks) > 0 {
		blk := blocks[len(blocks)-1]
		p.free[size] = blocks[:len(blocks)-1]
		return blk
	}
	return mk()
}

// Free pushes the block back onto the freelist for its size class.
func (p *PoolAllocator) Free(block any, size int) {
	p.free[size] = append(p.free[size], block)
}

// TraceAllocator wraps another Allocator with atomic accounting and
// optional per-call hooks, the observable alloc/dealloc instrumentation
// the allocation hook contract permits. A nil Next delegates to
// [HeapAllocator].
type TraceAllocator struct {
	Next Allocator

	// OnAlloc and OnFree, when non-nil, are invoked with the block size
	// after each successful Alloc and each Free.
	OnAlloc func(size int)
	OnFree  func(size int)

	allocs atomix.Uint32
	frees  atomix.Uint32
}

func (t *TraceAllocator) next() Allocator {
	if t.Next == nil {
		return HeapAllocator{}
	}
	return t.Next
}

// Alloc delegates to Next, counting and reporting successful allocations.
func (t *TraceAllocator) Alloc(size int, mk func() any) any {
	blk := t.next().Alloc(size, mk)
	if blk == nil {
		return nil
	}
	t.allocs.Add(1)
	if t.OnAlloc != nil {
		t.OnAlloc(size)
	}
	return blk
}

// Free delegates to Next, counting and reporting the release.
func (t *TraceAllocator) Free(block any, size int) {
	t.frees.Add(1)
	if t.OnFree != nil {
		t.OnFree(size)
	}
	t.next().Free(block, size)
}

// Allocs returns the number of successful allocations observed.
func (t *TraceAllocator) Allocs() uint32 { return t.allocs.Load() }

// Frees returns the number of releases observed.
func (t *TraceAllocator) Frees() uint32 { return t.frees.Load() }
