// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"iter"
	"unsafe"

	"code.hybscloud.com/kont"
)

// StartPolicy selects when a freshly constructed generator first runs.
type StartPolicy uint8

const (
	// Lazy defers the first advance until explicitly requested.
	Lazy StartPolicy = iota
	// Eager runs the producer to its first suspension during construction.
	Eager
)

// phase describes where a suspended execution is parked.
type phase uint8

const (
	phaseReady phase = iota // producer not yet started
	phaseYield              // suspended at a yield point, slot written
	phaseAwait              // suspended awaiting external input
)

// state is the suspended execution state of one generator: the block the
// allocation hook manages. At most one live handle refers to it.
type state[T any] struct {
	expr  kont.Expr[struct{}]
	susp  *kont.Suspension[struct{}]
	phase phase
	src   inputSource
}

// stateSize reports the block size requested from the allocation hook.
func stateSize[T any]() int {
	var s state[T]
	return int(unsafe.Sizeof(s))
}

// Generator is a move-only handle over a lazy value-producing execution.
// The handle owns the hook-allocated execution state plus a single current
// value slot; the slot holds either nothing new since the last extraction
// or one pending value.
//
// Handles are not copyable: use [Generator.Move] to transfer ownership.
// A panic inside the bound producer propagates to whichever call advanced
// it (Advance, Push on a bound stream, or an Eager constructor) and is
// fatal by design; there is no recovery path.
type Generator[T any] struct {
	st     *state[T]
	alloc  Allocator
	slot   T
	fresh  bool
	done   bool
	ok     bool
	serial Serial
}

// New wraps a Cont-world producer in a generator handle using the
// process-wide [DefaultAllocator]. An invalid handle is returned on
// allocation failure; check [Generator.Valid] before use.
func New[T any](producer kont.Eff[struct{}], policy StartPolicy) *Generator[T] {
	return NewExprWith[T](kont.Reify(producer), policy, DefaultAllocator)
}

// NewWith is [New] with a per-generator allocation hook.
func NewWith[T any](producer kont.Eff[struct{}], policy StartPolicy, alloc Allocator) *Generator[T] {
	return NewExprWith[T](kont.Reify(producer), policy, alloc)
}

// NewExpr wraps an Expr-world producer in a generator handle using the
// process-wide [DefaultAllocator].
func NewExpr[T any](producer kont.Expr[struct{}], policy StartPolicy) *Generator[T] {
	return NewExprWith[T](producer, policy, DefaultAllocator)
}

// NewExprWith is [NewExpr] with a per-generator allocation hook.
// The state block is released through the same hook when the handle is
// closed or the producer completes.
func NewExprWith[T any](producer kont.Expr[struct{}], policy StartPolicy, alloc Allocator) *Generator[T] {
	size := stateSize[T]()
	blk := alloc.Alloc(size, func() any { return new(state[T]) })
	if blk == nil {
		// Invalid sentinel handle: inert but safe to query.
		return &Generator[T]{}
	}
	st := blk.(*state[T])
	*st = state[T]{expr: producer, phase: phaseReady}
	g := &Generator[T]{st: st, alloc: alloc, ok: true, serial: nextSerial()}
	if policy == Eager {
		g.pump()
	}
	return g
}

// Valid reports whether construction succeeded. Extraction and advancing
// an invalid handle are inert, not undefined.
func (g *Generator[T]) Valid() bool { return g.ok }

// Done reports whether the producer ran to completion.
func (g *Generator[T]) Done() bool { return g.done }

// Serial returns the serial number assigned to this generator, or zero
// for an invalid handle.
func (g *Generator[T]) Serial() Serial { return g.serial }

// Extract returns the value produced since the previous extraction,
// replacing the slot with the zero value. Repeated extraction without an
// intervening yield returns the zero value, never the same value twice.
// Extract never advances the producer, so a long-running execution can be
// polled cheaply.
func (g *Generator[T]) Extract() T {
	v := g.slot
	var zero T
	g.slot = zero
	g.fresh = false
	return v
}

// Advance runs the producer forward to its next suspension point or to
// completion. It reports whether execution moved: false when the handle
// is invalid, inert, or completed, or when the producer is parked
// awaiting input that has not arrived.
func (g *Generator[T]) Advance() bool {
	if g.st == nil {
		return false
	}
	return g.pump()
}

// All returns an iterator over the values the producer yields, advancing
// it between values. The sequence ends when the producer completes; it
// also ends early if the producer parks awaiting external input, since no
// further value can be produced without a push. Not restartable: values
// consumed here are extracted and gone.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if g.fresh {
				if !yield(g.Extract()) {
					return
				}
			}
			if !g.Advance() {
				return
			}
		}
	}
}

// Move transfers exclusive ownership of the execution state to a new
// handle, leaving g empty: still valid, but inert. A parked producer's
// input registration follows the new handle.
func (g *Generator[T]) Move() *Generator[T] {
	n := &Generator[T]{
		st:     g.st,
		alloc:  g.alloc,
		slot:   g.slot,
		fresh:  g.fresh,
		done:   g.done,
		ok:     g.ok,
		serial: g.serial,
	}
	if n.st != nil && n.st.src != nil {
		n.st.src.rebind(g, n)
	}
	var zero T
	g.st = nil
	g.slot = zero
	g.fresh = false
	g.done = false
	g.serial = 0
	return n
}

// Close tears down a still-suspended execution unconditionally, with no
// notification to the in-flight producer, and releases the state block
// through the allocation hook. Safe to call on invalid, inert, moved, or
// completed handles.
func (g *Generator[T]) Close() {
	st := g.st
	if st == nil {
		return
	}
	g.st = nil
	if st.src != nil {
		st.src.unregister(g)
	}
	if st.susp != nil {
		st.susp.Discard()
	}
	*st = state[T]{}
	g.alloc.Free(st, stateSize[T]())
}

// complete releases the execution state once the producer has run to
// completion; the handle stays pollable (Done, Extract).
func (g *Generator[T]) complete() {
	st := g.st
	g.st = nil
	g.done = true
	if st.src != nil {
		st.src.unregister(g)
	}
	*st = state[T]{}
	g.alloc.Free(st, stateSize[T]())
}

// wake resumes a parked execution from its input source.
// Runs on the pusher's call stack.
func (g *Generator[T]) wake() {
	if g.st != nil {
		g.pump()
	}
}

// pump runs the producer until it parks at a yield, parks awaiting input,
// or completes. Reports whether execution moved forward.
//
// Entered in phaseReady (first start), phaseYield (resume past the stored
// yield first), or phaseAwait (the pending operation is retried).
func (g *Generator[T]) pump() bool {
	st := g.st
	moved := false
	switch st.phase {
	case phaseReady:
		_, st.susp = kont.StepExpr(st.expr)
		st.expr = kont.Expr[struct{}]{}
		moved = true
	case phaseYield:
		_, st.susp = st.susp.Resume(struct{}{})
		moved = true
	}
	for {
		if st.susp == nil {
			g.complete()
			return true
		}
		op := st.susp.Op()
		if y, isYield := op.(Yield[T]); isYield {
			g.slot = y.Value
			g.fresh = true
			st.phase = phaseYield
			return true
		}
		in, isInput := op.(inputDispatcher)
		if !isInput {
			panic("coframe: unhandled effect in generator")
		}
		v, err := in.DispatchInput()
		if err != nil {
			st.phase = phaseAwait
			st.src = in.Input()
			st.src.register(g)
			return moved
		}
		_, st.susp = st.susp.Resume(v)
		moved = true
	}
}
