// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coframe provides a cooperative byte-framing decode engine via
// algebraic effects on [code.hybscloud.com/kont].
//
// A pull-driven consumer is fed push-driven bytes with no buffering beyond a
// single slot, no goroutines, and no busy polling: producers suspend at
// explicit effect boundaries and are resumed synchronously on the pusher's
// call stack.
//
// # Architecture
//
//   - Producers: Lazy value-producing executions built as kont computations performing
//     [Yield] and [Await] effects. [New] wraps one in a move-only [Generator] handle.
//   - Memory: Suspended execution state lives in a block obtained through the pluggable
//     [Allocator] hook; allocation failure yields an invalid handle, never a panic.
//   - Handoff: [ByteStream] is a single-slot, single-waiter channel. [ByteStream.Push]
//     overwrites the slot (last write wins) and resumes a parked consumer re-entrantly.
//   - Non-blocking: [Await] dispatch returns [code.hybscloud.com/iox.ErrWouldBlock] at the
//     input boundary; the generator parks and waits for the next push.
//   - Framing: [NewFrameParser] binds an escape-delimited frame decoder to one stream. The
//     state machine is an explicit phase value advanced one byte at a time; desynchronized
//     input is discarded silently.
//
// # API Topologies
//
//   - Operations: [Yield], [Await].
//   - Cont-world: [YieldThen], [AwaitBind], [Loop], [NewFrameParser].
//   - Expr-world: [ExprYieldThen], [ExprAwaitBind], [ExprLoop], [NewFrameParserExpr].
//   - Driving: [Generator.Advance], [Generator.Extract], [Generator.All]; [Feed] and [Drive]
//     interleave a byte source with a bound parser on the calling goroutine.
//   - Observability: [Diagnostics] is an optional bounded event channel for the otherwise
//     silent overwrite and desync policies; attaching it does not change decode semantics.
//
// # Concurrency
//
// The engine is single-threaded and cooperative: one pusher, one consumer
// execution, strictly interleaved by suspension and resumption. There is no
// internal locking; correctness relies on the single-producer single-consumer
// contract. A fault inside a producer propagates as a panic and is fatal by
// design; there is no recovery path.
//
// # Example
//
//	var s coframe.ByteStream
//	p := coframe.NewFrameParser(&s, coframe.Protocol{Escape: 'H', Marker: 0x10})
//	for _, b := range input {
//		s.Push(b)
//		if frame := p.Extract(); len(frame) > 0 {
//			handle(frame)
//		}
//	}
package coframe
