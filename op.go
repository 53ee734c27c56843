// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/kont"
)

// Yield is the effect operation for producing a value of type T.
// Perform(Yield[T]{Value: v}) stores v in the owning generator's slot and
// suspends until the next advance or push (suspend-always semantics), so a
// driver can extract the value before execution continues.
type Yield[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// waiter is a parked consumer execution that an input primitive can
// resume when new input arrives.
type waiter interface {
	wake()
}

// inputSource is implemented by input primitives that hold at most one
// parked consumer.
type inputSource interface {
	register(w waiter)
	unregister(w waiter)
	rebind(from, to waiter)
}

// inputDispatcher is the structural interface for operations that suspend
// the producer until external input arrives. DispatchInput is
// non-blocking: it returns iox.ErrWouldBlock at the input boundary when
// nothing is pending; the generator then parks on Input() until the next
// push resumes it.
type inputDispatcher interface {
	DispatchInput() (kont.Resumed, error)
	Input() inputSource
}

// Await is the effect operation for receiving the next byte pushed into
// the bound stream. Perform(Await{Stream: s}) consumes a pending byte
// immediately (fast path) or suspends until one is pushed.
//
// Await is only meaningful inside a producer driven by a [Generator];
// resumption occurs on the pusher's call stack.
type Await struct {
	kont.Phantom[byte]
	Stream *ByteStream
}

// DispatchInput handles Await on the single-slot stream.
// Non-blocking: returns iox.ErrWouldBlock if no byte is pending.
func (a Await) DispatchInput() (kont.Resumed, error) {
	return a.Stream.take()
}

// Input returns the stream the awaiting consumer parks on.
func (a Await) Input() inputSource {
	return a.Stream
}
