// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// ByteStream is a single-slot, single-waiter handoff between an external
// byte pusher and a suspended consumer execution. The zero value is ready
// for use.
//
// Capacity is exactly one byte: pushing while a byte is already pending
// overwrites it (last write wins, explicit data loss, not an error). At
// most one consumer is registered as waiting at a time; registration is
// established when a bound generator first parks on the stream and
// persists until that generator completes or is closed.
//
// A ByteStream must not be copied once a consumer is bound: the consumer
// holds a back-reference to the exact instance. Single producer, single
// consumer, no internal locking.
type ByteStream struct {
	data   byte
	full   bool
	waiter waiter
	diag   *Diagnostics
}

// Push feeds one byte. The byte is stored in the single slot, overwriting
// any pending byte. If a consumer is registered as waiting, it is resumed
// synchronously on the caller's stack before Push returns; the resumption
// may run the consumer through any number of transitions up to its next
// suspension.
func (s *ByteStream) Push(b byte) {
	if s.full && s.diag != nil {
		s.diag.note(EventOverwrite, 1)
	}
	s.data, s.full = b, true
	if s.waiter != nil {
		s.waiter.wake()
	}
}

// Observe attaches a diagnostics channel reporting slot overwrites on
// this stream and desync/frame events of any parser subsequently bound to
// it. A nil d detaches. Decode semantics are unchanged either way.
func (s *ByteStream) Observe(d *Diagnostics) {
	s.diag = d
}

// take consumes the pending byte, or reports iox.ErrWouldBlock when the
// slot is empty. This is the dispatch path of [Await].
func (s *ByteStream) take() (kont.Resumed, error) {
	if !s.full {
		return nil, iox.ErrWouldBlock
	}
	s.full = false
	return s.data, nil
}

func (s *ByteStream) register(w waiter) {
	s.waiter = w
}

func (s *ByteStream) unregister(w waiter) {
	if s.waiter == w {
		s.waiter = nil
	}
}

func (s *ByteStream) rebind(from, to waiter) {
	if s.waiter == from {
		s.waiter = to
	}
}
