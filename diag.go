// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// EventKind classifies a diagnostics event.
type EventKind uint8

const (
	// EventOverwrite: a push replaced a pending, never-consumed byte.
	EventOverwrite EventKind = iota + 1
	// EventDesync: a frame in progress was discarded after an
	// unexpected byte followed the escape.
	EventDesync
	// EventFrame: a frame completed.
	EventFrame
)

// Event is one diagnostics record. Size carries the frame length for
// EventFrame, the number of discarded content bytes for EventDesync, and
// 1 for EventOverwrite.
type Event struct {
	Kind EventKind
	Size int
}

// Diagnostics is the optional non-silent channel for the engine's
// deliberately silent policies: slot overwrites, desync discards, and
// frame completions. Attaching one (see [ByteStream.Observe]) changes
// nothing about decode semantics; it only makes the discards observable.
//
// Events flow through a bounded lock-free SPSC queue. Recording is
// non-blocking: when the queue is full the event is dropped and counted.
// Single producer (the engine), single consumer (whoever polls).
type Diagnostics struct {
	q          lfq.SPSC[Event]
	slot       Event
	overwrites atomix.Uint32
	desyncs    atomix.Uint32
	frames     atomix.Uint32
	dropped    atomix.Uint32
}

// NewDiagnostics creates a diagnostics channel with a bounded event
// queue of the given capacity.
func NewDiagnostics(capacity int) *Diagnostics {
	d := &Diagnostics{}
	d.q.Init(capacity)
	return d
}

// note records one event: counter first, then a non-blocking enqueue.
func (d *Diagnostics) note(kind EventKind, size int) {
	switch kind {
	case EventOverwrite:
		d.overwrites.Add(1)
	case EventDesync:
		d.desyncs.Add(1)
	case EventFrame:
		d.frames.Add(1)
	}
	d.slot = Event{Kind: kind, Size: size}
	if err := d.q.Enqueue(&d.slot); err != nil {
		d.dropped.Add(1)
	}
}

// Poll dequeues the oldest pending event, reporting false when none is
// queued.
func (d *Diagnostics) Poll() (Event, bool) {
	ev, err := d.q.Dequeue()
	if err != nil {
		return Event{}, false
	}
	return ev, true
}

// Overwrites returns the number of pushed bytes lost to slot overwrite.
func (d *Diagnostics) Overwrites() uint32 { return d.overwrites.Load() }

// Desyncs returns the number of frames discarded out of sync.
func (d *Diagnostics) Desyncs() uint32 { return d.desyncs.Load() }

// Frames returns the number of completed frames observed.
func (d *Diagnostics) Frames() uint32 { return d.frames.Load() }

// Dropped returns the number of events lost to a full queue.
func (d *Diagnostics) Dropped() uint32 { return d.dropped.Load() }
