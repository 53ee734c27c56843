// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/coframe"
)

func TestEmitIteration(t *testing.T) {
	input := []byte{0x01, 'H', 0x10, 0xff}
	g := coframe.New[byte](coframe.Emit(input), coframe.Lazy)

	var got []byte
	for b := range g.All() {
		got = append(got, b)
	}
	if !slices.Equal(got, input) {
		t.Fatalf("iterated %v, want %v", got, input)
	}
	if !g.Done() {
		t.Fatal("generator not done after full iteration")
	}
	if g.Advance() {
		t.Fatal("Advance after completion reported progress")
	}
}

func TestExtractIdempotence(t *testing.T) {
	g := coframe.New[string](stringsProducer([]string{"a", "b"}), coframe.Lazy)

	if v := g.Extract(); v != "" {
		t.Fatalf("extract before first advance got %q, want empty", v)
	}
	if !g.Advance() {
		t.Fatal("first advance made no progress")
	}
	if v := g.Extract(); v != "a" {
		t.Fatalf("got %q, want %q", v, "a")
	}
	// No intervening advancement: the slot was cleared by extraction.
	if v := g.Extract(); v != "" {
		t.Fatalf("repeated extract got %q, want empty", v)
	}
	if !g.Advance() {
		t.Fatal("second advance made no progress")
	}
	if v := g.Extract(); v != "b" {
		t.Fatalf("got %q, want %q", v, "b")
	}
	g.Advance() // runs to completion
	if !g.Done() {
		t.Fatal("generator not done")
	}
}

func TestStartPolicy(t *testing.T) {
	eager := coframe.New[string](stringsProducer([]string{"x"}), coframe.Eager)
	if v := eager.Extract(); v != "x" {
		t.Fatalf("eager start: slot got %q, want %q", v, "x")
	}

	lazy := coframe.New[string](stringsProducer([]string{"x"}), coframe.Lazy)
	if v := lazy.Extract(); v != "" {
		t.Fatalf("lazy start: slot got %q, want empty", v)
	}
	lazy.Advance()
	if v := lazy.Extract(); v != "x" {
		t.Fatalf("lazy start after advance: got %q, want %q", v, "x")
	}
}

func TestMoveTransfersOwnership(t *testing.T) {
	src := coframe.New[string](stringsProducer([]string{"a", "b"}), coframe.Eager)
	serial := src.Serial()

	dst := src.Move()
	if !src.Valid() {
		t.Fatal("moved-from handle must stay valid")
	}
	if src.Advance() {
		t.Fatal("moved-from handle advanced")
	}
	if v := src.Extract(); v != "" {
		t.Fatalf("moved-from handle extracted %q", v)
	}
	if dst.Serial() != serial {
		t.Fatalf("serial not transferred: got %d, want %d", dst.Serial(), serial)
	}
	if v := dst.Extract(); v != "a" {
		t.Fatalf("destination slot got %q, want %q", v, "a")
	}
	if !dst.Advance() {
		t.Fatal("destination could not advance")
	}
	if v := dst.Extract(); v != "b" {
		t.Fatalf("destination got %q, want %q", v, "b")
	}
}

func TestMoveFollowsParkedRegistration(t *testing.T) {
	var s coframe.ByteStream
	src := coframe.NewFrameParser(&s, refProto)

	// The parser is parked awaiting input; moving the handle must carry
	// the stream registration so pushes resume through the new owner.
	parser := src.Move()
	frames := coframe.Feed(&s, parser, refProto.Encode("ok"))
	if len(frames) != 1 || frames[0] != "ok" {
		t.Fatalf("frames after move got %v, want [ok]", frames)
	}
}

func TestAllocationFailure(t *testing.T) {
	g := coframe.NewWith[string](stringsProducer([]string{"a"}), coframe.Eager, nilAllocator{})
	if g.Valid() {
		t.Fatal("handle valid despite allocation failure")
	}
	if g.Advance() {
		t.Fatal("invalid handle advanced")
	}
	if v := g.Extract(); v != "" {
		t.Fatalf("invalid handle extracted %q", v)
	}
	if g.Serial() != 0 {
		t.Fatalf("invalid handle carries serial %d", g.Serial())
	}
	g.Close() // must be inert, not a crash
}

func TestCloseReleasesSuspendedState(t *testing.T) {
	trace := &coframe.TraceAllocator{}
	g := coframe.NewWith[string](stringsProducer([]string{"a", "b"}), coframe.Eager, trace)
	if trace.Allocs() != 1 {
		t.Fatalf("allocs got %d, want 1", trace.Allocs())
	}

	// Mid-producer teardown: suspension points remain, release anyway.
	g.Close()
	if trace.Frees() != 1 {
		t.Fatalf("frees got %d, want 1", trace.Frees())
	}
	g.Close()
	if trace.Frees() != 1 {
		t.Fatalf("double close freed again: %d", trace.Frees())
	}
}

func TestCompletionReleasesState(t *testing.T) {
	trace := &coframe.TraceAllocator{}
	g := coframe.NewWith[string](stringsProducer([]string{"a"}), coframe.Lazy, trace)

	for g.Advance() {
	}
	if !g.Done() {
		t.Fatal("generator not done")
	}
	if trace.Frees() != 1 {
		t.Fatalf("completion frees got %d, want 1", trace.Frees())
	}
	g.Close()
	if trace.Frees() != 1 {
		t.Fatalf("close after completion freed again: %d", trace.Frees())
	}
}

func TestPoolAllocatorRecycles(t *testing.T) {
	pool := coframe.NewPoolAllocator()
	trace := &coframe.TraceAllocator{Next: pool}

	for i := 0; i < 3; i++ {
		g := coframe.NewWith[string](stringsProducer([]string{"v"}), coframe.Eager, trace)
		if v := g.Extract(); v != "v" {
			t.Fatalf("round %d: got %q, want %q", i, v, "v")
		}
		g.Close()
	}
	if trace.Allocs() != 3 || trace.Frees() != 3 {
		t.Fatalf("allocs/frees got %d/%d, want 3/3", trace.Allocs(), trace.Frees())
	}
}

func TestTraceAllocatorCallbacks(t *testing.T) {
	var sizes []int
	trace := &coframe.TraceAllocator{
		OnAlloc: func(size int) { sizes = append(sizes, size) },
		OnFree:  func(size int) { sizes = append(sizes, -size) },
	}
	g := coframe.NewWith[string](stringsProducer(nil), coframe.Eager, trace)
	if !g.Done() {
		t.Fatal("empty producer should complete eagerly")
	}
	if len(sizes) != 2 || sizes[0] <= 0 || sizes[1] != -sizes[0] {
		t.Fatalf("callback sizes %v, want one alloc and one matching free", sizes)
	}
}
