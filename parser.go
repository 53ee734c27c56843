// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/kont"
)

// Protocol holds the two byte values frame recognition is built on.
// Both are construction-time parameters of a parser, never hard-coded:
// the same state machine serves any escape-delimited protocol.
//
// Escape followed by Marker is a frame boundary (start from idle, end
// from inside a frame). Escape followed by Escape inside a frame decodes
// to one literal Escape byte in the content. Escape followed by any other
// byte inside a frame means the stream is desynchronized: the frame in
// progress is discarded silently, including the aborting byte.
type Protocol struct {
	Escape byte
	Marker byte
}

// Encode frames content for transmission: a leading and trailing
// Escape+Marker pair, with each content byte equal to Escape doubled.
// Feeding the result to a parser with the same Protocol decodes back to
// content exactly.
func (p Protocol) Encode(content string) []byte {
	out := make([]byte, 0, len(content)+4)
	out = append(out, p.Escape, p.Marker)
	for i := 0; i < len(content); i++ {
		b := content[i]
		if b == p.Escape {
			out = append(out, p.Escape, p.Escape)
			continue
		}
		out = append(out, b)
	}
	return append(out, p.Escape, p.Marker)
}

// parserPhase is the explicit decode state, one tag per suspension shape
// of the framing protocol.
type parserPhase uint8

const (
	parserIdle parserPhase = iota
	parserSawEscape
	parserInFrame
	parserInFrameEscape
)

// machine is the framing state machine: the current phase plus the bytes
// of the frame in progress. It travels by value through the producer
// loop; the buffer backing is reused along the single decode lineage.
type machine struct {
	proto Protocol
	buf   []byte
	phase parserPhase
	diag  *Diagnostics
}

// consume feeds one byte, returning the successor machine and, when b
// terminates a frame, the completed frame content. There is no partial
// frame observability: content exists only at completion.
func (m machine) consume(b byte) (machine, string, bool) {
	switch m.phase {
	case parserIdle:
		if b == m.proto.Escape {
			m.phase = parserSawEscape
		}
		// any other byte outside a frame is discarded
		return m, "", false
	case parserSawEscape:
		if b == m.proto.Marker {
			m.phase = parserInFrame
			m.buf = m.buf[:0]
		} else {
			// not a start sequence; both bytes are dropped
			m.phase = parserIdle
		}
		return m, "", false
	case parserInFrame:
		if b == m.proto.Escape {
			// lookahead needed: boundary, literal escape, or desync
			m.phase = parserInFrameEscape
			return m, "", false
		}
		m.buf = append(m.buf, b)
		return m, "", false
	default: // parserInFrameEscape
		switch b {
		case m.proto.Marker:
			frame := string(m.buf)
			m.phase = parserIdle
			m.buf = m.buf[:0]
			if m.diag != nil {
				m.diag.note(EventFrame, len(frame))
			}
			return m, frame, true
		case m.proto.Escape:
			m.buf = append(m.buf, m.proto.Escape)
			m.phase = parserInFrame
			return m, "", false
		default:
			// out of sync: drop the frame in progress and the byte itself
			if m.diag != nil {
				m.diag.note(EventDesync, len(m.buf))
			}
			m.phase = parserIdle
			m.buf = m.buf[:0]
			return m, "", false
		}
	}
}

// NewFrameParser binds a frame-decoding producer to exactly one stream
// and returns its generator handle. The stream must outlive the parser.
//
// The producer loops indefinitely awaiting bytes and yields each
// completed frame; it never completes under normal operation, so the
// generator's end condition is reached only through external teardown.
// Start is eager: the parser runs to its first await during construction
// so the first pushed byte resumes it directly.
func NewFrameParser(s *ByteStream, proto Protocol) *Generator[string] {
	return New[string](parseLoop(s, machine{proto: proto, diag: s.diag}), Eager)
}

// NewFrameParserWith is [NewFrameParser] with a per-generator allocation hook.
func NewFrameParserWith(s *ByteStream, proto Protocol, alloc Allocator) *Generator[string] {
	return NewWith[string](parseLoop(s, machine{proto: proto, diag: s.diag}), Eager, alloc)
}

func parseLoop(s *ByteStream, m machine) kont.Eff[struct{}] {
	return Loop(m, func(m machine) kont.Eff[kont.Either[machine, struct{}]] {
		return AwaitBind(s, func(b byte) kont.Eff[kont.Either[machine, struct{}]] {
			next, frame, completed := m.consume(b)
			if completed {
				return YieldThen(frame, kont.Pure(kont.Left[machine, struct{}](next)))
			}
			return kont.Pure(kont.Left[machine, struct{}](next))
		})
	})
}

// NewFrameParserExpr is the Expr-world construction of [NewFrameParser]:
// the same decode semantics through the defunctionalized evaluator.
func NewFrameParserExpr(s *ByteStream, proto Protocol) *Generator[string] {
	return NewExpr[string](exprParseLoop(s, machine{proto: proto, diag: s.diag}), Eager)
}

func exprParseLoop(s *ByteStream, m machine) kont.Expr[struct{}] {
	return ExprLoop(m, func(m machine) kont.Expr[kont.Either[machine, struct{}]] {
		return ExprAwaitBind(s, func(b byte) kont.Expr[kont.Either[machine, struct{}]] {
			next, frame, completed := m.consume(b)
			if completed {
				return ExprYieldThen(frame, kont.ExprReturn(kont.Left[machine, struct{}](next)))
			}
			return kont.ExprReturn(kont.Left[machine, struct{}](next))
		})
	})
}
