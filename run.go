// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/kont"
)

// Emit returns a producer yielding each byte of p in order, then
// completing. Useful as a generator-shaped byte source for [Drive] and
// for fabricating test input.
func Emit(p []byte) kont.Eff[struct{}] {
	return Loop(p, func(rest []byte) kont.Eff[kont.Either[[]byte, struct{}]] {
		if len(rest) == 0 {
			return kont.Pure(kont.Right[[]byte](struct{}{}))
		}
		return YieldThen(rest[0], kont.Pure(kont.Left[[]byte, struct{}](rest[1:])))
	})
}

// Feed pushes each byte of p into s, extracting after every push and
// collecting each completed frame from the bound parser. Runs entirely
// on the calling goroutine.
//
// Extraction cannot see empty frames (a completed frame with zero
// content bytes extracts as the empty string); drivers that care use
// [Diagnostics] frame events instead.
func Feed(s *ByteStream, parser *Generator[string], p []byte) []string {
	var frames []string
	for _, b := range p {
		s.Push(b)
		if f := parser.Extract(); len(f) > 0 {
			frames = append(frames, f)
		}
	}
	return frames
}

// Drive pulls bytes from the src generator, pushes each into s, and
// invokes handle for every frame the bound parser completes. The two
// executions interleave strictly on the calling goroutine; no goroutines
// or channels are involved. Drive returns when src completes.
func Drive(src *Generator[byte], s *ByteStream, parser *Generator[string], handle func(string)) {
	for b := range src.All() {
		s.Push(b)
		if f := parser.Extract(); len(f) > 0 {
			handle(f)
		}
	}
}
