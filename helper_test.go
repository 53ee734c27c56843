// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe_test

import (
	"code.hybscloud.com/kont"

	"code.hybscloud.com/coframe"
)

// refProto is the protocol of the stock example: escape 'H', marker 0x10.
// The content byte 'H' of "Hello" coincides with the escape value, which
// exercises the escaped-literal path.
var refProto = coframe.Protocol{Escape: 'H', Marker: 0x10}

// nilAllocator reports allocation failure on every Alloc.
// Used to exercise the invalid-handle construction path.
type nilAllocator struct{}

func (nilAllocator) Alloc(int, func() any) any { return nil }

func (nilAllocator) Free(any, int) {}

// stringsProducer yields each element of vs in order, then completes.
func stringsProducer(vs []string) kont.Eff[struct{}] {
	return coframe.Loop(vs, func(rest []string) kont.Eff[kont.Either[[]string, struct{}]] {
		if len(rest) == 0 {
			return kont.Pure(kont.Right[[]string](struct{}{}))
		}
		return coframe.YieldThen(rest[0], kont.Pure(kont.Left[[]string, struct{}](rest[1:])))
	})
}
