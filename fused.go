// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/kont"
)

// YieldThen yields a value and then continues with next.
// Fuses Perform(Yield[T]{Value: v}) + Then.
func YieldThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield[T]{Value: v}), next)
}

// AwaitBind awaits the next byte from s and passes it to f.
// Fuses Perform(Await{Stream: s}) + Bind.
func AwaitBind[B any](s *ByteStream, f func(byte) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Await{Stream: s}), f)
}
