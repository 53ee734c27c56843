// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coframe

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is the pre-allocated terminal frame shared by the fused
// Expr constructors, avoiding a boxed ReturnFrame per construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprYieldThen yields a value and then continues with next.
// Fuses ExprPerform(Yield[T]{Value: v}) + ExprThen.
func ExprYieldThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Yield[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func awaitBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(byte) kont.Expr[B])
	result := f(current.(byte))
	return kont.Erased(result.Value), result.Frame
}

// ExprAwaitBind awaits the next byte from s and passes it to f.
// Fuses ExprPerform(Await{Stream: s}) + ExprBind.
func ExprAwaitBind[B any](s *ByteStream, f func(byte) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = awaitBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await{Stream: s}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
