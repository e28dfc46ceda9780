package gosymbol

import (
	"math"
	"math/big"
)

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// 0^0 is indeterminate and 0^negative is a division by zero; both stay unevaluated.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && (en.IsZero() || en.IsNegative()) {
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}

	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 {
			if folded, ok3 := foldNumPow(bn, en); ok3 {
				return folded
			}
		}
	}
	if base.Equal(E) {
		if f, ok2 := exp.(*Func); ok2 && f.name == "log" {
			return f.arg
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

// maxFoldBits bounds the size of an exact power folded to a Num. Larger
// powers stay symbolic and evaluate through float64.
const maxFoldBits = 1 << 16

// foldNumPow evaluates a numeric power when the result stays exact, or
// when either side is already inexact.
func foldNumPow(bn, en *Num) (Expr, bool) {
	if bn.inexact || en.inexact {
		n, ok := floatNum(math.Pow(bn.Float64(), en.Float64()))
		if !ok {
			return nil, false
		}
		return n, true
	}
	if en.IsInteger() && en.val.Num().IsInt64() {
		e := en.val.Num().Int64()
		if e < -20 || e > 20 {
			return nil, false
		}
		neg := e < 0
		if neg {
			e = -e
		}
		if bits := bn.val.Num().BitLen() + bn.val.Denom().BitLen(); int64(bits)*e > maxFoldBits {
			return nil, false
		}
		result := N(1)
		for i := int64(0); i < e; i++ {
			result = numMul(result, bn)
		}
		if neg {
			return numRecip(result), true
		}
		return result, true
	}
	// Exact square roots: (a/b)^(k/2) with a and b perfect squares.
	if en.val.Denom().Cmp(big.NewInt(2)) == 0 && bn.IsPositive() {
		ra, okA := intSqrt(bn.val.Num())
		rb, okB := intSqrt(bn.val.Denom())
		if okA && okB {
			root := &Num{val: new(big.Rat).SetFrac(ra, rb)}
			return foldNumPow(root, &Num{val: new(big.Rat).SetInt(en.val.Num())})
		}
	}
	return nil, false
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return "1/" + positivePowString(p.base, numNeg(e))
	}
	return positivePowString(p.base, p.exp)
}

func positivePowString(base, exp Expr) string {
	if en, ok := exp.(*Num); ok {
		if en.IsOne() {
			return wrapOperand(base)
		}
		if !en.inexact && en.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "sqrt(" + base.String() + ")"
		}
	}
	return wrapOperand(base) + "^" + wrapOperand(exp)
}

// wrapOperand parenthesizes anything that would not bind tighter than ^.
func wrapOperand(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return "(" + e.String() + ")"
	case *Num:
		if v.IsNegative() || (!v.inexact && !v.IsInteger()) {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if !dependsOn(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if b.IsZero() && !e.IsPositive() {
		return nil, false
	}
	if !b.inexact && !e.inexact {
		if folded, ok := foldNumPow(b, e); ok {
			if n, isNum := folded.(*Num); isNum {
				return n, true
			}
		}
	}
	return floatNum(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
