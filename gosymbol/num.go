package gosymbol

import (
	"math"
	"math/big"
	"strconv"
)

// Num is an exact rational number. Values that went through float64
// arithmetic are flagged inexact and print as decimals.
type Num struct {
	val     *big.Rat
	inexact bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("gosymbol: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat panics on NaN and infinities.
func NFloat(f float64) *Num {
	n, ok := floatNum(f)
	if !ok {
		panic("gosymbol: non-finite float")
	}
	return n
}

func floatNum(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f), inexact: true}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Inexact() bool         { return n.inexact }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.inexact {
		return strconv.FormatFloat(n.Float64(), 'g', 15, 64)
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), inexact: a.inexact || b.inexact}
}

func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), inexact: a.inexact || b.inexact}
}

func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), inexact: a.inexact} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("gosymbol: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val), inexact: a.inexact}
}

func numAbs(a *Num) *Num {
	if a.IsNegative() {
		return numNeg(a)
	}
	return a
}

func numCmp(a, b *Num) int { return a.val.Cmp(b.val) }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

// intSqrt returns the exact square root of a non-negative integer.
func intSqrt(x *big.Int) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	r := new(big.Int).Sqrt(x)
	if new(big.Int).Mul(r, r).Cmp(x) != 0 {
		return nil, false
	}
	return r, true
}
