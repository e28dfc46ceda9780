package gosymbol

import (
	"sort"
	"strings"
)

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the numeric coefficient to the
// front and merges factors sharing a base by adding their exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	order := []string{}
	first := map[string]Expr{}
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			first[key] = f
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	for _, key := range order {
		f := first[key]
		if len(exps[key]) > 1 {
			f = PowOf(bases[key], AddOf(exps[key]...))
		}
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			others = append(others, v.factors...)
		default:
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

// String prints factors with negative numeric exponents as a denominator,
// so 1/3*x^3 reads x^3/3 and cos(x)*x^-1 reads cos(x)/x.
func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	coeff := N(1)
	factors := m.factors
	if c, ok := factors[0].(*Num); ok {
		coeff = c
		factors = factors[1:]
	}

	var num, den []string
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if e, ok2 := p.exp.(*Num); ok2 && e.IsNegative() {
				den = append(den, positivePowString(p.base, numNeg(e)))
				continue
			}
		}
		num = append(num, factorString(f))
	}

	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numNeg(coeff)
	}
	if coeff.inexact {
		if !coeff.IsOne() || len(num) == 0 {
			num = append([]string{coeff.String()}, num...)
		}
	} else {
		p, q := coeff.val.Num().String(), coeff.val.Denom().String()
		if p != "1" || len(num) == 0 {
			num = append([]string{p}, num...)
		}
		if q != "1" {
			den = append([]string{q}, den...)
		}
	}

	out := sign + strings.Join(num, "*")
	if len(den) == 0 {
		return out
	}
	d := strings.Join(den, "*")
	if len(den) > 1 {
		d = "(" + d + ")"
	}
	return out + "/" + d
}

func factorString(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Factors() []Expr { return m.factors }
