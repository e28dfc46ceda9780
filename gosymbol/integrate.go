package gosymbol

// ============================================================
// Integration (rule-based symbolic + numerical)
// ============================================================

// Integrate returns an antiderivative of expr with respect to varName.
// Products that match no rule are expanded and tried once more.
func Integrate(expr Expr, varName string) (Expr, bool) {
	expr = expr.Simplify()
	if r, ok := integrateTerm(expr, varName); ok {
		return r.Simplify(), true
	}
	expanded := Expand(expr)
	if expanded.Equal(expr) {
		return nil, false
	}
	if r, ok := integrateTerm(expanded, varName); ok {
		return r.Simplify(), true
	}
	return nil, false
}

func integrateTerm(expr Expr, varName string) (Expr, bool) {
	if !dependsOn(expr, varName) {
		return MulOf(expr, S(varName)), true
	}
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(v, N(2))), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			r, ok := Integrate(t, varName)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		var consts, rest []Expr
		for _, f := range v.factors {
			if dependsOn(f, varName) {
				rest = append(rest, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(rest) != 1 {
			return nil, false
		}
		r, ok := integrateTerm(rest[0], varName)
		if !ok {
			return nil, false
		}
		return MulOf(append(consts, r)...), true
	case *Pow:
		return integratePow(v, varName)
	case *Func:
		return integrateFunc(v, varName)
	}
	return nil, false
}

// linearRate reports a when u = a*varName + b for a non-zero number a.
func linearRate(u Expr, varName string) (*Num, bool) {
	d, ok := Diff(u, varName).(*Num)
	if !ok || d.IsZero() {
		return nil, false
	}
	return d, true
}

func integratePow(p *Pow, varName string) (Expr, bool) {
	if !dependsOn(p.exp, varName) {
		n, ok := p.exp.(*Num)
		if !ok {
			return nil, false
		}
		a, ok := linearRate(p.base, varName)
		if !ok {
			return nil, false
		}
		if n.IsNegOne() {
			return MulOf(numRecip(a), LogOf(AbsOf(p.base))), true
		}
		next := numAdd(n, N(1))
		return MulOf(numRecip(numMul(next, a)), PowOf(p.base, next)), true
	}
	if !dependsOn(p.base, varName) {
		a, ok := linearRate(p.exp, varName)
		if !ok {
			return nil, false
		}
		return MulOf(numRecip(a), PowOf(p.base, p.exp), PowOf(LogOf(p.base), N(-1))), true
	}
	return nil, false
}

func integrateFunc(f *Func, varName string) (Expr, bool) {
	u := f.arg
	a, ok := linearRate(u, varName)
	if !ok {
		return nil, false
	}
	inv := numRecip(a)
	switch f.name {
	case "sin":
		return MulOf(numNeg(inv), CosOf(u)), true
	case "cos":
		return MulOf(inv, SinOf(u)), true
	case "tan":
		return MulOf(numNeg(inv), LogOf(AbsOf(CosOf(u)))), true
	case "exp":
		return MulOf(inv, ExpOf(u)), true
	case "log":
		return MulOf(inv, AddOf(MulOf(u, LogOf(u)), MulOf(N(-1), u))), true
	case "sinh":
		return MulOf(inv, CoshOf(u)), true
	case "cosh":
		return MulOf(inv, SinhOf(u)), true
	case "asin":
		return MulOf(inv, AddOf(
			MulOf(u, AsinOf(u)),
			SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))),
		)), true
	case "atan":
		return MulOf(inv, AddOf(
			MulOf(u, AtanOf(u)),
			MulOf(F(-1, 2), LogOf(AddOf(N(1), PowOf(u, N(2))))),
		)), true
	}
	return nil, false
}

// DefiniteIntegrate evaluates the integral of expr over [lower, upper].
// It uses the antiderivative when one is known and falls back to
// NIntegrate when both limits are numeric. Integrals that fail Converges
// are rejected.
func DefiniteIntegrate(expr Expr, varName string, lower, upper Expr) (Expr, bool) {
	if !Converges(expr, varName, lower, upper) {
		return nil, false
	}
	if anti, ok := Integrate(expr, varName); ok {
		return AddOf(Sub(anti, varName, upper), MulOf(N(-1), Sub(anti, varName, lower))), true
	}
	a, okA := lower.Eval()
	b, okB := upper.Eval()
	if !okA || !okB {
		return nil, false
	}
	v, ok := NIntegrate(expr, varName, a.Float64(), b.Float64())
	if !ok {
		return nil, false
	}
	return floatExpr(v)
}

// Converges reports false when the integral of expr between numeric
// limits crosses a pole. The integrand must have a value at every interior
// sample with no pole guard changing sign between samples, and the
// antiderivative must be finite at both limits. Symbolic limits and
// integrands with other free symbols are not checked.
func Converges(expr Expr, varName string, lower, upper Expr) bool {
	a, okA := lower.Eval()
	b, okB := upper.Eval()
	if !okA || !okB {
		return true
	}
	for name := range FreeSymbols(expr) {
		if name != varName {
			return true
		}
	}
	if !regularInside(expr, varName, a.Float64(), b.Float64()) {
		return false
	}
	if anti, ok := Integrate(expr, varName); ok {
		for _, limit := range []Expr{lower, upper} {
			if _, ok := Sub(anti, varName, limit).Eval(); !ok {
				return false
			}
		}
	}
	return true
}

// singularSamples is a multiple of gaussPanels so every panel edge is
// sampled.
const singularSamples = 8 * gaussPanels

func regularInside(expr Expr, varName string, a, b float64) bool {
	if a == b {
		return true
	}
	guards := poleGuards(expr, varName, nil)
	prev := make([]int, len(guards))
	for i, g := range guards {
		prev[i] = signAt(g, varName, a)
	}
	for k := 1; k <= singularSamples; k++ {
		x := b
		if k < singularSamples {
			x = a + (b-a)*float64(k)/singularSamples
			if _, ok := valueAt(expr, varName, x); !ok {
				return false
			}
		}
		for i, g := range guards {
			sign := signAt(g, varName, x)
			if sign == 0 {
				continue
			}
			if prev[i] != 0 && sign != prev[i] {
				return false
			}
			prev[i] = sign
		}
	}
	return true
}

// poleGuards collects the subexpressions whose zeros make expr singular:
// bases raised to a negative power, log arguments and cos of tan
// arguments.
func poleGuards(e Expr, varName string, out []Expr) []Expr {
	if !dependsOn(e, varName) {
		return out
	}
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			out = poleGuards(t, varName, out)
		}
	case *Mul:
		for _, f := range v.factors {
			out = poleGuards(f, varName, out)
		}
	case *Pow:
		if en, ok := v.exp.(*Num); ok && en.IsNegative() && dependsOn(v.base, varName) {
			out = append(out, v.base)
		}
		out = poleGuards(v.base, varName, out)
		out = poleGuards(v.exp, varName, out)
	case *Func:
		switch v.name {
		case "log":
			out = append(out, v.arg)
		case "tan":
			out = append(out, CosOf(v.arg))
		}
		out = poleGuards(v.arg, varName, out)
	}
	return out
}

// signAt returns the sign of g at x, or 0 when g is zero or has no value
// there.
func signAt(g Expr, varName string, x float64) int {
	v, ok := valueAt(g, varName, x)
	if !ok {
		return 0
	}
	return v.val.Sign()
}

func valueAt(e Expr, varName string, x float64) (*Num, bool) {
	xi, ok := floatNum(x)
	if !ok {
		return nil, false
	}
	return e.Sub(varName, xi).Eval()
}

func floatExpr(v float64) (Expr, bool) {
	n, ok := floatNum(v)
	if !ok {
		return nil, false
	}
	return n, true
}

var (
	gaussNodes = []float64{
		-0.9739065285, -0.8650633667, -0.6794095683,
		-0.4333953941, -0.1488743390, 0.1488743390,
		0.4333953941, 0.6794095683, 0.8650633667, 0.9739065285,
	}
	gaussWeights = []float64{
		0.0666713443, 0.1494513492, 0.2190863625,
		0.2692667193, 0.2955242247, 0.2955242247,
		0.2692667193, 0.2190863625, 0.1494513492, 0.0666713443,
	}
)

const gaussPanels = 32

// NIntegrate applies composite 10-point Gauss-Legendre quadrature. It
// fails if the integrand cannot be evaluated at any node.
func NIntegrate(expr Expr, varName string, a, b float64) (float64, bool) {
	width := (b - a) / gaussPanels
	total := 0.0
	for k := 0; k < gaussPanels; k++ {
		lo := a + float64(k)*width
		mid := lo + width/2
		half := width / 2
		sum := 0.0
		for i, t := range gaussNodes {
			xi, ok := floatNum(mid + half*t)
			if !ok {
				return 0, false
			}
			v, ok := expr.Sub(varName, xi).Eval()
			if !ok {
				return 0, false
			}
			sum += gaussWeights[i] * v.Float64()
		}
		total += half * sum
	}
	return total, true
}
