package gosymbol_test

import (
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/calcsolve/gosymbol"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gosymbol.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := gosymbol.F(2, 6)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_FloatPrintsDecimal(t *testing.T) {
	n := gosymbol.NFloat(2.5)
	if n.String() != "2.5" {
		t.Errorf("want 2.5, got %s", n.String())
	}
	if !n.Inexact() {
		t.Error("float-derived number should be inexact")
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := gosymbol.N(5).Diff("x")
	if gosymbol.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", gosymbol.String(result))
	}
}

func TestNum_Eval(t *testing.T) {
	n, ok := gosymbol.N(7).Eval()
	if !ok || n.String() != "7" {
		t.Errorf("Num.Eval() should succeed with same value")
	}
}

// ============================================================
// Sym and Const tests
// ============================================================

func TestSym_Sub_Match(t *testing.T) {
	result := gosymbol.S("x").Sub("x", gosymbol.N(3))
	if gosymbol.String(result) != "3" {
		t.Errorf("want 3, got %s", gosymbol.String(result))
	}
}

func TestSym_Sub_NoMatch(t *testing.T) {
	result := gosymbol.S("x").Sub("y", gosymbol.N(3))
	if gosymbol.String(result) != "x" {
		t.Errorf("want x, got %s", gosymbol.String(result))
	}
}

func TestSym_Diff(t *testing.T) {
	if got := gosymbol.String(gosymbol.S("x").Diff("x")); got != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", got)
	}
	if got := gosymbol.String(gosymbol.S("y").Diff("x")); got != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", got)
	}
}

func TestConst_Eval(t *testing.T) {
	v, ok := gosymbol.Pi.Eval()
	if !ok || math.Abs(v.Float64()-math.Pi) > 1e-15 {
		t.Errorf("pi should evaluate to math.Pi, got %v", v)
	}
	if gosymbol.Diff(gosymbol.E, "x").String() != "0" {
		t.Error("d/dx(E) should be 0")
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(x, gosymbol.N(2))
	if gosymbol.String(expr) != "x + 2" {
		t.Errorf("want x + 2, got %s", gosymbol.String(expr))
	}
}

func TestAdd_NegativeTerm(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(x, gosymbol.N(-3))
	if gosymbol.String(expr) != "x - 3" {
		t.Errorf("want x - 3, got %s", gosymbol.String(expr))
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(x, gosymbol.MulOf(gosymbol.N(-1), x))
	if gosymbol.String(expr) != "0" {
		t.Errorf("x - x should be 0, got %s", gosymbol.String(expr))
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(x, x)
	if gosymbol.String(expr) != "2*x" {
		t.Errorf("x + x should be 2*x, got %s", gosymbol.String(expr))
	}
}

func TestAdd_Diff(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(gosymbol.PowOf(x, gosymbol.N(2)), gosymbol.MulOf(gosymbol.N(3), x))
	result := gosymbol.Diff(expr, "x")
	if gosymbol.String(result) != "2*x + 3" {
		t.Errorf("want 2*x + 3, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_ZeroCollapse(t *testing.T) {
	expr := gosymbol.MulOf(gosymbol.N(0), gosymbol.S("x"))
	if gosymbol.String(expr) != "0" {
		t.Errorf("0*x should be 0, got %s", gosymbol.String(expr))
	}
}

func TestMul_OneElide(t *testing.T) {
	expr := gosymbol.MulOf(gosymbol.N(1), gosymbol.S("x"))
	if gosymbol.String(expr) != "x" {
		t.Errorf("1*x should be x, got %s", gosymbol.String(expr))
	}
}

func TestMul_MergeBases(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.MulOf(gosymbol.N(2), x, x)
	if gosymbol.String(expr) != "2*x^2" {
		t.Errorf("want 2*x^2, got %s", gosymbol.String(expr))
	}
}

func TestMul_StringDenominator(t *testing.T) {
	x := gosymbol.S("x")
	cases := []struct {
		expr gosymbol.Expr
		want string
	}{
		{gosymbol.MulOf(gosymbol.F(1, 3), gosymbol.PowOf(x, gosymbol.N(3))), "x^3/3"},
		{gosymbol.MulOf(gosymbol.CosOf(x), gosymbol.PowOf(x, gosymbol.N(-1))), "cos(x)/x"},
		{gosymbol.MulOf(gosymbol.N(-1), gosymbol.SinOf(x)), "-sin(x)"},
	}
	for _, tc := range cases {
		if got := gosymbol.String(tc.expr); got != tc.want {
			t.Errorf("want %s, got %s", tc.want, got)
		}
	}
}

func TestMul_ProductRule(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.MulOf(gosymbol.SinOf(x), gosymbol.CosOf(x))
	result := gosymbol.Diff(expr, "x")
	if gosymbol.String(result) != "cos(x)^2 - sin(x)^2" {
		t.Errorf("want cos(x)^2 - sin(x)^2, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_ZeroExp(t *testing.T) {
	expr := gosymbol.PowOf(gosymbol.S("x"), gosymbol.N(0))
	if gosymbol.String(expr) != "1" {
		t.Errorf("x^0 should be 1, got %s", gosymbol.String(expr))
	}
}

func TestPow_ExactRoot(t *testing.T) {
	if got := gosymbol.String(gosymbol.SqrtOf(gosymbol.N(4))); got != "2" {
		t.Errorf("sqrt(4) should be 2, got %s", got)
	}
	if got := gosymbol.String(gosymbol.SqrtOf(gosymbol.N(2))); got != "sqrt(2)" {
		t.Errorf("sqrt(2) should stay symbolic, got %s", got)
	}
}

func TestPow_Nested(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.PowOf(gosymbol.PowOf(x, gosymbol.N(2)), gosymbol.N(3))
	if gosymbol.String(expr) != "x^6" {
		t.Errorf("want x^6, got %s", gosymbol.String(expr))
	}
}

func TestPow_NegativeExponentString(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.PowOf(gosymbol.AddOf(x, gosymbol.N(1)), gosymbol.N(-2))
	if gosymbol.String(expr) != "1/(x + 1)^2" {
		t.Errorf("want 1/(x + 1)^2, got %s", gosymbol.String(expr))
	}
}

func TestPow_ZeroBaseNegativeExp(t *testing.T) {
	expr := gosymbol.PowOf(gosymbol.N(0), gosymbol.N(-1))
	if _, ok := expr.Eval(); ok {
		t.Errorf("0^-1 should not evaluate, got %s", gosymbol.String(expr))
	}
}

func TestPow_LargeExactPowerStaysSymbolic(t *testing.T) {
	n := gosymbol.Expr(gosymbol.N(10))
	for i := 0; i < 3; i++ {
		n = gosymbol.PowOf(n, gosymbol.N(20))
	}
	if _, ok := n.(*gosymbol.Num); !ok {
		t.Fatalf("10^8000 should fold to a number, got %T", n)
	}
	tower := gosymbol.PowOf(n, gosymbol.N(20))
	p, ok := tower.(*gosymbol.Pow)
	if !ok {
		t.Fatalf("10^160000 should stay a power, got %T", tower)
	}
	if !p.Base().Equal(n) || gosymbol.String(p.ExpExpr()) != "20" {
		t.Errorf("want (10^8000)^20, got base of %d chars and exponent %s", len(gosymbol.String(p.Base())), p.ExpExpr())
	}
	if _, ok := tower.Eval(); ok {
		t.Error("10^160000 should have no float64 value")
	}
}

func TestPow_Diff_PowerRule(t *testing.T) {
	x := gosymbol.S("x")
	result := gosymbol.Diff(gosymbol.PowOf(x, gosymbol.N(3)), "x")
	if gosymbol.String(result) != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_KnownValues(t *testing.T) {
	cases := []struct {
		expr gosymbol.Expr
		want string
	}{
		{gosymbol.SinOf(gosymbol.N(0)), "0"},
		{gosymbol.CosOf(gosymbol.Pi), "-1"},
		{gosymbol.LogOf(gosymbol.E), "1"},
		{gosymbol.LogOf(gosymbol.N(1)), "0"},
		{gosymbol.ExpOf(gosymbol.LogOf(gosymbol.S("x"))), "x"},
		{gosymbol.AbsOf(gosymbol.N(-4)), "4"},
		{gosymbol.AbsOf(gosymbol.E), "E"},
		{gosymbol.AbsOf(gosymbol.MulOf(gosymbol.N(-1), gosymbol.Pi)), "pi"},
		{gosymbol.LogOf(gosymbol.AbsOf(gosymbol.E)), "1"},
		{gosymbol.AbsOf(gosymbol.S("x")), "abs(x)"},
	}
	for _, tc := range cases {
		if got := gosymbol.String(tc.expr); got != tc.want {
			t.Errorf("want %s, got %s", tc.want, got)
		}
	}
}

func TestFunc_Diff(t *testing.T) {
	x := gosymbol.S("x")
	cases := []struct {
		expr gosymbol.Expr
		want string
	}{
		{gosymbol.SinOf(x), "cos(x)"},
		{gosymbol.CosOf(x), "-sin(x)"},
		{gosymbol.ExpOf(x), "exp(x)"},
		{gosymbol.LogOf(x), "1/x"},
		{gosymbol.SinOf(gosymbol.MulOf(gosymbol.N(2), x)), "2*cos(2*x)"},
	}
	for _, tc := range cases {
		if got := gosymbol.String(gosymbol.Diff(tc.expr, "x")); got != tc.want {
			t.Errorf("d/dx(%s): want %s, got %s", tc.expr, tc.want, got)
		}
	}
}

func TestFunc_Numeric_Eval(t *testing.T) {
	v, ok := gosymbol.SinOf(gosymbol.MulOf(gosymbol.Pi, gosymbol.F(1, 2))).Eval()
	if !ok || math.Abs(v.Float64()-1) > 1e-12 {
		t.Errorf("sin(pi/2) should evaluate to 1, got %v", v)
	}
}

func TestFunc_LogNonPositive(t *testing.T) {
	if _, ok := gosymbol.LogOf(gosymbol.N(-1)).Eval(); ok {
		t.Error("log(-1) should not evaluate")
	}
}

// ============================================================
// Expand / trig simplification
// ============================================================

func TestExpand_Distribution(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.MulOf(gosymbol.AddOf(x, gosymbol.N(1)), gosymbol.AddOf(x, gosymbol.N(-1)))
	result := gosymbol.Expand(expr)
	if gosymbol.String(result) != "x^2 - 1" {
		t.Errorf("want x^2 - 1, got %s", gosymbol.String(result))
	}
}

func TestTrigSimplify_Pythagorean(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.AddOf(
		gosymbol.PowOf(gosymbol.SinOf(x), gosymbol.N(2)),
		gosymbol.PowOf(gosymbol.CosOf(x), gosymbol.N(2)),
	)
	if got := gosymbol.String(gosymbol.DeepSimplify(expr)); got != "1" {
		t.Errorf("sin^2 + cos^2 should be 1, got %s", got)
	}
}

// ============================================================
// Free symbols / substitution
// ============================================================

func TestSortedSymbols(t *testing.T) {
	expr := gosymbol.AddOf(gosymbol.S("y"), gosymbol.S("x"), gosymbol.Pi)
	got := strings.Join(gosymbol.SortedSymbols(expr), ",")
	if got != "x,y" {
		t.Errorf("want x,y, got %s", got)
	}
}

func TestFreeSymbols_Constant(t *testing.T) {
	if len(gosymbol.FreeSymbols(gosymbol.MulOf(gosymbol.N(3), gosymbol.E))) != 0 {
		t.Error("constants have no free symbols")
	}
}

func TestSub(t *testing.T) {
	x := gosymbol.S("x")
	linear := gosymbol.AddOf(gosymbol.MulOf(gosymbol.N(2), x), gosymbol.N(3))
	if got := gosymbol.String(gosymbol.Sub(linear, "x", gosymbol.N(5))); got != "13" {
		t.Errorf("want 13, got %s", got)
	}
}

func TestDiffN(t *testing.T) {
	x := gosymbol.S("x")
	result := gosymbol.DiffN(gosymbol.PowOf(x, gosymbol.N(4)), "x", 4)
	if gosymbol.String(result) != "24" {
		t.Errorf("d^4/dx^4(x^4) should be 24, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Integration tests
// ============================================================

func TestIntegrate(t *testing.T) {
	x := gosymbol.S("x")
	cases := []struct {
		name string
		expr gosymbol.Expr
		want string
	}{
		{"constant", gosymbol.N(5), "5*x"},
		{"variable", x, "x^2/2"},
		{"power", gosymbol.PowOf(x, gosymbol.N(2)), "x^3/3"},
		{"inverse", gosymbol.PowOf(x, gosymbol.N(-1)), "log(abs(x))"},
		{"sin", gosymbol.SinOf(x), "-cos(x)"},
		{"cos", gosymbol.CosOf(x), "sin(x)"},
		{"exp", gosymbol.ExpOf(x), "exp(x)"},
		{"linear argument", gosymbol.SinOf(gosymbol.MulOf(gosymbol.N(2), x)), "-cos(2*x)/2"},
		{"linear base", gosymbol.PowOf(gosymbol.AddOf(x, gosymbol.N(1)), gosymbol.N(2)), "(x + 1)^3/3"},
		{"polynomial", gosymbol.AddOf(
			gosymbol.MulOf(gosymbol.N(3), gosymbol.PowOf(x, gosymbol.N(2))),
			gosymbol.MulOf(gosymbol.N(2), x),
		), "x^3 + x^2"},
		{"expanded product", gosymbol.MulOf(x, gosymbol.AddOf(x, gosymbol.N(1))), "x^3/3 + x^2/2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := gosymbol.Integrate(tc.expr, "x")
			if !ok {
				t.Fatalf("integration of %s should succeed", tc.expr)
			}
			if got := gosymbol.String(result); got != tc.want {
				t.Errorf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestIntegrate_Unsupported(t *testing.T) {
	x := gosymbol.S("x")
	if _, ok := gosymbol.Integrate(gosymbol.MulOf(x, gosymbol.ExpOf(x)), "x"); ok {
		t.Error("x*exp(x) needs integration by parts and should be reported unsupported")
	}
}

func TestDefiniteIntegrate(t *testing.T) {
	x := gosymbol.S("x")
	result, ok := gosymbol.DefiniteIntegrate(gosymbol.PowOf(x, gosymbol.N(2)), "x", gosymbol.N(0), gosymbol.N(5))
	if !ok {
		t.Fatal("definite integral should succeed")
	}
	if gosymbol.String(result) != "125/3" {
		t.Errorf("want 125/3, got %s", gosymbol.String(result))
	}
}

func TestDefiniteIntegrate_NumericFallback(t *testing.T) {
	x := gosymbol.S("x")
	expr := gosymbol.ExpOf(gosymbol.PowOf(x, gosymbol.N(2)))
	result, ok := gosymbol.DefiniteIntegrate(expr, "x", gosymbol.N(0), gosymbol.N(1))
	if !ok {
		t.Fatal("numeric fallback should succeed")
	}
	v, ok := result.Eval()
	if !ok || math.Abs(v.Float64()-1.4626517459071816) > 1e-6 {
		t.Errorf("want about 1.46265, got %s", gosymbol.String(result))
	}
}

func TestDefiniteIntegrate_Divergent(t *testing.T) {
	x := gosymbol.S("x")
	cases := []struct {
		name   string
		expr   gosymbol.Expr
		lo, hi gosymbol.Expr
	}{
		{"pole at zero", gosymbol.PowOf(x, gosymbol.N(-2)), gosymbol.N(-1), gosymbol.N(1)},
		{"shifted pole", gosymbol.PowOf(gosymbol.AddOf(x, gosymbol.N(-1)), gosymbol.N(-1)), gosymbol.N(0), gosymbol.N(2)},
		{"pole between samples", gosymbol.PowOf(gosymbol.AddOf(x, gosymbol.F(-1, 3)), gosymbol.N(-1)), gosymbol.N(0), gosymbol.N(1)},
		{"pole at a limit", gosymbol.PowOf(x, gosymbol.N(-1)), gosymbol.N(0), gosymbol.N(1)},
		{"reversed limits", gosymbol.PowOf(x, gosymbol.N(-2)), gosymbol.N(1), gosymbol.N(-1)},
		{"tangent asymptote", gosymbol.TanOf(x), gosymbol.N(0), gosymbol.N(2)},
	}
	for _, tc := range cases {
		if gosymbol.Converges(tc.expr, "x", tc.lo, tc.hi) {
			t.Errorf("%s: integral of %s from %s to %s should not converge", tc.name, tc.expr, tc.lo, tc.hi)
		}
		if r, ok := gosymbol.DefiniteIntegrate(tc.expr, "x", tc.lo, tc.hi); ok {
			t.Errorf("%s: want failure, got %s", tc.name, gosymbol.String(r))
		}
	}
}

func TestDefiniteIntegrate_ImproperConvergent(t *testing.T) {
	x := gosymbol.S("x")
	cases := []struct {
		expr   gosymbol.Expr
		lo, hi gosymbol.Expr
		want   string
	}{
		{gosymbol.PowOf(x, gosymbol.F(-1, 2)), gosymbol.N(0), gosymbol.N(1), "2"},
		{gosymbol.PowOf(x, gosymbol.N(-1)), gosymbol.N(1), gosymbol.E, "1"},
		{gosymbol.PowOf(x, gosymbol.N(-2)), gosymbol.N(1), gosymbol.N(2), "1/2"},
	}
	for _, tc := range cases {
		r, ok := gosymbol.DefiniteIntegrate(tc.expr, "x", tc.lo, tc.hi)
		if !ok {
			t.Errorf("integral of %s from %s to %s should succeed", tc.expr, tc.lo, tc.hi)
			continue
		}
		if got := gosymbol.String(gosymbol.DeepSimplify(r)); got != tc.want {
			t.Errorf("integral of %s from %s to %s: want %s, got %s", tc.expr, tc.lo, tc.hi, tc.want, got)
		}
	}

	// Symbolic limits are not checked.
	if !gosymbol.Converges(gosymbol.PowOf(x, gosymbol.N(-1)), "x", gosymbol.N(1), gosymbol.S("a")) {
		t.Error("a symbolic upper limit should not be rejected")
	}
}

func TestNIntegrate(t *testing.T) {
	x := gosymbol.S("x")
	v, ok := gosymbol.NIntegrate(gosymbol.PowOf(x, gosymbol.N(2)), "x", 0, 3)
	if !ok || math.Abs(v-9) > 1e-6 {
		t.Errorf("want 9, got %v", v)
	}
}

// ============================================================
// Tree accessors
// ============================================================

func collectParts(e gosymbol.Expr, parts map[string]bool) {
	switch v := e.(type) {
	case *gosymbol.Num:
		parts["num "+v.Rat().String()] = true
	case *gosymbol.Sym:
		parts["sym "+v.Name()] = true
	case *gosymbol.Const:
		parts["const "+v.Name()] = true
	case *gosymbol.Add:
		for _, term := range v.Terms() {
			collectParts(term, parts)
		}
	case *gosymbol.Mul:
		for _, f := range v.Factors() {
			collectParts(f, parts)
		}
	case *gosymbol.Pow:
		collectParts(v.Base(), parts)
		collectParts(v.ExpExpr(), parts)
	case *gosymbol.Func:
		parts["func "+v.FuncName()] = true
		collectParts(v.Arg(), parts)
	}
}

func TestAccessors_WalkTree(t *testing.T) {
	expr, err := gosymbol.Parse("2*x^3 + sin(y) + pi/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := map[string]bool{}
	collectParts(expr, parts)
	for _, want := range []string{"num 2/1", "num 3/1", "num 1/2", "sym x", "sym y", "const pi", "func sin"} {
		if !parts[want] {
			t.Errorf("walking %s: missing %s in %v", expr, want, parts)
		}
	}
}

func TestAccessors_RatIsACopy(t *testing.T) {
	n := gosymbol.F(3, 4)
	n.Rat().SetInt64(9)
	if n.String() != "3/4" {
		t.Errorf("want 3/4, got %s", n.String())
	}
}

// ============================================================
// Determinism
// ============================================================

func TestDeterminism(t *testing.T) {
	x := gosymbol.S("x")
	y := gosymbol.S("y")
	build := func() string {
		return gosymbol.String(gosymbol.AddOf(y, gosymbol.MulOf(gosymbol.N(3), x), gosymbol.PowOf(x, gosymbol.N(2)), gosymbol.N(1)))
	}
	first := build()
	for i := 0; i < 20; i++ {
		if got := build(); got != first {
			t.Fatalf("non-deterministic output: %s vs %s", first, got)
		}
	}
}
