package gosymbol_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/calcsolve/gosymbol"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2*x + 3", "2*x + 3"},
		{"x^2", "x^2"},
		{"x**2", "x^2"},
		{"-x^2", "-x^2"},
		{"2^-1", "1/2"},
		{"x/2", "x/2"},
		{"2**3", "8"},
		{"(x+1)*(x+1)", "(x + 1)^2"},
		{"sin(x)*cos(x)", "cos(x)*sin(x)"},
		{"ln(x)", "log(x)"},
		{"log(e)", "1"},
		{"sqrt(x)", "sqrt(x)"},
		{"sec(x)", "1/cos(x)"},
		{"pi", "pi"},
		{"1.5*x", "1.5*x"},
		{"  x  -  y ", "x - y"},
	}
	for _, tc := range cases {
		expr, err := gosymbol.Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got := gosymbol.String(expr); got != tc.want {
			t.Errorf("Parse(%q): want %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
	}{
		{"", 0},
		{"(x+1", 0},
		{"x)", 1},
		{"expx", 0},
		{"sin x", 0},
		{"sin(x)cos(x)", 6},
		{"2 $ 3", 2},
		{"x^", 2},
		{"1..2", 0},
		{"x + é", 4},
		{"x + ∞", 4},
	}
	for _, tc := range cases {
		_, err := gosymbol.Parse(tc.in)
		if err == nil {
			t.Errorf("Parse(%q): expected an error", tc.in)
			continue
		}
		var perr *gosymbol.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q): want *ParseError, got %T", tc.in, err)
			continue
		}
		if perr.Pos != tc.pos {
			t.Errorf("Parse(%q): want position %d, got %d (%v)", tc.in, tc.pos, perr.Pos, err)
		}
		if perr.Text != tc.in {
			t.Errorf("Parse(%q): error should carry the input, got %q", tc.in, perr.Text)
		}
	}
}

func TestParse_MultiByteCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x + é", `unknown identifier "é" at position 4`},
		{"2*∞", `unexpected character '∞' at position 2`},
		{"ü(x)", `unknown identifier "ü" at position 0`},
	}
	for _, tc := range cases {
		_, err := gosymbol.Parse(tc.in)
		if err == nil {
			t.Errorf("Parse(%q): expected an error", tc.in)
			continue
		}
		if err.Error() != tc.want {
			t.Errorf("Parse(%q): want %s, got %s", tc.in, tc.want, err)
		}
	}

	expr, err := gosymbol.Parse("x\u00a0+\u00a01")
	if err != nil {
		t.Fatalf("no-break space should separate tokens: %v", err)
	}
	if gosymbol.String(expr) != "x + 1" {
		t.Errorf("want x + 1, got %s", expr)
	}
}

func TestParse_EvalSinPiOverTwo(t *testing.T) {
	expr, err := gosymbol.Parse("sin(pi/2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := expr.Eval()
	if !ok || math.Abs(v.Float64()-1) > 1e-12 {
		t.Errorf("sin(pi/2) should evaluate to 1, got %v", v)
	}
}

func TestParse_RightAssociativePower(t *testing.T) {
	expr, err := gosymbol.Parse("2^3^2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gosymbol.String(expr) != "512" {
		t.Errorf("2^3^2 should be 512, got %s", gosymbol.String(expr))
	}
}

func TestIsFunction(t *testing.T) {
	if !gosymbol.IsFunction("sin") || !gosymbol.IsFunction("ln") {
		t.Error("sin and ln should be known functions")
	}
	if gosymbol.IsFunction("expx") {
		t.Error("expx is not a function")
	}
}
