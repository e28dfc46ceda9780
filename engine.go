package calcsolve

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/njchilds90/calcsolve/gosymbol"
)

// Expression is an engine-owned parsed expression.
type Expression interface {
	String() string
}

// Engine is the symbolic algebra backend a Solver drives. Implementations
// must not panic across this boundary; failures are returned as errors.
type Engine interface {
	Parse(text string) (Expression, error)
	FreeVariables(e Expression) []string
	Integrate(e Expression, variable string) (Expression, error)
	IntegrateDefinite(e Expression, variable string, lower, upper Expression) (Expression, error)
	Differentiate(e Expression, variable string) (Expression, error)
	Simplify(e Expression) Expression
	EvalNumeric(e Expression) (string, error)
	Display(e Expression) string
}

var (
	errNoAntiderivative = errors.New("no closed-form antiderivative found")
	errDivergent        = errors.New("integral does not converge")
	errNotNumeric       = errors.New("expression has no numeric value")
	errForeignValue     = errors.New("expression was not produced by this engine")
)

// SymbolicEngine is the Engine backed by the gosymbol kernel.
type SymbolicEngine struct{}

func NewSymbolicEngine() *SymbolicEngine { return &SymbolicEngine{} }

// guard turns a kernel panic into an error.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", op, r)
	}
}

func asExpr(e Expression) (gosymbol.Expr, error) {
	x, ok := e.(gosymbol.Expr)
	if !ok {
		return nil, errForeignValue
	}
	return x, nil
}

func (SymbolicEngine) Parse(text string) (out Expression, err error) {
	defer guard("parse", &err)
	expr, err := gosymbol.Parse(text)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func (SymbolicEngine) FreeVariables(e Expression) []string {
	x, err := asExpr(e)
	if err != nil {
		return nil
	}
	return gosymbol.SortedSymbols(x)
}

func (SymbolicEngine) Integrate(e Expression, variable string) (out Expression, err error) {
	defer guard("integrate", &err)
	x, err := asExpr(e)
	if err != nil {
		return nil, err
	}
	r, ok := gosymbol.Integrate(x, variable)
	if !ok {
		return nil, fmt.Errorf("integrate %s d%s: %w", x, variable, errNoAntiderivative)
	}
	return r, nil
}

func (SymbolicEngine) IntegrateDefinite(e Expression, variable string, lower, upper Expression) (out Expression, err error) {
	defer guard("definite integral", &err)
	x, err := asExpr(e)
	if err != nil {
		return nil, err
	}
	a, err := asExpr(lower)
	if err != nil {
		return nil, err
	}
	b, err := asExpr(upper)
	if err != nil {
		return nil, err
	}
	r, ok := gosymbol.DefiniteIntegrate(x, variable, a, b)
	if !ok {
		cause := errNoAntiderivative
		if !gosymbol.Converges(x, variable, a, b) {
			cause = errDivergent
		}
		return nil, fmt.Errorf("integrate %s d%s from %s to %s: %w", x, variable, a, b, cause)
	}
	return r, nil
}

func (SymbolicEngine) Differentiate(e Expression, variable string) (out Expression, err error) {
	defer guard("differentiate", &err)
	x, err := asExpr(e)
	if err != nil {
		return nil, err
	}
	return gosymbol.Diff(x, variable), nil
}

// Simplify returns e unchanged if simplification fails.
func (SymbolicEngine) Simplify(e Expression) (out Expression) {
	x, err := asExpr(e)
	if err != nil {
		return e
	}
	defer func() {
		if recover() != nil {
			out = e
		}
	}()
	return gosymbol.DeepSimplify(x)
}

// EvalNumeric prints the value to 15 significant digits. An expression
// that still has free variables is returned in simplified symbolic form.
func (s SymbolicEngine) EvalNumeric(e Expression) (out string, err error) {
	defer guard("evaluate", &err)
	x, err := asExpr(e)
	if err != nil {
		return "", err
	}
	if v, ok := x.Eval(); ok {
		return strconv.FormatFloat(v.Float64(), 'g', 15, 64), nil
	}
	if len(gosymbol.FreeSymbols(x)) > 0 {
		return gosymbol.DeepSimplify(x).String(), nil
	}
	return "", fmt.Errorf("%s: %w", x, errNotNumeric)
}

func (SymbolicEngine) Display(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}
