// Package calcsolve answers free-form calculus questions such as
// "integrate x^2 dx from 0 to 5".
//
// A question goes through extraction (operation, expression, variable,
// limits), notation normalization, and then a symbolic Engine. Every
// outcome, including failure, is a Result value:
//
//	res := calcsolve.New().Solve("Differentiate sin(x)*cos(x)")
//	fmt.Println(res) // Derivative of cos(x)*sin(x) w.r.t. x:
//	                 // cos(x)^2 - sin(x)^2
package calcsolve

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/njchilds90/calcsolve/internal/extract"
	"github.com/njchilds90/calcsolve/internal/normalize"
)

// Option configures a Solver.
type Option func(*Solver)

// WithEngine replaces the default gosymbol engine.
func WithEngine(e Engine) Option {
	return func(s *Solver) { s.engine = e }
}

// WithLogger sets the logger. Queries are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// Solver turns questions into Results. It holds no per-call state and is
// safe for concurrent use when its Engine is.
type Solver struct {
	engine Engine
	logger *slog.Logger
}

func New(opts ...Option) *Solver {
	s := &Solver{
		engine: NewSymbolicEngine(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSolver = New()

// Solve answers question with the default solver and formats the result.
func Solve(question string) string {
	return defaultSolver.SolveText(question)
}

// SolveText is Solve followed by Result.String.
func (s *Solver) SolveText(question string) string {
	return s.Solve(question).String()
}

// Solve never panics; an engine panic becomes a ComputeError result.
func (s *Solver) Solve(question string) (res Result) {
	res.Question = question
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("solve panicked", "question", question, "panic", r)
			res.Output = ""
			res.Err = &Error{Kind: ComputeError, Diagnostic: fmt.Sprint(r)}
		}
	}()
	defer func() {
		if res.Err != nil {
			s.logger.Debug("solve failed", "question", question, "kind", res.Err.Kind.String(), "diagnostic", res.Err.Diagnostic)
		}
	}()

	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		res.Err = &Error{Kind: EmptyInput}
		return res
	}
	q = strings.TrimSpace(strings.TrimRight(q, ".?!"))

	query := extract.Extract(normalize.Question(q))
	res.Query = query
	if query.Operation == extract.Unrecognized {
		res.Err = &Error{Kind: UnrecognizedOperation, Fragment: q}
		return res
	}

	expr := normalize.Normalize(query.Expression)
	variable := query.Variable
	if len(variable) == 1 {
		variable = normalize.Normalize(variable)
	}
	if strings.TrimSpace(expr) == "" {
		res.Err = &Error{Kind: EmptyExpression}
		return res
	}

	parsed, err := s.engine.Parse(expr)
	if err != nil {
		res.Err = newError(ExpressionParseError, expr, err)
		return res
	}
	res.Input = s.engine.Display(parsed)
	res.Variable = s.resolveVariable(query.VariableSource, variable, parsed)

	s.logger.Debug("solving",
		"operation", query.Operation.String(),
		"expression", expr,
		"variable", res.Variable,
		"source", string(query.VariableSource),
		"lower", query.Lower,
		"upper", query.Upper,
	)

	switch query.Operation {
	case extract.Integrate:
		s.integrate(&res, parsed, query)
	case extract.Differentiate:
		s.differentiate(&res, parsed)
	case extract.Evaluate:
		s.evaluate(&res, parsed)
	}
	return res
}

// resolveVariable keeps an explicit or differential variable. A defaulted
// x is replaced by the lexicographically smallest free variable when the
// expression does not mention x at all.
func (s *Solver) resolveVariable(source extract.VariableSource, variable string, e Expression) string {
	if source != extract.SourceDefault {
		return variable
	}
	free := s.engine.FreeVariables(e)
	if len(free) == 0 || slices.Contains(free, variable) {
		return variable
	}
	return slices.Min(free)
}

func (s *Solver) integrate(res *Result, e Expression, q extract.Query) {
	if !q.HasBounds() {
		r, err := s.engine.Integrate(e, res.Variable)
		if err != nil {
			res.Err = computeError("integration", err)
			return
		}
		res.Output = s.engine.Display(s.engine.Simplify(r))
		return
	}

	lower, err := s.engine.Parse(normalize.Normalize(q.Lower))
	if err != nil {
		res.Err = newError(BoundParseError, q.Lower, err)
		return
	}
	upper, err := s.engine.Parse(normalize.Normalize(q.Upper))
	if err != nil {
		res.Err = newError(BoundParseError, q.Upper, err)
		return
	}
	r, err := s.engine.IntegrateDefinite(e, res.Variable, lower, upper)
	if err != nil {
		res.Err = computeError("definite integration", err)
		return
	}
	res.Lower = s.engine.Display(lower)
	res.Upper = s.engine.Display(upper)
	res.Output = s.engine.Display(s.engine.Simplify(r))
}

var logEReplacer = strings.NewReplacer("log(E)", "1", "log(exp(1))", "1")

func (s *Solver) differentiate(res *Result, e Expression) {
	r, err := s.engine.Differentiate(e, res.Variable)
	if err != nil {
		res.Err = computeError("differentiation", err)
		return
	}
	res.Output = logEReplacer.Replace(s.engine.Display(s.engine.Simplify(r)))
}

func (s *Solver) evaluate(res *Result, e Expression) {
	v, err := s.engine.EvalNumeric(e)
	if err != nil {
		res.Err = computeError("evaluation", err)
		return
	}
	res.Output = v
}

func computeError(op string, err error) *Error {
	e := newError(ComputeError, "", err)
	e.Operation = op
	return e
}
