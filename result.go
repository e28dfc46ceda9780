package calcsolve

import (
	"fmt"

	"github.com/njchilds90/calcsolve/internal/extract"
)

// Result is the outcome of one Solve call. Exactly one of Output or Err
// is meaningful.
type Result struct {
	Question string        `json:"question"`
	Query    extract.Query `json:"query"`
	Input    string        `json:"input,omitempty"`
	Variable string        `json:"variable,omitempty"`
	Lower    string        `json:"lower,omitempty"`
	Upper    string        `json:"upper,omitempty"`
	Output   string        `json:"output,omitempty"`
	Err      *Error        `json:"error,omitempty"`
}

// OK reports whether the solve succeeded.
func (r Result) OK() bool { return r.Err == nil }

// String formats the result for display.
func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Message()
	}
	switch r.Query.Operation {
	case extract.Integrate:
		if r.Lower != "" {
			return fmt.Sprintf("Definite integral of %s from %s to %s:\n%s", r.Input, r.Lower, r.Upper, r.Output)
		}
		return fmt.Sprintf("Indefinite integral of %s w.r.t. %s:\n%s + C", r.Input, r.Variable, r.Output)
	case extract.Differentiate:
		return fmt.Sprintf("Derivative of %s w.r.t. %s:\n%s", r.Input, r.Variable, r.Output)
	case extract.Evaluate:
		return fmt.Sprintf("Evaluation of %s:\n%s", r.Input, r.Output)
	}
	return r.Output
}
