package calcsolve

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. A *Error matches its kind's
// sentinel under errors.Is.
var (
	ErrEmptyInput            = errors.New("empty input")
	ErrUnrecognizedOperation = errors.New("unrecognized operation")
	ErrEmptyExpression       = errors.New("empty expression")
	ErrExpressionParse       = errors.New("expression parse failed")
	ErrBoundParse            = errors.New("bound parse failed")
	ErrCompute               = errors.New("computation failed")
)

// ErrorKind classifies a failed solve.
type ErrorKind int

const (
	EmptyInput ErrorKind = iota + 1
	UnrecognizedOperation
	EmptyExpression
	ExpressionParseError
	BoundParseError
	ComputeError
)

var kindNames = map[ErrorKind]string{
	EmptyInput:            "empty_input",
	UnrecognizedOperation: "unrecognized_operation",
	EmptyExpression:       "empty_expression",
	ExpressionParseError:  "expression_parse_error",
	BoundParseError:       "bound_parse_error",
	ComputeError:          "compute_error",
}

var kindSentinels = map[ErrorKind]error{
	EmptyInput:            ErrEmptyInput,
	UnrecognizedOperation: ErrUnrecognizedOperation,
	EmptyExpression:       ErrEmptyExpression,
	ExpressionParseError:  ErrExpressionParse,
	BoundParseError:       ErrBoundParse,
	ComputeError:          ErrCompute,
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ErrorKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// Error is the structured failure of a solve. Fragment is the offending
// text, if any; Diagnostic is the engine's message.
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Operation  string    `json:"operation,omitempty"`
	Fragment   string    `json:"fragment,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Err        error     `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Fragment != "" && e.Diagnostic != "":
		return fmt.Sprintf("%s: %q: %s", e.Kind, e.Fragment, e.Diagnostic)
	case e.Diagnostic != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Diagnostic)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

const validExpressionHint = "Please enter a valid calculus expression, e.g. 'Integrate x^2 dx'."

// Message renders the user-facing text for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case EmptyInput:
		return "Please enter a question."
	case UnrecognizedOperation:
		return validExpressionHint + " Supported operations: integrate, differentiate, evaluate"
	case EmptyExpression:
		return validExpressionHint
	case ExpressionParseError:
		return fmt.Sprintf("Could not parse the expression: '%s'. Error: %s", e.Fragment, e.Diagnostic)
	case BoundParseError:
		return fmt.Sprintf("Error during definite integration: could not parse bound '%s': %s", e.Fragment, e.Diagnostic)
	case ComputeError:
		if e.Operation != "" {
			return fmt.Sprintf("Error during %s: %s", e.Operation, e.Diagnostic)
		}
		return "Error: " + e.Diagnostic
	}
	return e.Error()
}

func newError(kind ErrorKind, fragment string, err error) *Error {
	e := &Error{Kind: kind, Fragment: fragment, Err: err}
	if err != nil {
		e.Diagnostic = err.Error()
	}
	return e
}
