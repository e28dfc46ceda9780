// Package extract pulls the operation, expression, variable and integration
// limits out of a free-form calculus question.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Operation is the calculus operation a question asks for.
type Operation int

const (
	Unrecognized Operation = iota
	Integrate
	Differentiate
	Evaluate
)

func (o Operation) String() string {
	switch o {
	case Integrate:
		return "integrate"
	case Differentiate:
		return "differentiate"
	case Evaluate:
		return "evaluate"
	}
	return "unrecognized"
}

func (o Operation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Operation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "integrate":
		*o = Integrate
	case "differentiate":
		*o = Differentiate
	case "evaluate":
		*o = Evaluate
	case "unrecognized":
		*o = Unrecognized
	default:
		return fmt.Errorf("unknown operation %q", text)
	}
	return nil
}

// VariableSource records how the variable of a query was found.
type VariableSource string

const (
	SourceExplicit     VariableSource = "explicit"
	SourceDifferential VariableSource = "differential"
	SourceDefault      VariableSource = "default"
)

// DefaultVariable is used when a question names no variable.
const DefaultVariable = "x"

// Query is the raw, not yet normalized, result of extraction.
type Query struct {
	Operation      Operation      `json:"operation"`
	Keyword        string         `json:"keyword,omitempty"`
	Expression     string         `json:"expression"`
	Variable       string         `json:"variable"`
	VariableSource VariableSource `json:"variable_source"`
	Lower          string         `json:"lower,omitempty"`
	Upper          string         `json:"upper,omitempty"`
}

// HasBounds reports whether both integration limits were found.
func (q Query) HasBounds() bool { return q.Lower != "" && q.Upper != "" }

var operations = map[string]Operation{
	"integrate":     Integrate,
	"differentiate": Differentiate,
	"derive":        Differentiate,
	"derivative":    Differentiate,
	"evaluate":      Evaluate,
	"calculate":     Evaluate,
	"solve":         Evaluate,
}

var (
	keywordPattern       = regexp.MustCompile(`(?i)\b(integrate|differentiate|derive|derivative|evaluate|calculate|solve)\b`)
	keywordStrip         = regexp.MustCompile(`(?i)\b(?:integrate|differentiate|derive|derivative|evaluate|calculate|solve)\b\s*`)
	mathPattern          = regexp.MustCompile(`(?i)[+\-*/^()]|\b(?:sin|cos|tan|exp|log|ln|sqrt|sec|csc|cot|asin|acos|atan)\b`)
	variablePattern      = regexp.MustCompile(`(?i)(?:with respect to|\bwrt)\s+([a-zA-Z])`)
	variableStrip        = regexp.MustCompile(`(?i)(?:with respect to|\bwrt)\s+[a-zA-Z]\w*`)
	boundsPattern        = regexp.MustCompile(`(?i)from\s+([-+.\w]+)\s+to\s+([-+.\w]+)`)
	differentialPattern  = regexp.MustCompile(`(?:^|[^a-zA-Z])d([a-zA-Z])\b`)
	trailingDifferential = regexp.MustCompile(`(^|[^a-zA-Z])d[a-zA-Z]\s*$`)
)

// Extract scans question for an operation keyword, a "with respect to"
// variable, "from a to b" limits and a d<letter> differential, then strips
// those phrases to leave the expression. Every search reads the original
// question. A question with no keyword and nothing that looks like
// arithmetic yields an Unrecognized query with an empty expression.
func Extract(question string) Query {
	q := strings.TrimSpace(question)

	query := Query{Operation: Unrecognized}
	if m := keywordPattern.FindStringSubmatch(q); m != nil {
		query.Keyword = strings.ToLower(m[1])
		query.Operation = operations[query.Keyword]
	} else if mathPattern.MatchString(q) {
		query.Operation = Evaluate
	}
	if query.Operation == Unrecognized {
		query.Variable, query.VariableSource = DefaultVariable, SourceDefault
		return query
	}

	if m := variablePattern.FindStringSubmatch(q); m != nil {
		query.Variable, query.VariableSource = m[1], SourceExplicit
	}
	if m := boundsPattern.FindStringSubmatch(q); m != nil {
		query.Lower, query.Upper = m[1], m[2]
	}
	if query.Variable == "" {
		if m := differentialPattern.FindStringSubmatch(q); m != nil {
			query.Variable, query.VariableSource = m[1], SourceDifferential
		}
	}
	if query.Variable == "" {
		query.Variable, query.VariableSource = DefaultVariable, SourceDefault
	}

	query.Expression = residual(q)
	return query
}

// residual removes the keyword, variable phrase and limits, then a trailing
// differential. Limits go before the differential so "x^2 dx from 0 to 5"
// leaves "x^2".
func residual(q string) string {
	s := keywordStrip.ReplaceAllString(q, "")
	s = variableStrip.ReplaceAllString(s, "")
	s = boundsPattern.ReplaceAllString(s, "")
	s = strings.TrimRight(s, " \t")
	s = trailingDifferential.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}
