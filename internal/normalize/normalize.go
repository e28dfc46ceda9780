// Package normalize rewrites informal calculus notation into the syntax the
// expression parser accepts.
//
// Rewriting is a single fold over an ordered list of rules. Order matters:
// implicit multiplication runs before implicit exponents so that "7x2"
// becomes "7*x^2", and function bracing runs after both because function
// arguments may contain their output. ln and e^ aliases run last so the
// bracing rule sees the names the user typed.
package normalize

import (
	"regexp"
	"strings"
)

// Rule is one named rewrite step.
type Rule struct {
	Name    string
	Rewrite func(string) string
}

// bracedFunctions are the names whose bare arguments get parenthesized.
var bracedFunctions = []string{
	"sin", "cos", "tan", "log", "exp", "sqrt",
	"sec", "csc", "cot", "asin", "acos", "atan", "ln",
}

var (
	digitLetter = regexp.MustCompile(`(\d)([a-zA-Z])`)
	wrtAlias    = regexp.MustCompile(`(?i)\bwrt\b`)
	lnAlias     = regexp.MustCompile(`\bln\b`)
	expAlias    = regexp.MustCompile(`\be\^`)
	findDeriv   = regexp.MustCompile(`(?i)find\s+(\w+)\s+if\s+d(\w+)\s*=\s*d(\w+)`)
)

var ordered = []Rule{
	{Name: "implicit-multiplication", Rewrite: func(s string) string {
		return digitLetter.ReplaceAllString(s, "$1*$2")
	}},
	{Name: "implicit-exponent", Rewrite: implicitExponent},
	{Name: "wrt-alias", Rewrite: aliasWRT},
	{Name: "function-bracing", Rewrite: braceFunctions},
	{Name: "ln-alias", Rewrite: func(s string) string {
		return lnAlias.ReplaceAllString(s, "log")
	}},
	{Name: "exp-alias", Rewrite: func(s string) string {
		return expAlias.ReplaceAllString(s, "exp")
	}},
}

// Rules returns a copy of the default rule list in application order.
func Rules() []Rule {
	return append([]Rule(nil), ordered...)
}

// Apply folds fragment through rules, each seeing the previous output.
func Apply(fragment string, rules ...Rule) string {
	for _, r := range rules {
		fragment = r.Rewrite(fragment)
	}
	return fragment
}

// Normalize applies the default rules. It never fails; a fragment no rule
// matches comes back unchanged.
func Normalize(fragment string) string {
	return Apply(fragment, ordered...)
}

// Question rewrites whole-question phrasings ahead of extraction: the wrt
// alias, and "find y if dy = dx" into "differentiate y with respect to x".
func Question(q string) string {
	q = aliasWRT(q)
	return findDeriv.ReplaceAllStringFunc(q, func(m string) string {
		sub := findDeriv.FindStringSubmatch(m)
		if sub[1] != sub[2] {
			return m
		}
		return "differentiate " + sub[1] + " with respect to " + sub[3]
	})
}

func aliasWRT(s string) string {
	return wrtAlias.ReplaceAllString(s, "with respect to")
}

// implicitExponent turns a letter followed by a digit run into letter^digits,
// unless the run is already followed by '*'.
func implicitExponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	i := 0
	for i < len(s) {
		c := s[i]
		sb.WriteByte(c)
		i++
		if !isLetter(c) || i >= len(s) || !isDigit(s[i]) {
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j >= len(s) || s[j] != '*' {
			sb.WriteByte('^')
		}
		sb.WriteString(s[i:j])
		i = j
	}
	return sb.String()
}

func braceFunctions(s string) string {
	for _, name := range bracedFunctions {
		s = braceFunction(s, name)
	}
	return s
}

// braceFunction wraps the bare argument run after each whole-word
// occurrence of name: "sin x" becomes "sin(x)". A name whose next
// non-space character is '(' is left alone.
func braceFunction(s, name string) string {
	var sb strings.Builder
	i := 0
	for {
		k := strings.Index(s[i:], name)
		if k < 0 {
			sb.WriteString(s[i:])
			return sb.String()
		}
		start := i + k
		end := start + len(name)
		if (start > 0 && isWord(s[start-1])) || end >= len(s) || !isSpace(s[end]) {
			sb.WriteString(s[i:end])
			i = end
			continue
		}
		j := end
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		argEnd := j
		for argEnd < len(s) && isArg(s[argEnd]) {
			argEnd++
		}
		arg := strings.TrimRight(s[j:argEnd], " ")
		if arg == "" {
			sb.WriteString(s[i:j])
			i = j
			continue
		}
		sb.WriteString(s[i:start])
		sb.WriteString(name)
		sb.WriteByte('(')
		sb.WriteString(arg)
		sb.WriteByte(')')
		i = j + len(arg)
	}
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isWord(c byte) bool   { return isLetter(c) || isDigit(c) || c == '_' }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isArg(c byte) bool {
	return isWord(c) || c == ' ' || strings.IndexByte(".^*/+-", c) >= 0
}
