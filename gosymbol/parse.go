package gosymbol

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Parser
// ============================================================

// ParseError describes why expression text was rejected. Pos is a byte
// offset into Text.
type ParseError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// builders maps accepted function names to their constructors. ln and the
// reciprocal trig functions are rewritten into the core set.
var builders = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
	"exp":  ExpOf,
	"log":  LogOf,
	"ln":   LogOf,
	"abs":  AbsOf,
	"sqrt": SqrtOf,
	"sec":  func(a Expr) Expr { return PowOf(CosOf(a), N(-1)) },
	"csc":  func(a Expr) Expr { return PowOf(SinOf(a), N(-1)) },
	"cot":  func(a Expr) Expr { return PowOf(TanOf(a), N(-1)) },
}

// IsFunction reports whether name is a function the parser accepts.
func IsFunction(name string) bool {
	_, ok := builders[name]
	return ok
}

// Parse turns text into a simplified expression.
//
// Grammar:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | name "(" sum ")" | constant | letter | "(" sum ")"
//
// Identifiers are single-letter symbols, the constants pi and e, or
// function names; anything else is an error.
func Parse(text string) (Expr, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{text: text, toks: toks}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok.pos, "unexpected %q", tok.text)
	}
	return e.Simplify(), nil
}

func tokenize(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(c):
			i += size
		case c >= '0' && c <= '9' || c == '.':
			start := i
			dots := 0
			for i < len(text) && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
				if text[i] == '.' {
					dots++
				}
				i++
			}
			lit := text[start:i]
			if dots > 1 || lit == "." {
				return nil, &ParseError{Text: text, Pos: start, Msg: fmt.Sprintf("malformed number %q", lit)}
			}
			toks = append(toks, token{kind: tokNum, text: lit, pos: start})
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(text) {
				r, n := utf8.DecodeRuneInString(text[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += n
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], pos: start})
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &ParseError{Text: text, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

type parser struct {
	text string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(ops ...string) bool {
	tok := p.peek()
	if tok.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}
	return false
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Text: p.text, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = MulOf(N(-1), right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return AddOf(terms...), nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for p.isOp("*", "/") {
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.text == "/" {
			right = PowOf(right, N(-1))
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return left, nil
	}
	return MulOf(factors...), nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-", "+") {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, p.errorf(tok.pos, "malformed number %q", tok.text)
		}
		return &Num{val: r, inexact: strings.Contains(tok.text, ".")}, nil
	case tokIdent:
		return p.parseIdent(tok)
	case tokLParen:
		inner, err := p.parseGroup(tok)
		if err != nil {
			return nil, err
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(tok.pos, "unexpected end of expression")
	}
	return nil, p.errorf(tok.pos, "unexpected %q", tok.text)
}

func (p *parser) parseGroup(open token) (Expr, error) {
	inner, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRParen {
		return nil, p.errorf(open.pos, "missing closing parenthesis")
	}
	p.next()
	return inner, nil
}

func (p *parser) parseIdent(tok token) (Expr, error) {
	name := tok.text
	if build, ok := builders[name]; ok {
		open := p.peek()
		if open.kind != tokLParen {
			return nil, p.errorf(tok.pos, "function %s needs a parenthesized argument", name)
		}
		p.next()
		arg, err := p.parseGroup(open)
		if err != nil {
			return nil, err
		}
		return build(arg), nil
	}
	switch {
	case name == "pi":
		return Pi, nil
	case name == "e":
		return E, nil
	case len(name) == 1 && name != "_":
		return S(name), nil
	}
	return nil, p.errorf(tok.pos, "unknown identifier %q", name)
}
