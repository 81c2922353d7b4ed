// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ISF pass WIDTH/HEIGHT hints are small arithmetic expressions over the
// project dimensions, e.g. "$WIDTH / 2.0" or "floor($HEIGHT*0.25)". They are
// evaluated by a hand-rolled recursive-descent parser over a closed grammar:
//
//	expr    := term  { ("+" | "-") term }
//	term    := unary { ("*" | "/") unary }
//	unary   := "-" unary | primary
//	primary := NUMBER | "$WIDTH" | "$HEIGHT" | "(" expr ")"
//	         | ("floor"|"ceil"|"min"|"max") "(" expr { "," expr } ")"
//
// Anything outside the grammar, unknown identifiers and functions included,
// is rejected with a *DimensionError.

// DimensionError reports a WIDTH/HEIGHT expression that could not be
// evaluated. Callers degrade to the project dimension and surface a Warning.
type DimensionError struct {
	Expr   string
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("convert: cannot evaluate dimension %q: %s", e.Expr, e.Reason)
}

// EvalDimension evaluates a pass dimension expression against the project
// dimensions and truncates the result to an integer.
func EvalDimension(expr string, width, height int) (int, error) {
	p := &dimParser{expr: expr, width: float64(width), height: float64(height)}
	p.next()
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.tok.kind != tokEOF {
		return 0, p.errorf("unexpected %q", p.tok.text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.errorf("result is not finite")
	}
	return int(v), nil
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokNumber
	tokIdent  // function name
	tokDollar // $WIDTH / $HEIGHT
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
	tokInvalid
)

type token struct {
	kind tokKind
	text string
	num  float64
}

type dimParser struct {
	expr   string
	pos    int
	tok    token
	width  float64
	height float64
}

func (p *dimParser) errorf(format string, args ...any) error {
	return &DimensionError{Expr: p.expr, Reason: fmt.Sprintf(format, args...)}
}

// next advances to the following token.
func (p *dimParser) next() {
	for p.pos < len(p.expr) && (p.expr[p.pos] == ' ' || p.expr[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.expr) {
		p.tok = token{kind: tokEOF}
		return
	}

	c := p.expr[p.pos]
	switch {
	case c == '+':
		p.pos++
		p.tok = token{kind: tokPlus, text: "+"}
	case c == '-':
		p.pos++
		p.tok = token{kind: tokMinus, text: "-"}
	case c == '*':
		p.pos++
		p.tok = token{kind: tokStar, text: "*"}
	case c == '/':
		p.pos++
		p.tok = token{kind: tokSlash, text: "/"}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "("}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")"}
	case c == ',':
		p.pos++
		p.tok = token{kind: tokComma, text: ","}
	case c == '$':
		start := p.pos
		p.pos++
		for p.pos < len(p.expr) && isIdentChar(p.expr[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokDollar, text: p.expr[start:p.pos]}
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.expr) && (p.expr[p.pos] >= '0' && p.expr[p.pos] <= '9' || p.expr[p.pos] == '.') {
			p.pos++
		}
		text := p.expr[start:p.pos]
		num, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.tok = token{kind: tokInvalid, text: text}
			return
		}
		p.tok = token{kind: tokNumber, text: text, num: num}
	case isIdentChar(c):
		start := p.pos
		for p.pos < len(p.expr) && isIdentChar(p.expr[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.expr[start:p.pos]}
	default:
		p.tok = token{kind: tokInvalid, text: string(c)}
	}
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func (p *dimParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.tok.kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case tokMinus:
			p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *dimParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.tok.kind {
		case tokStar:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case tokSlash:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, p.errorf("division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (p *dimParser) parseUnary() (float64, error) {
	if p.tok.kind == tokMinus {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePrimary()
}

func (p *dimParser) parsePrimary() (float64, error) {
	switch p.tok.kind {
	case tokNumber:
		v := p.tok.num
		p.next()
		return v, nil

	case tokDollar:
		var v float64
		switch p.tok.text {
		case "$WIDTH":
			v = p.width
		case "$HEIGHT":
			v = p.height
		default:
			return 0, p.errorf("unknown variable %q", p.tok.text)
		}
		p.next()
		return v, nil

	case tokLParen:
		p.next()
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.tok.kind != tokRParen {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.next()
		return v, nil

	case tokIdent:
		name := p.tok.text
		p.next()
		return p.parseCall(name)

	case tokEOF:
		return 0, p.errorf("unexpected end of expression")

	default:
		return 0, p.errorf("unexpected %q", p.tok.text)
	}
}

// parseCall evaluates one of the four allowed functions. min and max accept
// two or more arguments; floor and ceil exactly one.
func (p *dimParser) parseCall(name string) (float64, error) {
	if p.tok.kind != tokLParen {
		return 0, p.errorf("unknown identifier %q", name)
	}
	p.next()

	var args []float64
	for {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		args = append(args, v)
		if p.tok.kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.tok.kind != tokRParen {
		return 0, p.errorf("missing closing parenthesis in %s()", name)
	}
	p.next()

	switch name {
	case "floor":
		if len(args) != 1 {
			return 0, p.errorf("floor() takes one argument")
		}
		return math.Floor(args[0]), nil
	case "ceil":
		if len(args) != 1 {
			return 0, p.errorf("ceil() takes one argument")
		}
		return math.Ceil(args[0]), nil
	case "min":
		if len(args) < 2 {
			return 0, p.errorf("min() takes at least two arguments")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}
		return v, nil
	case "max":
		if len(args) < 2 {
			return 0, p.errorf("max() takes at least two arguments")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}
		return v, nil
	default:
		return 0, p.errorf("unknown function %q", name)
	}
}

// normalizeDimension trims a raw WIDTH/HEIGHT hint; the parser handles the
// rest.
func normalizeDimension(expr string) string {
	return strings.TrimSpace(expr)
}
