package solver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	safeArithmetic = regexp.MustCompile(`^[0-9+\-*/%().\s^]+$`)
	safeFlat       = regexp.MustCompile(`^[0-9+\-*/%().\s]+$`)
)

// Validate reports whether expr uses only digits, + - * / % ( ) . ^ and
// whitespace.
func Validate(expr string) bool { return safeArithmetic.MatchString(expr) }

// EvaluateFlat evaluates a numeric expression over + - * / % and ** (or ^).
// Division by zero yields ±Inf or NaN as the value. Input that is not
// well-formed arithmetic fails with ErrEval.
//
//	expr   := term (('+'|'-') term)*
//	term   := unary (('*'|'/'|'%') unary)*
//	unary  := ('+'|'-') unary | power
//	power  := atom (('**'|'^') unary)?
//	atom   := number | '(' expr ')'
func EvaluateFlat(expr string) (float64, error) {
	expr = strings.ReplaceAll(expr, "^", "**")
	if !safeFlat.MatchString(strings.ReplaceAll(expr, "**", "*")) {
		return 0, fmt.Errorf("%w: unsafe expression %q", ErrEval, expr)
	}
	p := &flatParser{src: expr}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.peek() != 0 {
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	return v, nil
}

type flatParser struct {
	src string
	pos int
}

func (p *flatParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d", ErrEval, fmt.Sprintf(format, args...), p.pos)
}

// peek skips whitespace and returns the next byte, or 0 at the end.
func (p *flatParser) peek() byte {
	for p.pos < len(p.src) && strings.IndexByte(" \t\n\r\f\v", p.src[p.pos]) >= 0 {
		p.pos++
	}
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *flatParser) atPow() bool {
	p.peek()
	return strings.HasPrefix(p.src[p.pos:], "**")
}

func (p *flatParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch op := p.peek(); op {
		case '+', '-':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			if op == '+' {
				left += right
			} else {
				left -= right
			}
		default:
			return left, nil
		}
	}
}

func (p *flatParser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if (op != '*' && op != '/' && op != '%') || p.atPow() {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			left *= right
		case '/':
			left /= right
		case '%':
			left = math.Mod(left, right)
		}
	}
}

func (p *flatParser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.power()
}

func (p *flatParser) power() (float64, error) {
	base, err := p.atom()
	if err != nil {
		return 0, err
	}
	if p.atPow() {
		p.pos += 2
		exp, err := p.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *flatParser) atom() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing ')'")
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, p.errorf("bad number %q", p.src[start:p.pos])
		}
		return v, nil
	case c == 0:
		return 0, p.errorf("unexpected end of expression")
	default:
		return 0, p.errorf("unexpected %q", c)
	}
}
