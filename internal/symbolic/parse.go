package symbolic

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode"
)

// ErrParse is returned (wrapped) for any text Parse cannot turn into a tree.
var ErrParse = errors.New("parse error")

// Grammar, lowest precedence first:
//
//	sum     := product (('+' | '-') product)*
//	product := unary (('*' | '/') unary | implicit unary)*
//	unary   := ('+' | '-') unary | power
//	power   := atom (('^' | '**') unary)?
//	atom    := number | name | name '(' sum ')' | '(' sum ')'
//
// Implicit multiplication applies when a number, name or '(' follows an
// operand: 5x, 2(x+1), (x+1)(x-1).

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var functions = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
}

func tokenize(text string) ([]token, error) {
	var tokens []token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokName, text: string(runes[start:i]), pos: start})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			tokens = append(tokens, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", r):
			tokens = append(tokens, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrParse, r, i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(runes)})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

// Parse turns text into an expression tree. Constructors simplify as the
// tree is built, so the result is already in local canonical form but not
// expanded.
func Parse(text string) (Expr, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrParse, tok.text, tok.pos)
	}
	return e, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }
func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) sum() (Expr, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
}

func (p *parser) product() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokOp && (tok.text == "*" || tok.text == "/"):
			p.next()
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			if tok.text == "/" {
				right = PowOf(right, N(-1))
			}
			left = MulOf(left, right)
		case tok.kind == tokNumber || tok.kind == tokName || tok.kind == tokLParen:
			right, err := p.power()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (Expr, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind == tokOp && tok.text == "^" {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) atom() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok || strings.Count(tok.text, ".") > 1 {
			return nil, fmt.Errorf("%w: bad number %q at %d", ErrParse, tok.text, tok.pos)
		}
		return &Num{val: r}, nil
	case tokName:
		if fn, ok := functions[strings.ToLower(tok.text)]; ok && p.peek().kind == tokLParen {
			p.next()
			arg, err := p.sum()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return fn(arg), nil
		}
		switch tok.text {
		case "pi":
			return NFloat(math.Pi), nil
		case "e":
			return NFloat(math.E), nil
		}
		return S(tok.text), nil
	case tokLParen:
		inner, err := p.sum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return nil, fmt.Errorf("%w: unexpected %q at %d", ErrParse, tok.text, tok.pos)
}

func (p *parser) expect(kind tokenKind) error {
	tok := p.next()
	if tok.kind != kind {
		if tok.kind == tokEOF {
			return fmt.Errorf("%w: missing ')'", ErrParse)
		}
		return fmt.Errorf("%w: unexpected %q at %d", ErrParse, tok.text, tok.pos)
	}
	return nil
}
