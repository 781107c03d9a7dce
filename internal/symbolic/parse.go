// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import (
	"fmt"
	"math/big"
	"unicode"
)

// Variable is the only free symbol accepted by the parser.
const Variable = "n"

const maxExponent = 256

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

func tokenize(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
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
			toks = append(toks, token{kind: tokNum, text: string(runes[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(runes)}), nil
}

type exprParser struct {
	toks []token
	pos  int
}

// Parse parses an expression such as "2*n + 1", "n**2*(n+1)" or "(n-1)/2".
// Implicit multiplication ("2n", "(n+1)(n+2)") and "^" for powers are accepted.
func Parse(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
	return e, nil
}

// ParseRational parses src and reduces it to a quotient of polynomials.
func ParseRational(src string) (Rational, error) {
	e, err := Parse(src)
	if err != nil {
		return Rational{}, err
	}
	r, err := e.Rational()
	if err != nil {
		return Rational{}, fmt.Errorf("%q: %w", src, err)
	}
	return r, nil
}

// ParsePoly parses src and reduces it to a polynomial.
func ParsePoly(src string) (Poly, error) {
	r, err := ParseRational(src)
	if err != nil {
		return Poly{}, err
	}
	p, err := r.Poly()
	if err != nil {
		return Poly{}, fmt.Errorf("%q: %w", src, err)
	}
	return p, nil
}

// Normalize returns the canonical expanded form of a polynomial expression,
// so "n*(n+2)+1" and "(n+1)**2" both become "n**2 + 2*n + 1".
func Normalize(src string) (string, error) {
	p, err := ParsePoly(src)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func (p *exprParser) peek() token { return p.toks[p.pos] }

func (p *exprParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *exprParser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text[0]
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*", "/"):
			op := p.next().text[0]
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = binaryExpr{op: op, l: left, r: right}
		case p.startsAtom():
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = binaryExpr{op: '*', l: left, r: right}
		default:
			return left, nil
		}
	}
}

func (p *exprParser) startsAtom() bool {
	switch p.peek().kind {
	case tokNum, tokIdent, tokLParen:
		return true
	}
	return false
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.isOp("-") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negExpr{x: x}, nil
	}
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**", "^") {
		return base, nil
	}
	p.next()
	expExpr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	k, err := integerConstant(expExpr)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return binaryExpr{op: '/', l: constExpr{v: big.NewRat(1, 1)}, r: powExpr{base: base, exp: -k}}, nil
	}
	return powExpr{base: base, exp: k}, nil
}

func integerConstant(e Expr) (int, error) {
	r, err := e.Rational()
	if err != nil || !r.IsPoly() || !r.Num.IsConst() {
		return 0, fmt.Errorf("%w: %s", ErrBadExponent, e)
	}
	v := r.Num.ConstValue()
	if !v.IsInt() || !v.Num().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrBadExponent, e)
	}
	k := v.Num().Int64()
	if k > maxExponent || k < -maxExponent {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrBadExponent, k, maxExponent)
	}
	return int(k), nil
}

func (p *exprParser) parseAtom() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		v, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		return constExpr{v: v}, nil
	case tokIdent:
		if t.text != Variable {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, t.text)
		}
		return varExpr{}, nil
	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing ')' at offset %d", ErrSyntax, closing.pos)
		}
		return e, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
}
