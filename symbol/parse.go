package symbol

import (
	"errors"
	"fmt"
	"math/big"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Parsing
// ============================================================

var ErrParse = errors.New("symbol: parse error")

// ParseError locates a syntax error in the parsed input.
type ParseError struct {
	Input   string
	Pos     int // byte offset into Input
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("symbol: parse error at offset %d in %q: %s", e.Pos, e.Input, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// functionNames maps every accepted spelling to its canonical name.
var functionNames = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"asin": "asin", "acos": "acos", "atan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"exp": "exp", "log": "log", "ln": "log",
	"sqrt": "sqrt", "abs": "abs", "Abs": "abs",
}

var constants = map[string]*Const{"pi": Pi, "E": E}

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret // ^ or **
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	typ   tokenType
	value string
	pos   int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) {
		r, w := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += w
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return token{typ: tokEOF, pos: start}, nil
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case r == '+':
		l.pos += w
		return token{tokPlus, "+", start}, nil
	case r == '-':
		l.pos += w
		return token{tokMinus, "-", start}, nil
	case r == '*':
		l.pos += w
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{tokCaret, "**", start}, nil
		}
		return token{tokStar, "*", start}, nil
	case r == '/':
		l.pos += w
		return token{tokSlash, "/", start}, nil
	case r == '^':
		l.pos += w
		return token{tokCaret, "^", start}, nil
	case r == '(':
		l.pos += w
		return token{tokLParen, "(", start}, nil
	case r == ')':
		l.pos += w
		return token{tokRParen, ")", start}, nil
	case r == ',':
		l.pos += w
		return token{tokComma, ",", start}, nil
	case isDigit(r) || r == '.':
		return l.readNumber()
	case isIdentStart(r):
		for l.pos < len(l.input) {
			r, w := utf8.DecodeRuneInString(l.input[l.pos:])
			if !isIdentPart(r) {
				break
			}
			l.pos += w
		}
		return token{tokIdent, l.input[start:l.pos], start}, nil
	}
	return token{}, &ParseError{Input: l.input, Pos: start, Message: fmt.Sprintf("unexpected character %q", r)}
}

func (l *lexer) readNumber() (token, error) {
	start := l.pos
	digits := 0
	for l.pos < len(l.input) && isDigit(rune(l.input[l.pos])) {
		l.pos++
		digits++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(rune(l.input[l.pos])) {
			l.pos++
			digits++
		}
	}
	if digits == 0 {
		return token{}, &ParseError{Input: l.input, Pos: start, Message: "malformed number"}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		expDigits := 0
		for l.pos < len(l.input) && isDigit(rune(l.input[l.pos])) {
			l.pos++
			expDigits++
		}
		if expDigits == 0 {
			// "2E" is a number followed by the identifier E.
			l.pos = mark
		}
	}
	return token{tokNumber, l.input[start:l.pos], start}, nil
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// IsIdentifier reports whether name is usable as a symbol name.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// Parse converts a formula such as "k * (1 + cos(n*phi - phi_eq))**2" into
// a simplified expression. Both ** and ^ denote exponentiation; pi and E
// are constants; every other identifier becomes a symbol.
func Parse(input string) (Expr, error) {
	p := &parser{lex: &lexer{input: input}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.typ == tokEOF {
		return nil, p.errorf("empty expression")
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.typ != tokEOF {
		return nil, p.errorf("unexpected %q", p.cur.value)
	}
	return e.Simplify(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Input: p.lex.input, Pos: p.cur.pos, Message: fmt.Sprintf(format, args...)}
}

// sum := product (('+' | '-') product)*
func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.cur.typ == tokPlus || p.cur.typ == tokMinus {
		negate := p.cur.typ == tokMinus
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if negate {
			right = MulOf(N(-1), right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return AddOf(terms...), nil
}

// product := unary (('*' | '/') unary)*
func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for p.cur.typ == tokStar || p.cur.typ == tokSlash {
		divide := p.cur.typ == tokSlash
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if divide {
			if n, ok := right.(*Num); ok && n.IsZero() {
				return nil, p.errorf("division by zero")
			}
			right = PowOf(right, N(-1))
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return left, nil
	}
	return MulOf(factors...), nil
}

// unary := ('-' | '+') unary | power
func (p *parser) parseUnary() (Expr, error) {
	switch p.cur.typ {
	case tokMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), operand), nil
	case tokPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePower()
}

// power := primary ('^' unary)?   right associative through unary
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.typ != tokCaret {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok := exp.(*Num); ok && en.IsNegative() {
			return nil, p.errorf("division by zero")
		}
	}
	return PowOf(base, exp), nil
}

// primary := number | identifier | identifier '(' sum ')' | '(' sum ')'
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur
	switch tok.typ {
	case tokNumber:
		literal := tok.value
		if literal[0] == '.' {
			literal = "0" + literal
		}
		r, ok := new(big.Rat).SetString(literal)
		if !ok {
			return nil, p.errorf("malformed number %q", tok.value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NRat(r), nil

	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.typ == tokLParen {
			return p.parseCall(tok)
		}
		if c, ok := constants[tok.value]; ok {
			return c, nil
		}
		return S(tok.value), nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.typ != tokRParen {
			return nil, p.errorf("expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", tok.value)
}

func (p *parser) parseCall(name token) (Expr, error) {
	if _, ok := functionNames[name.value]; !ok {
		return nil, &ParseError{Input: p.lex.input, Pos: name.pos, Message: fmt.Sprintf("unknown function %q", name.value)}
	}
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.typ == tokComma {
		return nil, p.errorf("function %s takes exactly one argument", name.value)
	}
	if p.cur.typ != tokRParen {
		return nil, p.errorf("expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return FuncOf(name.value, arg)
}
