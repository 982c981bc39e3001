package formula

import (
	"strconv"
)

// parser evaluates a gated arithmetic expression by recursive descent:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	src     string
	formula string
	pos     int
	depth   int
}

// maxDepth bounds parenthesis and unary nesting.
const maxDepth = 256

func evaluate(expr, formula string) (float64, error) {
	p := &parser{src: expr, formula: formula}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, newError(ErrSyntax, formula, "empty expression")
	}
	v, err := p.parseAddition()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, newError(ErrSyntax, formula, "unexpected %q at offset %d", p.src[p.pos], p.pos)
	}
	return v, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseAddition handles addition and subtraction
func (p *parser) parseAddition() (float64, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// parseMultiplication handles multiplication and division
func (p *parser) parseMultiplication() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		at := p.pos
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
			continue
		}
		if right == 0 {
			return 0, newError(ErrDivisionByZero, p.formula, "divisor at offset %d is zero", at+1)
		}
		left /= right
	}
}

func (p *parser) parseUnary() (float64, error) {
	op := p.peek()
	if op != '+' && op != '-' {
		return p.parsePrimary()
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, newError(ErrSyntax, p.formula, "expression nested too deeply")
	}
	p.pos++
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if op == '-' {
		return -v, nil
	}
	return v, nil
}

func (p *parser) parsePrimary() (float64, error) {
	c := p.peek()
	switch {
	case c == 0:
		return 0, newError(ErrSyntax, p.formula, "unexpected end of expression")
	case c == '(':
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > maxDepth {
			return 0, newError(ErrSyntax, p.formula, "expression nested too deeply")
		}
		p.pos++
		v, err := p.parseAddition()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, newError(ErrSyntax, p.formula, "missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return 0, newError(ErrSyntax, p.formula, "unexpected %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	dots := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	tok := p.src[start:p.pos]
	if dots > 1 || tok == "." {
		return 0, newError(ErrSyntax, p.formula, "invalid number %q", tok)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, newError(ErrSyntax, p.formula, "invalid number %q", tok)
	}
	return v, nil
}
