package tagexpr

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed textual tag expression.
type SyntaxError struct {
	Expr    string
	Token   string // offending token, empty at end of input
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("tag expression %q: %s at end of input", e.Expr, e.Message)
	}
	return fmt.Sprintf("tag expression %q: %s near %q", e.Expr, e.Message, e.Token)
}

// Parse reads the textual form of an expression:
//
//	expr := term { ("and" | "or") ["not"] term }
//	term := ["not"] tag | "(" expr ")"
//
// Operators are left-associative with no precedence. A term that is a bare
// tag uses the tag-leaf combinators; a parenthesised term uses the
// expression combinators. "and not" before a group is rejected because
// AndNotExpr does not negate its right side. Tags may be written with or
// without "@".
// An empty or blank string yields a nil Expr.
func Parse(text string) (*Expr, error) {
	spaced := strings.NewReplacer("(", " ( ", ")", " ) ").Replace(text)
	p := &exprParser{text: text, tokens: strings.Fields(spaced)}
	if len(p.tokens) == 0 {
		return nil, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.errorf(tok, "unexpected token")
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

type exprParser struct {
	text   string
	tokens []string
	pos    int
}

func (p *exprParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *exprParser) accept(word string) bool {
	if tok, ok := p.peek(); ok && strings.EqualFold(tok, word) {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) errorf(tok, format string, args ...any) error {
	return &SyntaxError{Expr: p.text, Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (p *exprParser) expr() (*Expr, error) {
	left, err := p.first()
	if err != nil {
		return nil, err
	}
	for {
		var and bool
		switch {
		case p.accept("and"):
			and = true
		case p.accept("or"):
		default:
			return left, nil
		}
		negate := p.accept("not")

		if tok, _ := p.peek(); tok == "(" {
			if and && negate {
				return nil, p.errorf(tok, `"and not" cannot be followed by a group`)
			}
			right, err := p.group()
			if err != nil {
				return nil, err
			}
			left = combineExpr(left, right, and, negate)
			continue
		}
		tag, err := p.tag()
		if err != nil {
			return nil, err
		}
		left = combineTag(left, tag, and, negate)
	}
}

func (p *exprParser) first() (*Expr, error) {
	if tok, _ := p.peek(); tok == "(" {
		return p.group()
	}
	if p.accept("not") {
		tag, err := p.tag()
		if err != nil {
			return nil, err
		}
		return Not(tag), nil
	}
	tag, err := p.tag()
	if err != nil {
		return nil, err
	}
	return Tag(tag), nil
}

func (p *exprParser) group() (*Expr, error) {
	p.next() // "("
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	tok, ok := p.next()
	if !ok {
		return nil, p.errorf("", "missing )")
	}
	if tok != ")" {
		return nil, p.errorf(tok, "expected )")
	}
	return e, nil
}

func (p *exprParser) tag() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", p.errorf("", "expected a tag")
	}
	if tok == "(" || tok == ")" || isOperator(tok) {
		return "", p.errorf(tok, "expected a tag")
	}
	name := strings.TrimPrefix(tok, "@")
	if name == "" {
		return "", p.errorf(tok, "empty tag")
	}
	return name, nil
}

func isOperator(tok string) bool {
	return strings.EqualFold(tok, "and") || strings.EqualFold(tok, "or") || strings.EqualFold(tok, "not")
}

func combineTag(left *Expr, tag string, and, negate bool) *Expr {
	switch {
	case and && negate:
		return left.AndNot(tag)
	case and:
		return left.And(tag)
	case negate:
		return left.OrNot(tag)
	}
	return left.Or(tag)
}

func combineExpr(left, right *Expr, and, negate bool) *Expr {
	switch {
	case and:
		return left.AndExpr(right)
	case negate:
		return left.OrNotExpr(right)
	}
	return left.OrExpr(right)
}
