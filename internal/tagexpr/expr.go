// Package tagexpr selects Examples by their tags.
//
// An Expr is built from a leaf, Tag or Not, and extended to the right with
// combinators. The tag-leaf combinators (And, Or, AndNot, OrNot) keep track
// of why a tag set failed so far; the expression combinators (AndExpr,
// OrExpr, AndNotExpr, OrNotExpr) only look at whether each side succeeded.
package tagexpr

import (
	"fmt"
	"strings"
)

type op int

const (
	opTag op = iota
	opNot
	opAndTag
	opOrTag
	opAndNotTag
	opOrNotTag
	opAndExpr
	opOrExpr
	opAndNotExpr
	opOrNotExpr
)

// result is the intermediate outcome of evaluating an expression.
type result int

const (
	success result = iota
	notIncluded
	excluded
	notIncludedAndExcluded
	failure
)

// Expr is immutable; combinators return a new Expr.
type Expr struct {
	op    op
	tag   string
	left  *Expr
	right *Expr
}

// Tag matches tag sets containing name.
func Tag(name string) *Expr {
	return &Expr{op: opTag, tag: name}
}

// Not matches tag sets without name.
func Not(name string) *Expr {
	return &Expr{op: opNot, tag: name}
}

func (e *Expr) And(name string) *Expr {
	return &Expr{op: opAndTag, left: e, tag: name}
}

func (e *Expr) Or(name string) *Expr {
	return &Expr{op: opOrTag, left: e, tag: name}
}

func (e *Expr) AndNot(name string) *Expr {
	return &Expr{op: opAndNotTag, left: e, tag: name}
}

func (e *Expr) OrNot(name string) *Expr {
	return &Expr{op: opOrNotTag, left: e, tag: name}
}

func (e *Expr) AndExpr(other *Expr) *Expr {
	return &Expr{op: opAndExpr, left: e, right: other}
}

func (e *Expr) OrExpr(other *Expr) *Expr {
	return &Expr{op: opOrExpr, left: e, right: other}
}

// AndNotExpr succeeds when both sides succeed, exactly like AndExpr.
func (e *Expr) AndNotExpr(other *Expr) *Expr {
	return &Expr{op: opAndNotExpr, left: e, right: other}
}

// OrNotExpr succeeds when the left side succeeds or the right side does not.
func (e *Expr) OrNotExpr(other *Expr) *Expr {
	return &Expr{op: opOrNotExpr, left: e, right: other}
}

// Matches reports whether tags satisfy the expression. A nil tag slice is
// an empty set; a nil Expr matches everything.
func (e *Expr) Matches(tags []string) bool {
	if e == nil {
		return true
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return e.eval(set) == success
}

func (e *Expr) MatchesTag(tag string) bool {
	return e.Matches([]string{tag})
}

func (e *Expr) eval(tags map[string]bool) result {
	switch e.op {
	case opTag:
		if tags[e.tag] {
			return success
		}
		return notIncluded

	case opNot:
		if !tags[e.tag] {
			return success
		}
		return excluded

	case opAndTag:
		has := tags[e.tag]
		switch e.left.eval(tags) {
		case success:
			return pick(has, success, notIncluded)
		case excluded:
			return pick(has, excluded, notIncludedAndExcluded)
		case notIncluded:
			return notIncluded
		case notIncludedAndExcluded:
			return notIncludedAndExcluded
		}
		return failure

	case opOrTag:
		has := tags[e.tag]
		switch e.left.eval(tags) {
		case success:
			return success
		case excluded:
			return pick(has, excluded, notIncludedAndExcluded)
		case notIncluded:
			return pick(has, success, notIncluded)
		case notIncludedAndExcluded:
			return pick(has, excluded, notIncludedAndExcluded)
		}
		return failure

	case opOrNotTag:
		missing := !tags[e.tag]
		switch e.left.eval(tags) {
		case success:
			return success
		case excluded:
			return pick(missing, success, excluded)
		case notIncluded:
			return notIncluded
		case notIncludedAndExcluded:
			return pick(missing, notIncluded, notIncludedAndExcluded)
		}
		return failure

	case opAndNotTag:
		missing := !tags[e.tag]
		switch e.left.eval(tags) {
		case success:
			return pick(missing, success, excluded)
		case excluded:
			return excluded
		case notIncluded:
			return pick(missing, notIncluded, notIncludedAndExcluded)
		case notIncludedAndExcluded:
			return notIncludedAndExcluded
		}
		return failure

	case opOrExpr:
		return pick(e.left.eval(tags) == success || e.right.eval(tags) == success, success, failure)

	case opAndExpr, opAndNotExpr:
		return pick(e.left.eval(tags) == success && e.right.eval(tags) == success, success, failure)

	case opOrNotExpr:
		return pick(e.left.eval(tags) == success || e.right.eval(tags) != success, success, failure)
	}
	return failure
}

func pick(cond bool, yes, no result) result {
	if cond {
		return yes
	}
	return no
}

// String renders the expression in the syntax accepted by Parse. AndNotExpr
// is written as the "and (...)" it evaluates to.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.op {
	case opTag:
		b.WriteString("@" + e.tag)
	case opNot:
		b.WriteString("not @" + e.tag)
	case opAndTag, opOrTag, opAndNotTag, opOrNotTag:
		e.left.write(b)
		fmt.Fprintf(b, " %s @%s", e.op.keyword(), e.tag)
	default:
		e.left.write(b)
		fmt.Fprintf(b, " %s (", e.op.keyword())
		e.right.write(b)
		b.WriteString(")")
	}
}

func (o op) keyword() string {
	switch o {
	case opAndTag, opAndExpr, opAndNotExpr:
		return "and"
	case opOrTag, opOrExpr:
		return "or"
	case opAndNotTag:
		return "and not"
	case opOrNotTag, opOrNotExpr:
		return "or not"
	}
	return ""
}
