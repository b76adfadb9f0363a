// Package steps binds Gherkin steps to handlers through author-written
// patterns such as "I enter <value>" or "I wait <secs([0-9]+)> seconds".
package steps

import (
	"fmt"
	"regexp"
	"strings"
)

const keywordPrefix = `^(?i:given|when|then|and|but)\s+`

// Pattern is a compiled step pattern.
type Pattern struct {
	Source string
	Names  []string // placeholder names in order of appearance
	re     *regexp.Regexp
}

// CompileError reports a pattern that could not be compiled.
type CompileError struct {
	Pattern string
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step pattern %q: %s: %v", e.Pattern, e.Message, e.Err)
	}
	return fmt.Sprintf("step pattern %q: %s", e.Pattern, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile turns a step pattern into a regular expression anchored on both
// ends and prefixed with the step keywords.
//
// <name> captures one or more characters; <name(sub)> captures whatever sub
// matches. A backslash before "<" keeps it literal. Everything else is
// handed to the regexp engine as written.
func Compile(source string) (*Pattern, error) {
	body := strings.TrimRight(strings.TrimLeft(source, "^"), "$")

	p := &Pattern{Source: source}
	seen := make(map[string]bool)
	var b strings.Builder

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			if body[i+1] == '<' {
				b.WriteByte('<')
			} else {
				b.WriteString(body[i : i+2])
			}
			i += 2
			continue

		case c == '<':
			name, expr, next, err := placeholder(body, i)
			if err != nil {
				return nil, &CompileError{Pattern: source, Message: err.Error()}
			}
			if name == "" {
				b.WriteByte('<')
				i++
				continue
			}
			if seen[name] {
				return nil, &CompileError{Pattern: source, Message: fmt.Sprintf("duplicate placeholder <%s>", name)}
			}
			seen[name] = true
			p.Names = append(p.Names, name)
			fmt.Fprintf(&b, "(?P<%s>%s)", name, expr)
			i = next
			continue
		}
		b.WriteByte(c)
		i++
	}

	re, err := regexp.Compile(keywordPrefix + b.String() + "$")
	if err != nil {
		return nil, &CompileError{Pattern: source, Message: "invalid regular expression", Err: err}
	}
	p.re = re
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// placeholder reads a placeholder starting at body[start] == '<'. It returns
// an empty name when the text there is not a placeholder at all.
func placeholder(body string, start int) (name, expr string, next int, err error) {
	i := start + 1
	for i < len(body) && isNameByte(body[i]) {
		i++
	}
	name = body[start+1 : i]
	if name == "" || i >= len(body) {
		return "", "", 0, nil
	}

	switch body[i] {
	case '>':
		return name, ".+", i + 1, nil
	case '(':
		end, ok := closingParen(body, i)
		if !ok {
			return "", "", 0, fmt.Errorf("unbalanced parentheses in placeholder <%s>", name)
		}
		if end+1 >= len(body) || body[end+1] != '>' {
			return "", "", 0, fmt.Errorf("placeholder <%s> must end with \">\" after its sub-pattern", name)
		}
		return name, body[i+1 : end], end + 2, nil
	}
	return "", "", 0, nil
}

// closingParen returns the index of the parenthesis closing body[open].
func closingParen(body string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Match reports whether text, a full step line including its keyword,
// matches the pattern and returns the captured placeholder values.
func (p *Pattern) Match(text string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	values := make(map[string]string, len(p.Names))
	for _, name := range p.Names {
		values[name] = m[p.re.SubexpIndex(name)]
	}
	return values, true
}

// Expr returns the compiled regular expression.
func (p *Pattern) Expr() string {
	return p.re.String()
}

func (p *Pattern) String() string {
	return p.Source
}
