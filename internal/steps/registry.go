package steps

import (
	"fmt"
	"strings"

	"github.com/chriserin/gk/internal/gherkin"
)

// Handler runs a bound step.
type Handler func(*Input) error

// Definition pairs a compiled pattern with the code that implements it.
// Definitions loaded from a registry file have no Handler.
type Definition struct {
	Pattern     *Pattern
	Description string
	Handler     Handler
}

// Registry holds every known step definition. Build it up front; once
// matching starts it is only read, so concurrent Match calls are safe.
type Registry struct {
	defs []*Definition
}

func NewRegistry(defs ...*Definition) *Registry {
	return &Registry{defs: defs}
}

// Add compiles pattern and registers it with h.
func (r *Registry) Add(pattern string, h Handler) error {
	p, err := Compile(pattern)
	if err != nil {
		return err
	}
	r.defs = append(r.defs, &Definition{Pattern: p, Handler: h})
	return nil
}

// MustAdd is like Add but panics on a bad pattern.
func (r *Registry) MustAdd(pattern string, h Handler) *Registry {
	if err := r.Add(pattern, h); err != nil {
		panic(err)
	}
	return r
}

// Definitions returns the definitions in the order they were added.
func (r *Registry) Definitions() []*Definition {
	return append([]*Definition(nil), r.defs...)
}

func (r *Registry) Len() int {
	return len(r.defs)
}

type MatchKind int

const (
	NoMatch MatchKind = iota
	Ambiguous
)

// MatchError reports a step that matched no definition or more than one.
type MatchError struct {
	Kind       MatchKind
	Step       string
	Candidates []string // patterns that matched, for Ambiguous
}

func (e *MatchError) Error() string {
	if e.Kind == Ambiguous {
		quoted := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		return fmt.Sprintf("Multiple matching step definitions found for the step '%s': %s", e.Step, strings.Join(quoted, ", "))
	}
	return fmt.Sprintf("No matching step definitions found for the step '%s'", e.Step)
}

// Match finds the single definition whose pattern matches step. Every
// definition is tried; zero or several matches is a *MatchError.
func (r *Registry) Match(step gherkin.Step) (*Input, *Definition, error) {
	var (
		found  *Definition
		values map[string]string
		names  []string
	)
	for _, def := range r.defs {
		v, ok := def.Pattern.Match(step.Description)
		if !ok {
			continue
		}
		names = append(names, def.Pattern.Source)
		if found == nil {
			found, values = def, v
		}
	}

	switch len(names) {
	case 0:
		return nil, nil, &MatchError{Kind: NoMatch, Step: step.Description}
	case 1:
		return &Input{Step: step, Values: values}, found, nil
	}
	return nil, nil, &MatchError{Kind: Ambiguous, Step: step.Description, Candidates: names}
}

// Run matches step and calls its handler.
func (r *Registry) Run(step gherkin.Step) error {
	in, def, err := r.Match(step)
	if err != nil {
		return err
	}
	if def.Handler == nil {
		return fmt.Errorf("step '%s' matched %q, which has no handler", step.Description, def.Pattern.Source)
	}
	if err := def.Handler(in); err != nil {
		return fmt.Errorf("running step '%s': %w", step.Description, err)
	}
	return nil
}
