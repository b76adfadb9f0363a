package steps

import "github.com/chriserin/gk/internal/gherkin"

// Input is what a handler receives for a bound step.
type Input struct {
	Step   gherkin.Step
	Values map[string]string
}

// Value returns the text captured by the named placeholder.
func (in *Input) Value(name string) (string, bool) {
	v, ok := in.Values[name]
	return v, ok
}

func (in *Input) DocString() (string, bool) {
	if in.Step.Argument == nil || in.Step.Argument.DocString == nil {
		return "", false
	}
	return in.Step.Argument.DocString.Content, true
}

// DataTable returns the step's table, or nil when it has none.
func (in *Input) DataTable() *gherkin.DataTable {
	if in.Step.Argument == nil {
		return nil
	}
	return in.Step.Argument.DataTable
}
