package gherkin

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type parseState int

const (
	stateStart parseState = iota
	stateFeature
	stateBackground
	stateRule
	stateExample
	stateStep
	stateArgument
	stateError
	stateComplete
)

func (s parseState) String() string {
	return [...]string{"Start", "InFeature", "InBackground", "InRule", "InExample", "InStep", "InArgument", "Error", "Complete"}[s]
}

// transition inspects the current line (or the end of input). It reports
// false when it does not apply, leaving the parser untouched.
type transition func(p *parser) (parseState, bool)

// Transitions are tried in order; the first that applies wins.
var transitions = map[parseState][]transition{
	stateStart: {
		(*parser).parseFeature,
		(*parser).parseTag,
		(*parser).parseMissingFeature,
	},
	stateFeature: {
		(*parser).parseFeatureDescription,
		(*parser).parseDuplicateFeature,
		(*parser).parseBackground,
		(*parser).parseTag,
		(*parser).parseRule,
		(*parser).parseImplicitRule,
		(*parser).parseFeatureEnd,
	},
	stateBackground: {
		(*parser).parseBackgroundDescription,
		(*parser).parseBackgroundStep,
		(*parser).parseBackgroundEnd,
	},
	stateRule: {
		(*parser).parseRuleDescription,
		(*parser).parseTag,
		(*parser).parseExample,
		(*parser).parseRuleEnd,
	},
	stateExample: {
		(*parser).parseExampleDescription,
		(*parser).parseTag,
		(*parser).parseExampleStep,
		(*parser).parseData,
		(*parser).parseExampleEnd,
	},
	stateStep: {
		(*parser).parseStepArgument,
		(*parser).parseStepEnd,
	},
	stateArgument: {
		(*parser).parseArgumentLine,
		(*parser).parseArgumentEnd,
	},
}

// Parse parses a Gherkin document. filename is only used in error messages.
// The first error ends the parse; no partial Feature is returned.
func Parse(filename string, content []byte) (*Feature, error) {
	if !utf8.Valid(content) {
		return nil, &DecodeError{File: filename, Offset: invalidOffset(content)}
	}
	return ParseString(filename, string(content))
}

func ParseString(filename, content string) (*Feature, error) {
	p := &parser{file: filename, lines: splitLines(content)}
	return p.run()
}

func invalidOffset(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(content)
}

type parser struct {
	file  string
	lines []line
	pos   int
	state parseState
	err   *ParseError

	tags    []string // pending, consumed by the next Feature/Rule/Example/Data
	feature *Feature
	rule    *Rule
	example *draft
	step    *Step

	stepInBackground bool
	docLines         []string
	argLine          int
}

func (p *parser) run() (*Feature, error) {
	for {
		switch p.state {
		case stateError:
			return nil, p.err
		case stateComplete:
			return p.feature, nil
		}
		next, ok := p.offer(transitions[p.state])
		if !ok {
			next = p.syntaxError()
		}
		p.state = next
	}
}

func (p *parser) offer(fns []transition) (parseState, bool) {
	for _, fn := range fns {
		if next, ok := fn(p); ok {
			return next, true
		}
	}
	return stateError, false
}

func (p *parser) current() (line, bool) {
	if p.pos >= len(p.lines) {
		return line{}, false
	}
	return p.lines[p.pos], true
}

func (p *parser) advance() {
	p.pos++
}

func (p *parser) fail(kind ErrorKind, lineNo int, format string, args ...any) (parseState, bool) {
	p.err = &ParseError{File: p.file, Line: lineNo, Kind: kind, Message: fmt.Sprintf(format, args...)}
	return stateError, true
}

func (p *parser) syntaxError() parseState {
	l, _ := p.current()
	p.fail(ErrSyntax, l.Number, "Unable to parse invalid Gherkin: %s", l.Text)
	return stateError
}

func (p *parser) takeTags() []string {
	tags := p.tags
	p.tags = nil
	return tags
}

// description reads a free-text line when allowed is true.
func (p *parser) description(allowed bool, add func(string)) bool {
	l, ok := p.current()
	if !ok || !allowed || !isDescription(l.Text) {
		return false
	}
	add(l.Text)
	p.advance()
	return true
}

func appendDescription(current, text string) string {
	return strings.TrimSpace(current + " " + text)
}

func (p *parser) parseTag() (parseState, bool) {
	l, ok := p.current()
	if !ok || !isTagLine(l.Text) {
		return 0, false
	}
	p.tags = mergeTags(p.tags, parseTags(l.Text))
	p.advance()
	return p.state, true
}

// Start

func (p *parser) parseFeature() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, featureKeywords) {
		return 0, false
	}
	p.feature = &Feature{Heading: l.Text, Description: l.Text, Tags: p.takeTags()}
	p.advance()
	return stateFeature, true
}

func (p *parser) parseMissingFeature() (parseState, bool) {
	if _, ok := p.current(); ok {
		return 0, false
	}
	return p.fail(ErrNoFeature, 0, "No Feature found in the Gherkin document")
}

// InFeature

func (p *parser) parseFeatureDescription() (parseState, bool) {
	allowed := p.feature.Background == nil && len(p.feature.Rules) == 0
	ok := p.description(allowed, func(text string) {
		p.feature.Description = appendDescription(p.feature.Description, text)
	})
	return stateFeature, ok
}

func (p *parser) parseDuplicateFeature() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, featureKeywords) {
		return 0, false
	}
	return p.fail(ErrMultipleFeatures, l.Number, "Cannot have multiple Features in a single Gherkin file")
}

func (p *parser) parseBackground() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, backgroundKeywords) {
		return 0, false
	}
	if p.feature.Background != nil {
		return p.fail(ErrMultipleBackgrounds, l.Number, "Cannot have more than one Background section in a single Gherkin feature")
	}
	if len(p.feature.Rules) > 0 {
		return p.fail(ErrLateBackground, l.Number, "Cannot declare a Background section after the first Rule/Scenario/Example in a Gherkin feature")
	}
	p.feature.Background = &Background{Heading: l.Text, Description: l.Text}
	p.advance()
	return stateBackground, true
}

func (p *parser) parseRule() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, ruleKeywords) {
		return 0, false
	}
	p.rule = &Rule{Tags: p.takeTags(), Heading: l.Text, Description: l.Text}
	p.advance()
	return stateRule, true
}

// parseImplicitRule wraps a top-level Scenario in a Rule of its own. Later
// Scenarios join it from the InRule state.
func (p *parser) parseImplicitRule() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, exampleKeywords) {
		return 0, false
	}
	p.rule = &Rule{Implicit: true}
	return p.parseExample()
}

func (p *parser) parseFeatureEnd() (parseState, bool) {
	if _, ok := p.current(); ok {
		return 0, false
	}
	return stateComplete, true
}

// InBackground

func (p *parser) parseBackgroundDescription() (parseState, bool) {
	bg := p.feature.Background
	ok := p.description(len(bg.Steps) == 0, func(text string) {
		bg.Description = appendDescription(bg.Description, text)
	})
	return stateBackground, ok
}

func (p *parser) parseBackgroundStep() (parseState, bool) {
	l, ok := p.current()
	if !ok {
		return 0, false
	}
	step, ok := stepFrom(l, p.feature.Background.Steps)
	if !ok {
		return 0, false
	}
	if step.Type != Given {
		return p.fail(ErrBackgroundSteps, l.Number, "Background steps can only consist of Givens")
	}
	p.step = &step
	p.stepInBackground = true
	p.advance()
	return stateStep, true
}

func (p *parser) parseBackgroundEnd() (parseState, bool) {
	if len(p.feature.Background.Steps) == 0 {
		l, _ := p.current()
		return p.fail(ErrEmptyBackground, l.Number, "A Background section must have at least one step")
	}
	return stateFeature, true
}

// InRule

func (p *parser) parseRuleDescription() (parseState, bool) {
	// an implicit Rule has no heading, so free text cannot belong to it
	ok := p.description(!p.rule.Implicit && len(p.rule.Examples) == 0, func(text string) {
		p.rule.Description = appendDescription(p.rule.Description, text)
	})
	return stateRule, ok
}

func (p *parser) parseExample() (parseState, bool) {
	l, ok := p.current()
	if !ok || !startsWithAny(l.Text, exampleKeywords) {
		return 0, false
	}
	p.example = &draft{tags: p.takeTags(), heading: l.Text, description: l.Text, line: l.Number}
	p.advance()
	return stateExample, true
}

func (p *parser) parseRuleEnd() (parseState, bool) {
	p.feature.Rules = append(p.feature.Rules, *p.rule)
	p.rule = nil
	return stateFeature, true
}

// InExample

func (p *parser) parseExampleDescription() (parseState, bool) {
	ex := p.example
	ok := p.description(len(ex.steps) == 0 && len(ex.data) == 0, func(text string) {
		ex.description = appendDescription(ex.description, text)
	})
	return stateExample, ok
}

func (p *parser) parseExampleStep() (parseState, bool) {
	l, ok := p.current()
	if !ok {
		return 0, false
	}
	step, ok := stepFrom(l, p.example.steps)
	if !ok {
		return 0, false
	}
	p.step = &step
	p.stepInBackground = false
	p.advance()
	return stateStep, true
}

// parseData opens an Examples block or adds a row to the open one.
func (p *parser) parseData() (parseState, bool) {
	l, ok := p.current()
	if !ok {
		return 0, false
	}
	switch {
	case startsWithAny(l.Text, dataKeywords):
		p.example.data = append(p.example.data, dataBlock{tags: p.takeTags(), line: l.Number})
	case isRow(l.Text):
		if len(p.example.data) == 0 {
			return p.fail(ErrExampleData, l.Number, "Error parsing Example Data")
		}
		block := &p.example.data[len(p.example.data)-1]
		block.rows = append(block.rows, parseRow(l.Text))
	default:
		return 0, false
	}
	p.advance()
	return stateExample, true
}

func (p *parser) parseExampleEnd() (parseState, bool) {
	examples, err := p.example.expand(p.rule.Tags, p.feature.Tags)
	if err != nil {
		err.File = p.file
		p.err = err
		return stateError, true
	}
	p.rule.Examples = append(p.rule.Examples, examples...)
	p.example = nil
	return stateRule, true
}

// InStep

func (p *parser) parseStepArgument() (parseState, bool) {
	l, ok := p.current()
	if !ok || p.step.Argument != nil {
		return 0, false
	}
	switch {
	case l.Text == docStringFence:
		p.step.Argument = &Argument{DocString: &DocString{}}
		p.docLines = nil
	case isRow(l.Text):
		p.step.Argument = &Argument{DataTable: &DataTable{Rows: [][]string{parseRow(l.Text)}}}
	default:
		return 0, false
	}
	p.argLine = l.Number
	p.advance()
	return stateArgument, true
}

func (p *parser) parseStepEnd() (parseState, bool) {
	step := *p.step
	p.step = nil
	if p.stepInBackground {
		p.feature.Background.Steps = append(p.feature.Background.Steps, step)
		return stateBackground, true
	}
	p.example.steps = append(p.example.steps, step)
	return stateExample, true
}

// InArgument

func (p *parser) parseArgumentLine() (parseState, bool) {
	l, ok := p.current()
	if !ok {
		return 0, false
	}
	arg := p.step.Argument
	if arg.DocString != nil {
		if l.Text == docStringFence {
			arg.DocString.Content = strings.Join(p.docLines, "\n")
			p.docLines = nil
			p.advance()
			return stateStep, true
		}
		p.docLines = append(p.docLines, l.Text)
		p.advance()
		return stateArgument, true
	}
	if !isRow(l.Text) {
		return 0, false
	}
	arg.DataTable.Rows = append(arg.DataTable.Rows, parseRow(l.Text))
	p.advance()
	return stateArgument, true
}

func (p *parser) parseArgumentEnd() (parseState, bool) {
	arg := p.step.Argument
	if arg.DocString != nil {
		return p.fail(ErrUnterminatedDocString, p.argLine, "Doc string argument is never closed with %s", docStringFence)
	}
	rows := arg.DataTable.Rows
	if len(rows) == 0 {
		return p.fail(ErrEmptyTable, p.argLine, "Can't have a data table argument with no rows")
	}
	for _, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			return p.fail(ErrTableShape, p.argLine, "Data table arguments should have the same number of elements per row")
		}
	}
	return stateStep, true
}

// stepFrom reads a step line. And/But only count as steps after an earlier
// step in the same block, whose type they take.
func stepFrom(l line, previous []Step) (Step, bool) {
	for k, t := range primarySteps {
		if startsWith(l.Text, k) {
			return Step{Type: t, Description: l.Text, Line: l.Number}, true
		}
	}
	if len(previous) > 0 && startsWithAny(l.Text, continueKeywords) {
		return Step{Type: previous[len(previous)-1].Type, Description: l.Text, Line: l.Number}, true
	}
	return Step{}, false
}
