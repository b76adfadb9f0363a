package gherkin

import "strings"

// Feature is the parsed form of one Gherkin document.
type Feature struct {
	Heading     string // the keyword line, e.g. "Feature: Login"
	Description string // Heading followed by any free-text lines
	Tags        []string
	Background  *Background
	Rules       []Rule
}

type Background struct {
	Heading     string
	Description string
	Steps       []Step
}

// Rule groups Examples. Legacy top-level Scenarios are collected into an
// implicit Rule with no tags and no description.
type Rule struct {
	Tags        []string
	Heading     string
	Description string
	Examples    []Example
	Implicit    bool
}

// Example is one concrete scenario. Tags already include the tags of the
// enclosing Rule and Feature.
type Example struct {
	Tags        []string
	Heading     string
	Description string
	Steps       []Step
	Line        int // 1-based line of the Scenario/Example keyword
}

type StepType int

const (
	Given StepType = iota
	When
	Then
)

func (t StepType) String() string {
	switch t {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	}
	return "Unknown"
}

type Step struct {
	Type        StepType // And/But resolve to the preceding primary step
	Description string   // full line, keyword included
	Argument    *Argument
	Line        int
}

// Argument holds exactly one of DocString or DataTable.
type Argument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	Content string
}

type DataTable struct {
	Rows [][]string
}

// Name returns the feature title without its keyword or free text.
func (f *Feature) Name() string {
	return Title(f.Heading)
}

// Examples returns every Example of every Rule in document order.
func (f *Feature) Examples() []Example {
	var out []Example
	for _, r := range f.Rules {
		out = append(out, r.Examples...)
	}
	return out
}

// Title strips a leading "Keyword:" from a description.
// Descriptions without a colon are returned unchanged.
func Title(description string) string {
	if idx := strings.Index(description, ":"); idx >= 0 {
		return strings.TrimSpace(description[idx+1:])
	}
	return description
}
