package gherkin

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`<[^<>]+>`)

// draft is an Example under construction. With data blocks it is a
// Scenario Outline and expands into one Example per value row.
type draft struct {
	tags        []string
	heading     string
	description string
	steps       []Step
	line        int
	data        []dataBlock
}

// dataBlock is one Examples/Scenarios/Data section. The first row names
// the placeholders.
type dataBlock struct {
	tags []string
	rows [][]string
	line int
}

func (d *draft) expand(ruleTags, featureTags []string) ([]Example, *ParseError) {
	var blocks []dataBlock
	for _, b := range d.data {
		if len(b.rows) > 0 {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		return []Example{{
			Tags:        mergeTags(d.tags, ruleTags, featureTags),
			Heading:     d.heading,
			Description: d.description,
			Steps:       d.steps,
			Line:        d.line,
		}}, nil
	}

	tokens := d.tokens()
	for _, b := range blocks {
		for _, row := range b.rows {
			if len(row) != len(tokens) {
				return nil, &ParseError{
					Line: b.line,
					Kind: ErrOutlineTokens,
					Message: fmt.Sprintf("Data values must be provided for all %d different tokens "+
						"that were specified in the Example, and there should be no additional data values", len(tokens)),
				}
			}
		}
	}

	var examples []Example
	for _, b := range blocks {
		header := b.rows[0]
		for _, row := range b.rows[1:] {
			pairs := make([]string, 0, 2*len(header))
			for i, name := range header {
				pairs = append(pairs, "<"+name+">", row[i])
			}
			r := strings.NewReplacer(pairs...)
			examples = append(examples, Example{
				Tags:        mergeTags(d.tags, b.tags, ruleTags, featureTags),
				Heading:     r.Replace(d.heading),
				Description: r.Replace(d.description),
				Steps:       substituteSteps(d.steps, r),
				Line:        d.line,
			})
		}
	}
	return examples, nil
}

// tokens returns the distinct <placeholders> used anywhere in the draft.
func (d *draft) tokens() []string {
	parts := []string{d.description}
	for _, s := range d.steps {
		parts = append(parts, s.Description)
	}
	for _, s := range d.steps {
		parts = append(parts, argumentText(s.Argument))
	}
	var tokens []string
	seen := make(map[string]bool)
	for _, tok := range placeholderPattern.FindAllString(strings.Join(parts, " "), -1) {
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func argumentText(arg *Argument) string {
	switch {
	case arg == nil:
		return ""
	case arg.DocString != nil:
		return arg.DocString.Content
	case arg.DataTable != nil:
		rows := make([]string, len(arg.DataTable.Rows))
		for i, row := range arg.DataTable.Rows {
			rows[i] = strings.Join(row, " ")
		}
		return strings.Join(rows, " ")
	}
	return ""
}

func substituteSteps(steps []Step, r *strings.Replacer) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Type: s.Type, Description: r.Replace(s.Description), Line: s.Line}
		switch {
		case s.Argument == nil:
		case s.Argument.DocString != nil:
			out[i].Argument = &Argument{DocString: &DocString{Content: r.Replace(s.Argument.DocString.Content)}}
		case s.Argument.DataTable != nil:
			rows := make([][]string, len(s.Argument.DataTable.Rows))
			for j, row := range s.Argument.DataTable.Rows {
				rows[j] = make([]string, len(row))
				for k, cell := range row {
					rows[j][k] = r.Replace(cell)
				}
			}
			out[i].Argument = &Argument{DataTable: &DataTable{Rows: rows}}
		}
	}
	return out
}
