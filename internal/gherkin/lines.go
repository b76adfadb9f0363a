package gherkin

import "strings"

type keyword string

const (
	kwFeature          keyword = "Feature"
	kwBackground       keyword = "Background"
	kwRule             keyword = "Rule"
	kwExample          keyword = "Example"
	kwScenario         keyword = "Scenario"
	kwScenarioOutline  keyword = "Scenario Outline"
	kwScenarioTemplate keyword = "Scenario Template"
	kwExamples         keyword = "Examples"
	kwScenarios        keyword = "Scenarios"
	kwData             keyword = "Data"
	kwGiven            keyword = "Given"
	kwWhen             keyword = "When"
	kwThen             keyword = "Then"
	kwAnd              keyword = "And"
	kwBut              keyword = "But"
)

var (
	featureKeywords    = []keyword{kwFeature}
	backgroundKeywords = []keyword{kwBackground}
	ruleKeywords       = []keyword{kwRule}
	exampleKeywords    = []keyword{kwScenarioOutline, kwScenarioTemplate, kwExample, kwScenario}
	dataKeywords       = []keyword{kwExamples, kwScenarios, kwData}
	continueKeywords   = []keyword{kwAnd, kwBut}

	allKeywords = []keyword{
		kwFeature, kwBackground, kwRule,
		kwScenarioOutline, kwScenarioTemplate, kwExample, kwScenario,
		kwExamples, kwScenarios, kwData,
		kwGiven, kwWhen, kwThen, kwAnd, kwBut,
	}

	primarySteps = map[keyword]StepType{kwGiven: Given, kwWhen: When, kwThen: Then}
)

const docStringFence = `"""`

// line is one significant source line: trimmed, never blank, never a comment.
type line struct {
	Number int
	Text   string
}

// splitLines drops blank lines and comments and trims the rest.
func splitLines(content string) []line {
	raw := strings.Split(content, "\n")
	lines := make([]line, 0, len(raw))
	for i, l := range raw {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line{Number: i + 1, Text: trimmed})
	}
	return lines
}

// startsWith reports whether text opens with k: it equals k or continues
// with a colon or a space.
func startsWith(text string, k keyword) bool {
	if !strings.HasPrefix(text, string(k)) {
		return false
	}
	rest := text[len(k):]
	return rest == "" || rest[0] == ':' || rest[0] == ' '
}

func startsWithAny(text string, keywords []keyword) bool {
	for _, k := range keywords {
		if startsWith(text, k) {
			return true
		}
	}
	return false
}

func isKeyword(text string) bool {
	return startsWithAny(text, allKeywords)
}

func isTagLine(text string) bool {
	return strings.HasPrefix(text, "@")
}

func isRow(text string) bool {
	return strings.HasPrefix(text, "|")
}

// isDescription reports whether text is free text rather than a keyword,
// tag, table row or doc string fence.
func isDescription(text string) bool {
	return !isKeyword(text) && !isTagLine(text) && !isRow(text) && text != docStringFence
}

// parseTags splits "@a @b@c" into ["a", "b", "c"].
func parseTags(text string) []string {
	var tags []string
	for _, part := range strings.Split(text, "@") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseRow splits "| a | b |" into ["a", "b"]. Empty cells are kept.
func parseRow(text string) []string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "|"), "|")
	parts := strings.Split(body, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// mergeTags appends each list in turn, keeping the first occurrence of
// every tag. A nil result means no tags.
func mergeTags(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, t := range list {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
