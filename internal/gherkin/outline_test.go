package gherkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_ExpandsOneExamplePerRow(t *testing.T) {
	f := parse(t, `Feature: Eating
  Scenario Outline: eating <eat> of <start>
    Given there are <start> cucumbers
    When I eat <eat> cucumbers
    Then I should have <left> cucumbers

    Examples:
      | start | eat | left |
      | 12    | 5   | 7    |
      | 20    | 5   | 15   |
`)
	examples := f.Examples()
	require.Len(t, examples, 2)

	assert.Equal(t, "Scenario Outline: eating 5 of 12", examples[0].Description)
	var steps []string
	for _, s := range examples[0].Steps {
		steps = append(steps, s.Description)
	}
	assert.Equal(t, []string{
		"Given there are 12 cucumbers",
		"When I eat 5 cucumbers",
		"Then I should have 7 cucumbers",
	}, steps)

	assert.Equal(t, "Then I should have 15 cucumbers", examples[1].Steps[2].Description)
	assert.Equal(t, 2, examples[1].Line)
}

func TestOutline_TagsAreUnioned(t *testing.T) {
	f := parse(t, `@feature
Feature: Eating
  @rule
  Rule: Cucumbers
    @outline @shared
    Scenario Template: eating <n>
      Given I eat <n>

      @small @shared
      Scenarios:
        | n |
        | 1 |

      @large
      Data:
        | n   |
        | 100 |
        | 200 |
`)
	examples := f.Examples()
	require.Len(t, examples, 3)
	assert.ElementsMatch(t, []string{"outline", "shared", "small", "rule", "feature"}, examples[0].Tags)
	assert.ElementsMatch(t, []string{"outline", "shared", "large", "rule", "feature"}, examples[1].Tags)
	assert.ElementsMatch(t, []string{"outline", "shared", "large", "rule", "feature"}, examples[2].Tags)
	assert.Equal(t, "Given I eat 200", examples[2].Steps[0].Description)
}

func TestOutline_SubstitutesArguments(t *testing.T) {
	f := parse(t, `Feature: Greeting
  Scenario Outline: greet
    Given the template:
      """
      Hello <name>
      """
    And the people:
      | first  | greeting   |
      | <name> | <greeting> |

    Examples:
      | name | greeting |
      | Ada  | hi       |
`)
	examples := f.Examples()
	require.Len(t, examples, 1)
	steps := examples[0].Steps
	assert.Equal(t, "Hello Ada", steps[0].Argument.DocString.Content)
	assert.Equal(t, [][]string{{"first", "greeting"}, {"Ada", "hi"}}, steps[1].Argument.DataTable.Rows)
}

func TestOutline_DoesNotModifyTemplate(t *testing.T) {
	f := parse(t, `Feature: Greeting
  Scenario Outline: greet
    Given the people:
      | <name> |

    Examples:
      | name |
      | Ada  |
      | Bob  |
`)
	examples := f.Examples()
	require.Len(t, examples, 2)
	assert.Equal(t, "Ada", examples[0].Steps[0].Argument.DataTable.Rows[0][0])
	assert.Equal(t, "Bob", examples[1].Steps[0].Argument.DataTable.Rows[0][0])
}

func TestOutline_TokenCountMismatch(t *testing.T) {
	pe := parseErr(t, `Feature: Eating
  Scenario Outline: eating
    Given there are <start> cucumbers
    When I eat <eat> cucumbers

    Examples:
      | start | eat | left |
      | 12    | 5   | 7    |
`)
	assert.Equal(t, ErrOutlineTokens, pe.Kind)
	assert.Equal(t, 6, pe.Line)
	assert.Contains(t, pe.Message, "all 2 different tokens")
}

func TestOutline_RepeatedTokenCountsOnce(t *testing.T) {
	f := parse(t, `Feature: Echo
  Scenario Outline: echo <word>
    When I say <word>
    Then I hear <word>

    Examples:
      | word  |
      | hello |
`)
	examples := f.Examples()
	require.Len(t, examples, 1)
	assert.Equal(t, "Then I hear hello", examples[0].Steps[1].Description)
}

func TestOutline_HeaderOnlyBlockYieldsNothing(t *testing.T) {
	f := parse(t, `Feature: Echo
  Scenario Outline: echo <word>
    When I say <word>

    Examples:
      | word |

  Scenario: plain
    Given nothing
`)
	examples := f.Examples()
	require.Len(t, examples, 1)
	assert.Equal(t, "Scenario: plain", examples[0].Description)
}

func TestOutline_EmptyBlockIsPlainExample(t *testing.T) {
	f := parse(t, `Feature: Echo
  Scenario Outline: echo <word>
    When I say <word>

    Examples:
`)
	examples := f.Examples()
	require.Len(t, examples, 1)
	assert.Equal(t, "When I say <word>", examples[0].Steps[0].Description)
}

func TestOutline_ExampleWithoutStepsKeepsDescription(t *testing.T) {
	f := parse(t, `Feature: Echo
  Scenario Outline: say <word>
    Examples:
      | word |
      | hi   |
      | yo   |
`)
	examples := f.Examples()
	require.Len(t, examples, 2)
	assert.Equal(t, "Scenario Outline: say yo", examples[1].Description)
	assert.Empty(t, examples[1].Steps)
}
