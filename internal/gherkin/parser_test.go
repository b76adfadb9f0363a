package gherkin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, content string) *Feature {
	t.Helper()
	f, err := Parse("test.feature", []byte(content))
	require.NoError(t, err)
	return f
}

func parseErr(t *testing.T, content string) *ParseError {
	t.Helper()
	_, err := Parse("test.feature", []byte(content))
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
	return pe
}

func TestParse_SingleScenario(t *testing.T) {
	f := parse(t, `Feature: Login
  Scenario: User logs in
    Given a user
`)
	want := &Feature{
		Heading:     "Feature: Login",
		Description: "Feature: Login",
		Rules: []Rule{{
			Implicit: true,
			Examples: []Example{{
				Heading:     "Scenario: User logs in",
				Description: "Scenario: User logs in",
				Line:        2,
				Steps: []Step{
					{Type: Given, Description: "Given a user", Line: 3},
				},
			}},
		}},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Login", f.Name())
}

func TestParse_MultipleScenariosShareImplicitRule(t *testing.T) {
	f := parse(t, `Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	require.Len(t, f.Rules, 1)
	require.Len(t, f.Rules[0].Examples, 2)
	assert.Equal(t, "User logs in", Title(f.Rules[0].Examples[0].Description))
	assert.Equal(t, "User fails login", Title(f.Rules[0].Examples[1].Description))
}

func TestParse_FeatureDescriptionLines(t *testing.T) {
	f := parse(t, `Feature: Login
  As a registered user
  I want to log in

  Scenario: User logs in
    Given a user
`)
	assert.Equal(t, "Feature: Login As a registered user I want to log in", f.Description)
	assert.Equal(t, "Feature: Login", f.Heading)
	assert.Equal(t, "Login", f.Name())
}

func TestParse_ExampleDescriptionLines(t *testing.T) {
	f := parse(t, `Feature: Login
  Scenario: User logs in
    with a valid password
    Given a user
`)
	ex := f.Examples()[0]
	assert.Equal(t, "Scenario: User logs in with a valid password", ex.Description)
	assert.Equal(t, "Scenario: User logs in", ex.Heading)
	require.Len(t, ex.Steps, 1)
}

func TestParse_TextAfterEmptyOutlineIsRejected(t *testing.T) {
	pe := parseErr(t, `Feature: Echo
  Scenario Outline: echo <word>
    When I say <word>

    Examples:
      | word |

  stray text
`)
	assert.Equal(t, ErrSyntax, pe.Kind)
	assert.Equal(t, 8, pe.Line)
	assert.Contains(t, pe.Message, "stray text")
}

func TestParse_RuleDescriptionLines(t *testing.T) {
	f := parse(t, `Feature: Login
  Rule: Lockout
    after three failures

    Scenario: Locked
      Given a user
`)
	r := f.Rules[0]
	assert.Equal(t, "Rule: Lockout after three failures", r.Description)
	assert.Equal(t, "Rule: Lockout", r.Heading)
}

func TestParse_Comments(t *testing.T) {
	f := parse(t, `# This is a comment
Feature: Login
  # Another comment

  Scenario: User logs in
    # inside
    Given a user
`)
	ex := f.Examples()[0]
	assert.Equal(t, 5, ex.Line)
	assert.Equal(t, 7, ex.Steps[0].Line)
}

func TestParse_StepTypes(t *testing.T) {
	f := parse(t, `Feature: Cart
  Scenario: Checkout
    Given a cart
    And an item
    When I pay
    But the card is declined
    Then I see an error
    And nothing is charged
`)
	var got []StepType
	for _, s := range f.Examples()[0].Steps {
		got = append(got, s.Type)
	}
	assert.Equal(t, []StepType{Given, Given, When, When, Then, Then}, got)
	assert.Equal(t, "But the card is declined", f.Examples()[0].Steps[3].Description)
}

func TestParse_Tags(t *testing.T) {
	f := parse(t, `@smoke @wip
Feature: Login
  @fast @smoke
  Scenario: User logs in
    Given a user

  Scenario: Untagged
    Given a user
`)
	assert.Equal(t, []string{"smoke", "wip"}, f.Tags)
	examples := f.Examples()
	require.Len(t, examples, 2)
	assert.Equal(t, []string{"fast", "smoke", "wip"}, examples[0].Tags)
	assert.Equal(t, []string{"smoke", "wip"}, examples[1].Tags)
}

func TestParse_TagsWithoutSpaces(t *testing.T) {
	f := parse(t, `@a@b @a
Feature: Login
  Scenario: s
    Given a
`)
	assert.Equal(t, []string{"a", "b"}, f.Tags)
}

func TestParse_Rules(t *testing.T) {
	f := parse(t, `@billing
Feature: Billing
  @numbering
  Rule: Invoices are numbered
    Numbers never repeat
    @first
    Example: first invoice
      Given no invoices
      When I create one
      Then it is number 1

  Rule: Refunds
    Scenario: refund
      Given an invoice
`)
	require.Len(t, f.Rules, 2)

	r := f.Rules[0]
	assert.False(t, r.Implicit)
	assert.Equal(t, []string{"numbering"}, r.Tags)
	assert.Equal(t, "Rule: Invoices are numbered Numbers never repeat", r.Description)
	require.Len(t, r.Examples, 1)
	assert.Equal(t, []string{"first", "numbering", "billing"}, r.Examples[0].Tags)
	assert.Len(t, r.Examples[0].Steps, 3)

	assert.Equal(t, "Rule: Refunds", f.Rules[1].Description)
	require.Len(t, f.Rules[1].Examples, 1)
	assert.Equal(t, []string{"billing"}, f.Rules[1].Examples[0].Tags)
}

func TestParse_EmptyRule(t *testing.T) {
	f := parse(t, `Feature: Billing
  Rule: Nothing here yet
  Rule: Refunds
    Scenario: refund
      Given an invoice
`)
	require.Len(t, f.Rules, 2)
	assert.Empty(t, f.Rules[0].Examples)
	assert.Len(t, f.Rules[1].Examples, 1)
}

func TestParse_Background(t *testing.T) {
	f := parse(t, `Feature: Login
  Background: A user exists
    Given a registered user
    And a clean session

  Scenario: User logs in
    When they log in
    Then they see the dashboard
`)
	require.NotNil(t, f.Background)
	assert.Equal(t, "Background: A user exists", f.Background.Description)
	require.Len(t, f.Background.Steps, 2)
	assert.Equal(t, Given, f.Background.Steps[1].Type)
	require.Len(t, f.Examples(), 1)
	assert.Len(t, f.Examples()[0].Steps, 2)
}

func TestParse_DocString(t *testing.T) {
	f := parse(t, `Feature: Files
  Scenario: Reading
    Given the file contains:
      """
      Feature: Login
        Scenario: Inner
      """
    Then it works
`)
	steps := f.Examples()[0].Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].Argument)
	require.NotNil(t, steps[0].Argument.DocString)
	assert.Nil(t, steps[0].Argument.DataTable)
	assert.Equal(t, "Feature: Login\nScenario: Inner", steps[0].Argument.DocString.Content)
	assert.Nil(t, steps[1].Argument)
}

func TestParse_EmptyDocString(t *testing.T) {
	f := parse(t, `Feature: Files
  Scenario: Reading
    Given an empty file:
      """
      """
`)
	arg := f.Examples()[0].Steps[0].Argument
	require.NotNil(t, arg)
	assert.Equal(t, "", arg.DocString.Content)
}

func TestParse_DataTable(t *testing.T) {
	f := parse(t, `Feature: Users
  Scenario: Listing
    Given these users:
      | name  | age |
      | alice | 30  |
      |       | 4   |
    When I list them
`)
	steps := f.Examples()[0].Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].Argument.DataTable)
	assert.Equal(t, [][]string{{"name", "age"}, {"alice", "30"}, {"", "4"}}, steps[0].Argument.DataTable.Rows)
}

func TestParse_SingleColumnTable(t *testing.T) {
	f := parse(t, `Feature: Users
  Scenario: Listing
    Given these names:
      | alice |
      | bob   |
`)
	assert.Equal(t, [][]string{{"alice"}, {"bob"}}, f.Examples()[0].Steps[0].Argument.DataTable.Rows)
}

func TestParse_BackgroundStepWithTable(t *testing.T) {
	f := parse(t, `Feature: Users
  Background:
    Given these users:
      | alice |
  Scenario: s
    When I look
`)
	require.NotNil(t, f.Background.Steps[0].Argument)
	assert.Equal(t, [][]string{{"alice"}}, f.Background.Steps[0].Argument.DataTable.Rows)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    ErrorKind
		line    int
		message string
	}{
		{
			name:    "empty document",
			content: "",
			kind:    ErrNoFeature,
		},
		{
			name:    "only tags",
			content: "@a\n# comment\n",
			kind:    ErrNoFeature,
		},
		{
			name:    "scenario before feature",
			content: "Scenario: s\n  Given a\n",
			kind:    ErrSyntax,
			line:    1,
			message: "Unable to parse invalid Gherkin: Scenario: s",
		},
		{
			name:    "multiple features",
			content: "Feature: A\n  Scenario: s\n    Given a\nFeature: B\n",
			kind:    ErrMultipleFeatures,
			line:    4,
			message: "Cannot have multiple Features in a single Gherkin file",
		},
		{
			name:    "multiple backgrounds",
			content: "Feature: A\n  Background:\n    Given a\n  Background:\n    Given b\n",
			kind:    ErrMultipleBackgrounds,
			line:    4,
		},
		{
			name:    "background after scenario",
			content: "Feature: A\n  Scenario: s\n    Given a\n  Background:\n    Given b\n",
			kind:    ErrLateBackground,
			line:    4,
		},
		{
			name:    "background with when",
			content: "Feature: A\n  Background:\n    When a\n",
			kind:    ErrBackgroundSteps,
			line:    3,
			message: "Background steps can only consist of Givens",
		},
		{
			name:    "background then after given",
			content: "Feature: A\n  Background:\n    Given a\n    Then b\n",
			kind:    ErrBackgroundSteps,
			line:    4,
		},
		{
			name:    "background without steps",
			content: "Feature: A\n  Background:\n  Scenario: s\n    Given a\n",
			kind:    ErrEmptyBackground,
			line:    3,
			message: "A Background section must have at least one step",
		},
		{
			name:    "unterminated doc string",
			content: "Feature: A\n  Scenario: s\n    Given a\n      \"\"\"\n      text\n",
			kind:    ErrUnterminatedDocString,
			line:    4,
		},
		{
			name:    "uneven table",
			content: "Feature: A\n  Scenario: s\n    Given a\n      | x | y |\n      | 1 |\n",
			kind:    ErrTableShape,
			line:    4,
			message: "Data table arguments should have the same number of elements per row",
		},
		{
			name:    "step before scenario",
			content: "Feature: A\n  Given a\n",
			kind:    ErrSyntax,
			line:    2,
			message: "Unable to parse invalid Gherkin: Given a",
		},
		{
			name:    "and without a preceding step",
			content: "Feature: A\n  Scenario: s\n    And a\n",
			kind:    ErrSyntax,
			line:    3,
		},
		{
			name:    "row without examples block",
			content: "Feature: A\n  Scenario: s\n    Given a\n      \"\"\"\n      x\n      \"\"\"\n    | y |\n",
			kind:    ErrExampleData,
			line:    7,
		},
		{
			name:    "text after examples",
			content: "Feature: A\n  Scenario: s\n    Given a\n  just some words\n",
			kind:    ErrSyntax,
			line:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseErr(t, tt.content)
			assert.Equal(t, tt.kind, pe.Kind, pe.Error())
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, "test.feature", pe.File)
			if tt.message != "" {
				assert.Equal(t, tt.message, pe.Message)
			}
		})
	}
}

func TestParse_ErrorsMatchByKind(t *testing.T) {
	_, err := Parse("a.feature", []byte("Feature: A\nFeature: B\n"))
	assert.True(t, errors.Is(err, &ParseError{Kind: ErrMultipleFeatures}))
	assert.False(t, errors.Is(err, &ParseError{Kind: ErrSyntax}))
	assert.Equal(t, "a.feature:2: Cannot have multiple Features in a single Gherkin file", err.Error())
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse("bad.feature", []byte("Feature: A\n\xff\xfe"))
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 11, de.Offset)
	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
}

func TestParse_WindowsLineEndings(t *testing.T) {
	f := parse(t, "Feature: A\r\n  Scenario: s\r\n    Given a\r\n")
	assert.Equal(t, "Given a", f.Examples()[0].Steps[0].Description)
}

func TestParse_KeywordNeedsSeparator(t *testing.T) {
	// "Givenchy" is free text, not a Given step.
	pe := parseErr(t, "Feature: A\n  Scenario: s\n    Given a\n    Givenchy\n")
	assert.Equal(t, ErrSyntax, pe.Kind)
	assert.Equal(t, 4, pe.Line)
}

func TestParse_BareKeywords(t *testing.T) {
	f := parse(t, "Feature\n  Scenario\n    Given\n")
	require.Len(t, f.Examples(), 1)
	assert.Equal(t, "Given", f.Examples()[0].Steps[0].Description)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Login", Title("Feature: Login"))
	assert.Equal(t, "a: b", Title("Scenario Outline: a: b"))
	assert.Equal(t, "Scenario", Title("Scenario"))
}
