package gherkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	lines := splitLines("Feature: A\n\n  # note\n\t  Scenario: s  \n")
	assert.Equal(t, []line{{Number: 1, Text: "Feature: A"}, {Number: 4, Text: "Scenario: s"}}, lines)
}

func TestStartsWith(t *testing.T) {
	assert.True(t, startsWith("Given", kwGiven))
	assert.True(t, startsWith("Given a user", kwGiven))
	assert.True(t, startsWith("Feature:Login", kwFeature))
	assert.False(t, startsWith("Givens", kwGiven))
	assert.False(t, startsWith("given a user", kwGiven))
	assert.False(t, startsWith("Examples:", kwExample))
	assert.True(t, startsWith("Scenario Outline: x", kwScenario))
}

func TestParseRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseRow("| a | b |"))
	assert.Equal(t, []string{"a", "", "c"}, parseRow("|a||c|"))
	assert.Equal(t, []string{"a", "b"}, parseRow("| a | b"))
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, mergeTags([]string{"a", "b"}, nil, []string{"b", "c", "a"}))
	assert.Nil(t, mergeTags(nil, nil))
}
