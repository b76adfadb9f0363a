package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStatus(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunStatus(&buf, testConfig()))
	return buf.String()
}

func TestStatus_EmptyCatalogue(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runStatus(t)

	assert.Equal(t, "Files: 0\nExamples: 0\n", out)
}

func TestStatus_CountsByTag(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", taggedFeature)
	writeFeature(t, "checkout.feature", "Feature: Checkout\n  Scenario: Pay\n    Given a cart\n")
	runSync(t)

	out := runStatus(t)

	assert.Equal(t, "Files: 2\nExamples: 4\n  @auth: 3\n  @smoke: 1\n  @wip: 1\n  untagged: 1\n", out)
}

func TestStatus_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunStatus(&buf, testConfig())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `gk init` first")
}
