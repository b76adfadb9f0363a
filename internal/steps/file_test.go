package steps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPatterns(t *testing.T) {
	defs, err := LoadPatterns(strings.NewReader(`steps:
  - pattern: "I enter <value>"
    description: types into the focused field
  - pattern: "I wait <secs([0-9]+)> seconds"
`))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "I enter <value>", defs[0].Pattern.Source)
	assert.Equal(t, "types into the focused field", defs[0].Description)
	assert.Nil(t, defs[0].Handler)
	assert.Equal(t, []string{"secs"}, defs[1].Pattern.Names)
}

func TestLoadPatterns_Empty(t *testing.T) {
	defs, err := LoadPatterns(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoadPatterns_UnknownField(t *testing.T) {
	_, err := LoadPatterns(strings.NewReader("steps:\n  - patern: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding step registry")
}

func TestLoadPatterns_MissingPattern(t *testing.T) {
	_, err := LoadPatterns(strings.NewReader("steps:\n  - description: nothing\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1: missing pattern")
}

func TestLoadPatterns_BadPattern(t *testing.T) {
	_, err := LoadPatterns(strings.NewReader("steps:\n  - pattern: ok\n  - pattern: \"<a(>\"\n"))

	var ce *CompileError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Contains(t, err.Error(), "step 2:")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - pattern: I log in as <user>\n"), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	in, _, err := r.Match(step("Given I log in as admin"))
	require.NoError(t, err)
	assert.Equal(t, "admin", in.Values["user"])
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
