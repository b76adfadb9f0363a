package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	assert.Equal(t, "@smoke @auth", Tags([]string{"smoke", "auth"}))
	assert.Equal(t, "", Tags(nil))
}

func TestShowTable_PadsColumns(t *testing.T) {
	var buf bytes.Buffer
	ShowTable(&buf, 2, [][]string{{"sku", "qty"}, {"A100", "2"}})

	assert.Equal(t, "  | sku  | qty |\n  | A100 | 2   |\n", buf.String())
}

func TestBoundLine_SortsValues(t *testing.T) {
	var buf bytes.Buffer
	BoundLine(&buf, "Given a user named admin", map[string]string{"role": "x", "name": "admin"})

	assert.Equal(t, "ok    Given a user named admin  name=\"admin\" role=\"x\"\n", buf.String())
}

func TestUnboundLine(t *testing.T) {
	var buf bytes.Buffer
	UnboundLine(&buf, "miss", "Given a guest")

	assert.Equal(t, "miss  Given a guest\n", buf.String())
}

func TestShowTitle_SplitsAtColon(t *testing.T) {
	var buf bytes.Buffer
	ShowTitle(&buf, 2, "Scenario: Pay: by card")

	assert.Equal(t, "  Scenario: Pay: by card\n", buf.String())
}

func TestErrLine(t *testing.T) {
	var buf bytes.Buffer
	ErrLine(&buf, "features/a.feature", errors.New("boom"))

	assert.Equal(t, "err  features/a.feature  boom\n", buf.String())
}
