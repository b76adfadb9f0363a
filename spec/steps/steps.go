// Package steps provides step definitions for the gk CLI Gherkin specs.
package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/chriserin/gk/cmd"
)

type contextKey string

const worldKey contextKey = "world"

// world holds one scenario's project directory and last command result.
type world struct {
	dir      string
	prevDir  string
	prevHome string

	exitCode int
	stdout   string
	stderr   string
}

func getWorld(ctx context.Context) (*world, error) {
	if w, ok := ctx.Value(worldKey).(*world); ok {
		return w, nil
	}
	return nil, fmt.Errorf("scenario has no project directory")
}

// InitializeCommonSteps registers all step definitions.
func InitializeCommonSteps(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "gk-spec-*")
		if err != nil {
			return ctx, fmt.Errorf("failed to create project directory: %w", err)
		}
		w := &world{dir: dir, prevHome: os.Getenv("HOME")}
		if w.prevDir, err = os.Getwd(); err != nil {
			return ctx, err
		}
		if err := os.Chdir(dir); err != nil {
			return ctx, err
		}
		// keep the user's own ~/.config/gk out of the run
		os.Setenv("HOME", dir)
		return context.WithValue(ctx, worldKey, w), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		w, werr := getWorld(ctx)
		if werr != nil {
			return ctx, nil
		}
		os.Chdir(w.prevDir)
		os.Setenv("HOME", w.prevHome)
		os.RemoveAll(w.dir)
		return ctx, nil
	})

	ctx.Step(`^a fresh project$`, aFreshProject)
	ctx.Step(`^a feature file "([^"]*)" with:$`, aFeatureFileWith)
	ctx.Step(`^a step registry with:$`, aStepRegistryWith)
	ctx.Step(`^a config file with:$`, aConfigFileWith)
	ctx.Step(`^the file "([^"]*)" is deleted$`, theFileIsDeleted)

	ctx.Step(`^I run "([^"]*)"$`, iRun)

	ctx.Step(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
	ctx.Step(`^stdout should contain "([^"]*)"$`, stdoutShouldContain)
	ctx.Step(`^stdout should not contain "([^"]*)"$`, stdoutShouldNotContain)
	ctx.Step(`^stderr should contain "([^"]*)"$`, stderrShouldContain)
	ctx.Step(`^stdout should be empty$`, stdoutShouldBeEmpty)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
}

func aFreshProject(ctx context.Context) error {
	if err := iRun(ctx, "gk init"); err != nil {
		return err
	}
	return theExitCodeShouldBe(ctx, 0)
}

func writeFile(ctx context.Context, name, content string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content+"\n"), 0o644)
}

func aFeatureFileWith(ctx context.Context, name string, doc *godog.DocString) error {
	return writeFile(ctx, name, doc.Content)
}

func aStepRegistryWith(ctx context.Context, doc *godog.DocString) error {
	return writeFile(ctx, "steps.yaml", doc.Content)
}

func aConfigFileWith(ctx context.Context, doc *godog.DocString) error {
	return writeFile(ctx, ".gk.yaml", doc.Content)
}

func theFileIsDeleted(ctx context.Context, name string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(w.dir, name))
}

func iRun(ctx context.Context, commandStr string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	args := parseArgs(commandStr)
	if len(args) > 0 && args[0] == "gk" {
		args = args[1:]
	}

	var stdout, stderr bytes.Buffer
	w.exitCode = cmd.Run(args, &stdout, &stderr)
	w.stdout = stdout.String()
	w.stderr = stderr.String()
	return nil
}

func theExitCodeShouldBe(ctx context.Context, expected int) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if w.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s", expected, w.exitCode, w.stdout, w.stderr)
	}
	return nil
}

func stdoutShouldContain(ctx context.Context, substr string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(w.stdout, substr) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", substr, w.stdout)
	}
	return nil
}

func stdoutShouldNotContain(ctx context.Context, substr string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(w.stdout, substr) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", substr, w.stdout)
	}
	return nil
}

func stderrShouldContain(ctx context.Context, substr string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(w.stderr, substr) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", substr, w.stderr)
	}
	return nil
}

func stdoutShouldBeEmpty(ctx context.Context) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(w.stdout) != "" {
		return fmt.Errorf("expected empty stdout, got:\n%s", w.stdout)
	}
	return nil
}

func theFileShouldExist(ctx context.Context, name string) error {
	w, err := getWorld(ctx)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(w.dir, name)); err != nil {
		return fmt.Errorf("expected file %s to exist: %w", name, err)
	}
	return nil
}

// parseArgs splits a command line on spaces, honoring single and double
// quotes.
func parseArgs(commandStr string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, char := range commandStr {
		switch {
		case char == '"' || char == '\'':
			if inQuote {
				if char == quoteChar {
					inQuote = false
					quoteChar = 0
				} else {
					current.WriteRune(char)
				}
			} else {
				inQuote = true
				quoteChar = char
			}
		case char == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
