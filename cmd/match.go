package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/gherkin"
	"github.com/chriserin/gk/internal/steps"
	"github.com/chriserin/gk/internal/ui"
)

var (
	matchStepsFlag string
	matchTagsFlag  string
)

var matchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Bind every step of a feature file against the step registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunMatch(cmd.OutOrStdout(), cfg, args[0], matchStepsFlag, matchTagsFlag)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchStepsFlag, "steps", "", "Step registry file (default from config)")
	matchCmd.Flags().StringVar(&matchTagsFlag, "tags", "", "Only bind examples matching this tag expression")
	rootCmd.AddCommand(matchCmd)
}

func RunMatch(w io.Writer, cfg *config.Config, path, stepsFile, tags string) error {
	if stepsFile == "" {
		stepsFile = cfg.StepsFile
	}
	registry, err := steps.LoadFile(stepsFile)
	if err != nil {
		return WrapExitCodeError(ExitConfigError, "loading step registry", err)
	}
	slog.Debug("step registry loaded", "path", stepsFile, "definitions", registry.Len())
	for _, def := range registry.Definitions() {
		slog.Debug("step definition", "pattern", def.Pattern.Source, "description", def.Description)
	}

	expr, err := tagFilter(cfg, tags)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NotFoundError("%s not found", path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	feature, err := gherkin.Parse(path, content)
	if err != nil {
		return err
	}

	var background []gherkin.Step
	if feature.Background != nil {
		background = feature.Background.Steps
	}

	bound, unbound := 0, 0
	for _, ex := range feature.Examples() {
		if !expr.Matches(ex.Tags) {
			continue
		}
		ui.ShowTitle(w, 0, ex.Heading)
		for _, s := range append(append([]gherkin.Step{}, background...), ex.Steps...) {
			in, _, err := registry.Match(s)
			var me *steps.MatchError
			switch {
			case errors.As(err, &me):
				status := "miss"
				if me.Kind == steps.Ambiguous {
					status = "ambi"
				}
				slog.Debug("step not bound", "line", s.Line, "err", err)
				ui.UnboundLine(w, status, s.Description)
				unbound++
			case err != nil:
				return err
			default:
				ui.BoundLine(w, s.Description, in.Values)
				bound++
			}
		}
	}

	ui.MatchSummary(w, bound, unbound)
	if unbound > 0 {
		return NewExitCodeError(ExitUnbound, fmt.Sprintf("%d steps in %s could not be bound", unbound, path))
	}
	return nil
}
