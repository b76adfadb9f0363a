package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/db"
	"github.com/chriserin/gk/internal/gherkin"
	"github.com/chriserin/gk/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalogued example with its Background",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, rawID string) error {
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid example ID: %s", rawID)
	}

	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var position, line int
	var filePath string
	err = sqlDB.QueryRow(`
		SELECT e.position, e.line, f.file_path
		FROM examples e
		JOIN files f ON e.file_id = f.id
		WHERE e.id = ?
	`, id).Scan(&position, &line, &filePath)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFoundError("example %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("querying example %d: %w", id, err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}
	feature, err := gherkin.Parse(filePath, content)
	if err != nil {
		return err
	}

	examples := feature.Examples()
	if position >= len(examples) {
		return NotFoundError("example %d not found in %s, run `gk sync`", id, filePath)
	}
	ex := examples[position]

	ui.ShowHeader(w, id, filepath.Base(filePath), line)

	if bg := feature.Background; bg != nil {
		fmt.Fprintln(w)
		ui.ShowTitle(w, 2, bg.Heading)
		showSteps(w, bg.Steps)
	}

	fmt.Fprintln(w)
	ui.ShowTags(w, 2, ex.Tags)
	ui.ShowTitle(w, 2, ex.Heading)
	showSteps(w, ex.Steps)

	return nil
}

func showSteps(w io.Writer, steps []gherkin.Step) {
	for _, s := range steps {
		ui.ShowStep(w, 4, s.Description)
		if s.Argument == nil {
			continue
		}
		if s.Argument.DocString != nil {
			ui.ShowDocString(w, 6, s.Argument.DocString.Content)
		}
		if s.Argument.DataTable != nil {
			ui.ShowTable(w, 6, s.Argument.DataTable.Rows)
		}
	}
}
