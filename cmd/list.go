package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/db"
	"github.com/chriserin/gk/internal/tagexpr"
	"github.com/chriserin/gk/internal/ui"
)

var listTagsFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), cfg, listTagsFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTagsFlag, "tags", "", `Tag expression, e.g. "@smoke and not @wip" (default from config)`)
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	name     string
	tags     []string
}

// tagFilter parses the expression from the flag, falling back to config.
func tagFilter(cfg *config.Config, flag string) (*tagexpr.Expr, error) {
	text := flag
	if text == "" {
		text = cfg.Tags
	}
	expr, err := tagexpr.Parse(text)
	if err != nil {
		return nil, WrapExitCodeError(ExitError, "invalid --tags", err)
	}
	return expr, nil
}

func RunList(w io.Writer, cfg *config.Config, tags string) error {
	if err := requireInit(cfg); err != nil {
		return err
	}
	expr, err := tagFilter(cfg, tags)
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	tagsByExample, err := loadTags(sqlDB)
	if err != nil {
		return err
	}

	rows, err := sqlDB.Query(`
		SELECT e.id, f.file_path, e.name
		FROM examples e
		JOIN files f ON e.file_id = f.id
		ORDER BY f.file_path, e.position
	`)
	if err != nil {
		return fmt.Errorf("querying examples: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.name); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		r.tags = tagsByExample[r.id]

		if !expr.Matches(r.tags) {
			continue
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		idWidth = max(idWidth, len(fmt.Sprintf("#%d", r.id)))
		fileWidth = max(fileWidth, len(r.fileName))
		nameWidth = max(nameWidth, len(r.name))
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.name, r.tags, idWidth, fileWidth, nameWidth)
	}

	return nil
}

// loadTags returns every example's tags in the order they were stored.
func loadTags(sqlDB *sql.DB) (map[int64][]string, error) {
	rows, err := sqlDB.Query(`SELECT example_id, tag FROM example_tags ORDER BY example_id, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	return tags, rows.Err()
}
