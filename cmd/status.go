package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the catalogue by tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, cfg *config.Config) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var files, count int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return fmt.Errorf("counting files: %w", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM examples`).Scan(&count); err != nil {
		return fmt.Errorf("counting examples: %w", err)
	}

	fmt.Fprintf(w, "Files: %d\n", files)
	fmt.Fprintf(w, "Examples: %d\n", count)

	if count == 0 {
		return nil
	}

	rows, err := sqlDB.Query(`
		SELECT tag, COUNT(*) AS cnt
		FROM example_tags
		GROUP BY tag
		ORDER BY cnt DESC, tag
	`)
	if err != nil {
		return fmt.Errorf("querying tag counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		var cnt int
		if err := rows.Scan(&tag, &cnt); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		fmt.Fprintf(w, "  @%s: %d\n", tag, cnt)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var untagged int
	err = sqlDB.QueryRow(`
		SELECT COUNT(*) FROM examples e
		WHERE NOT EXISTS (SELECT 1 FROM example_tags t WHERE t.example_id = e.id)
	`).Scan(&untagged)
	if err != nil {
		return fmt.Errorf("counting untagged examples: %w", err)
	}
	if untagged > 0 {
		fmt.Fprintf(w, "  untagged: %d\n", untagged)
	}
	return nil
}
