package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/db"
	"github.com/chriserin/gk/internal/gherkin"
	"github.com/chriserin/gk/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse feature files and catalogue their examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// parsed is the outcome of reading and parsing one feature file.
type parsed struct {
	path    string
	catalog *gherkin.Catalog
	err     error
}

func requireInit(cfg *config.Config) error {
	if _, err := os.Stat(cfg.FeaturesDir); os.IsNotExist(err) {
		return NewExitCodeError(ExitConfigError, "run `gk init` first")
	}
	return nil
}

func RunSync(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if err := requireInit(cfg); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	matches, err := filepath.Glob(filepath.Join(cfg.FeaturesDir, "*.feature"))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.FeaturesDir, err)
	}
	sort.Strings(matches)

	results, err := parseAll(ctx, matches, cfg.Workers)
	if err != nil {
		return err
	}

	count := 0
	for _, r := range results {
		if r.err != nil {
			slog.Warn("skipping invalid feature file", "path", r.path, "err", r.err)
			ui.ErrLine(w, r.path, r.err)
			continue
		}
		isNew, err := storeCatalog(ctx, sqlDB, r.path, r.catalog)
		if err != nil {
			return fmt.Errorf("storing %s: %w", r.path, err)
		}
		if isNew {
			ui.NewLine(w, r.path)
		} else {
			ui.TrkLine(w, r.path)
		}
		slog.Debug("catalogued", "path", r.path, "examples", len(r.catalog.Entries))
		count++
	}

	removed, err := removeMissing(ctx, sqlDB, matches)
	if err != nil {
		return err
	}
	for _, path := range removed {
		ui.DelLine(w, path)
	}

	ui.SummaryLine(w, count)
	return nil
}

// parseAll reads and parses every path on at most workers goroutines.
// Parse failures are kept per file; only I/O errors abort.
func parseAll(ctx context.Context, paths []string, workers int) ([]parsed, error) {
	results := make([]parsed, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			results[i].path = path
			feature, err := gherkin.Parse(path, content)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].catalog = gherkin.Transform(feature, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// storeCatalog records one file and its examples in a single transaction.
// Examples keep their ids as long as their position in the file is stable.
func storeCatalog(ctx context.Context, sqlDB *sql.DB, path string, c *gherkin.Catalog) (isNew bool, err error) {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var fileID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM files WHERE file_path = ?`, path).Scan(&fileID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, `INSERT INTO files (file_path, feature) VALUES (?, ?)`, path, c.Name)
		if err != nil {
			return false, fmt.Errorf("inserting file: %w", err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return false, err
		}
		isNew = true
	case err != nil:
		return false, fmt.Errorf("querying file: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE files SET feature = ?, updated_at = datetime('now') WHERE id = ?`, c.Name, fileID); err != nil {
			return false, fmt.Errorf("updating file: %w", err)
		}
	}

	for _, e := range c.Entries {
		var exampleID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO examples (file_id, position, rule, name, line) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (file_id, position) DO UPDATE SET
				rule = excluded.rule,
				name = excluded.name,
				line = excluded.line,
				updated_at = datetime('now')
			RETURNING id
		`, fileID, e.Position, e.Rule, e.Name, e.Line).Scan(&exampleID)
		if err != nil {
			return false, fmt.Errorf("storing example %q: %w", e.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM example_tags WHERE example_id = ?`, exampleID); err != nil {
			return false, fmt.Errorf("clearing tags: %w", err)
		}
		for _, tag := range e.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO example_tags (example_id, tag) VALUES (?, ?)`, exampleID, tag); err != nil {
				return false, fmt.Errorf("storing tag %q: %w", tag, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM examples WHERE file_id = ? AND position >= ?`, fileID, len(c.Entries)); err != nil {
		return false, fmt.Errorf("pruning examples: %w", err)
	}

	return isNew, tx.Commit()
}

// removeMissing drops files that are catalogued but no longer on disk.
func removeMissing(ctx context.Context, sqlDB *sql.DB, onDisk []string) ([]string, error) {
	keep := make(map[string]bool, len(onDisk))
	for _, p := range onDisk {
		keep[p] = true
	}

	rows, err := sqlDB.QueryContext(ctx, `SELECT file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	var gone []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		if !keep[path] {
			gone = append(gone, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	for _, path := range gone {
		if _, err := sqlDB.ExecContext(ctx, `DELETE FROM files WHERE file_path = ?`, path); err != nil {
			return nil, fmt.Errorf("removing %s: %w", path, err)
		}
		slog.Debug("removed from catalogue", "path", path)
	}
	return gone, nil
}
