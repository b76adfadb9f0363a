package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gk in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer, cfg *config.Config) error {
	dir := cfg.FeaturesDir
	_, err := os.Stat(dir)
	dirExists := err == nil
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dir)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	_, err = os.Stat(cfg.Database)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.Database)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.Database)
	}
	slog.Debug("database ready", "path", cfg.Database)

	msgs, err := ensureGitignore(filepath.ToSlash(cfg.Database))
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

// ensureGitignore adds the database files to .gitignore. SQLite's WAL
// sidecar files are covered by a second glob entry.
func ensureGitignore(dbPath string) ([]string, error) {
	entries := []string{dbPath, dbPath + "-*"}

	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(strings.Join(entries, "\n")+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", dbPath + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return []string{dbPath + " already in .gitignore"}, nil
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	if !present[dbPath] {
		return []string{dbPath + " added to .gitignore"}, nil
	}
	return []string{dbPath + " already in .gitignore"}, nil
}
