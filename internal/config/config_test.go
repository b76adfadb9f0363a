package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with an empty HOME.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	t.Setenv("HOME", filepath.Join(dir, "home"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "features", cfg.FeaturesDir)
	assert.Equal(t, "features/gk.db", cfg.Database)
	assert.Equal(t, "steps.yaml", cfg.StepsFile)
	assert.Equal(t, "", cfg.Tags)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "", cfg.Path())
}

func TestLoad_LocalFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(LocalFile, []byte("features_dir: specs\ntags: \"@smoke and not @wip\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "specs", cfg.FeaturesDir)
	assert.Equal(t, "@smoke and not @wip", cfg.Tags)
	assert.Equal(t, LocalFile, cfg.Path())
}

func TestLoad_UserFile(t *testing.T) {
	dir := isolate(t)
	userDir := filepath.Join(dir, "home", ".config", "gk")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("workers: 2\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "features", cfg.FeaturesDir)
}

func TestLoad_LocalFileWinsOverUserFile(t *testing.T) {
	dir := isolate(t)
	userDir := filepath.Join(dir, "home", ".config", "gk")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("workers: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(LocalFile, []byte("workers: 3\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps_file: bindings.yaml\n"), 0o644))
	require.NoError(t, os.WriteFile(LocalFile, []byte("steps_file: ignored.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bindings.yaml", cfg.StepsFile)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load("nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file nope.yaml not found")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(LocalFile, []byte("workers: 3\n"), 0o644))
	t.Setenv("GK_WORKERS", "8")
	t.Setenv("GK_FEATURES_DIR", "acceptance")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "acceptance", cfg.FeaturesDir)
}

func TestLoad_InvalidWorkers(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(LocalFile, []byte("workers: 0\n"), 0o644))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(LocalFile, []byte("workers: [\n"), 0o644))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
