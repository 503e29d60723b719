package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yksanjo/codelens-cli/internal/config"
)

func TestLoadMissing(t *testing.T) {
	f, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, config.File{}, f)
}

func TestLoadYML(t *testing.T) {
	dir := t.TempDir()
	content := `
server_url: http://analysis.internal:8080
extensions: [".go", ".ts"]
concurrency: 4
timeout: 10
fail_on: high
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codelens.yml"), []byte(content), 0644))

	f, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "http://analysis.internal:8080", f.ServerURL)
	require.Equal(t, []string{".go", ".ts"}, f.Extensions)
	require.Equal(t, 4, f.Concurrency)
	require.Equal(t, 10, f.Timeout)
	require.Equal(t, "high", f.FailOn)
}

func TestLoadFromFilePath(t *testing.T) {
	// Passing a file path should load the config from its parent directory.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codelens.yaml"), []byte("format: json\n"), 0644))
	target := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0644))

	f, err := config.Load(target)
	require.NoError(t, err)
	require.Equal(t, "json", f.Format)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codelens.yml"), []byte("::: not yaml"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
}

func TestNormalizeExtensions(t *testing.T) {
	got := config.NormalizeExtensions([]string{"GO", ".Ts", " py ", "", ".rs"})
	require.Equal(t, []string{".go", ".ts", ".py", ".rs"}, got)
}

func TestDefaultExtensions(t *testing.T) {
	require.Contains(t, config.DefaultExtensions, ".ts")
	require.Contains(t, config.DefaultExtensions, ".rs")
	require.Len(t, config.DefaultExtensions, 13)
}
