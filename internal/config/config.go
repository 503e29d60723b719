// Package config loads and applies .codelens.yml configuration files and
// holds the resolved settings passed into the scan pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is used when neither the --server flag, the
// CODELENS_API_URL environment variable, nor a config file sets an address.
const DefaultServerURL = "http://localhost:3000"

// EnvServerURL is the environment variable carrying the service address.
// It is read once at process entry by the command layer; no other package
// touches the environment.
const EnvServerURL = "CODELENS_API_URL"

// DefaultConcurrency bounds the number of in-flight analysis requests.
const DefaultConcurrency = 8

// DefaultTimeoutSeconds is the per-request timeout against the service.
const DefaultTimeoutSeconds = 30

// DefaultExtensions are scanned when the user does not narrow the set.
var DefaultExtensions = []string{
	".js", ".ts", ".jsx", ".tsx", ".py", ".go", ".java",
	".rb", ".php", ".cs", ".c", ".cpp", ".rs",
}

// File represents the .codelens.yml configuration file.
type File struct {
	ServerURL   string   `yaml:"server_url,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
	Concurrency int      `yaml:"concurrency,omitempty"`
	Timeout     int      `yaml:"timeout,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	FailOn      string   `yaml:"fail_on,omitempty"`
}

// Load reads the .codelens.yml or .codelens.yaml config file from the given
// path. If path is a file, its parent directory is used. If no config file
// is found, it returns a zero File (not an error).
func Load(dir string) (File, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range []string{".codelens.yml", ".codelens.yaml"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return File{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > 1<<20 {
			return File{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("reading %s: %w", path, err)
		}
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return f, nil
	}
	return File{}, nil
}

// NormalizeExtensions lower-cases extensions and ensures each has a leading
// dot. Empty entries are dropped.
func NormalizeExtensions(exts []string) []string {
	var out []string
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
