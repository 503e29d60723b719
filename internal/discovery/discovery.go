// Package discovery enumerates candidate source files under a root
// directory, filtered by extension, for submission to the analysis service.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yksanjo/codelens-cli/internal/types"
)

// excludedDirs are never descended into, in addition to hidden directories.
var excludedDirs = map[string]bool{
	"node_modules": true,
}

// Result holds the discovered file set plus any paths that could not be
// traversed. Callers can surface Skipped as partial-coverage warnings.
type Result struct {
	Files   []string
	Skipped []types.SkippedPath
}

// Discover walks root depth-first and returns every file whose extension is
// in exts. Extensions must be lower-cased and dot-prefixed (see
// config.NormalizeExtensions). Traversal errors are non-fatal: the offending
// subtree is recorded in Skipped and the walk continues.
func Discover(root string, exts []string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("no extensions to match")
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	res := &Result{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Skipped = append(res.Skipped, types.SkippedPath{Path: path, Cause: err.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || excludedDirs[name]) {
				return fs.SkipDir
			}
			return nil
		}
		if extSet[strings.ToLower(filepath.Ext(path))] {
			res.Files = append(res.Files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}
	return res, nil
}
