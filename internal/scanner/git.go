package scanner

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// GitChangedFiles returns files that have been modified, staged, or are
// untracked in the git repository rooted at root, filtered to the given
// extension set. If git is unavailable or root is not a git repository the
// function returns an empty slice and no error.
func GitChangedFiles(root string, exts []string) ([]string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, nil
	}
	if _, err := runGit(root, "rev-parse", "--git-dir"); err != nil {
		return nil, nil
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	seen := make(map[string]bool)
	var files []string
	collect := func(out string) {
		for _, f := range splitLines(out) {
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			if extSet[strings.ToLower(filepath.Ext(f))] {
				files = append(files, f)
			}
		}
	}

	// Tracked changes (staged + unstaged). Falls back to --cached for
	// repos without any commits yet.
	out, err := runGit(root, "diff", "--name-only", "HEAD")
	if err != nil {
		out, err = runGit(root, "diff", "--name-only", "--cached")
		if err != nil {
			return nil, nil
		}
	}
	collect(out)

	// Untracked files
	if out, err := runGit(root, "ls-files", "--others", "--exclude-standard"); err == nil {
		collect(out)
	}

	return files, nil
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
