package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetScanFlags() {
	resetPersistentFlags()
	flagFile = ""
	flagDir = ""
	flagExts = nil
	flagLanguage = ""
	flagChanged = false
	flagFailOn = ""
	flagCI = false
}

// newScanServer reports one high-severity finding for any code containing
// "eval(" and nothing otherwise.
func newScanServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/security/scan", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		vulns := []map[string]any{}
		if bytes.Contains([]byte(req.Code), []byte("eval(")) {
			vulns = append(vulns, map[string]any{
				"line":     1,
				"severity": "high",
				"message":  "Use of eval",
				"cwe":      "CWE-95",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"vulnerabilities": vulns})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScanRequiresFileOrDir(t *testing.T) {
	resetScanFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scan"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "exactly one of --file or --dir")
}

func TestScanRejectsBothFileAndDir(t *testing.T) {
	resetScanFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scan", "--file", "a.go", "--dir", "."})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "exactly one of --file or --dir")
}

func TestScanDirJSONOutput(t *testing.T) {
	resetScanFlags()
	srv := newScanServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.js"), []byte("eval(input)\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.js"), []byte("let x = 1\n"), 0644))

	outPath := filepath.Join(t.TempDir(), "report.json")

	rootCmd.SetArgs([]string{
		"scan", "--dir", dir,
		"--server", srv.URL,
		"--format", "json",
		"--output", outPath,
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	require.EqualValues(t, 1, rep["total_vulnerabilities"])
	require.EqualValues(t, 2, rep["files_scanned"])
}

func TestScanSingleFile(t *testing.T) {
	resetScanFlags()
	srv := newScanServer(t)

	path := filepath.Join(t.TempDir(), "snippet.data")
	require.NoError(t, os.WriteFile(path, []byte("eval(x)\n"), 0644))

	outPath := filepath.Join(t.TempDir(), "report.json")

	// A single file bypasses extension filtering entirely.
	rootCmd.SetArgs([]string{
		"scan", "--file", path,
		"--server", srv.URL,
		"--format", "json",
		"--output", outPath,
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	require.EqualValues(t, 1, rep["total_vulnerabilities"])
	require.EqualValues(t, 1, rep["files_scanned"])
}

func TestScanAllFilesFailed(t *testing.T) {
	resetScanFlags()

	// Server that always errors.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/security/scan", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("let x\n"), 0644))

	outPath := filepath.Join(t.TempDir(), "report.json")

	rootCmd.SetArgs([]string{
		"scan", "--dir", dir,
		"--server", srv.URL,
		"--format", "json",
		"--output", outPath,
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "analysis failed for all")

	// The report is still rendered before the error is returned.
	data, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)
	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	require.EqualValues(t, 1, rep["files_failed"])
}
