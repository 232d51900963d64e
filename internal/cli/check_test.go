package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/packdrift/packdrift/pkg/lockfile"
	"github.com/packdrift/packdrift/pkg/manifest"
)

// writeProject lays out a minimal R project under dir.
func writeProject(t *testing.T, dir, primaryURL string) {
	t.Helper()

	mustWrite(t, filepath.Join(dir, "DESCRIPTION"),
		"Package: demoproj\nImports:\n    dplyr (>= 1.0)\n")
	mustWrite(t, filepath.Join(dir, "R", "analysis.R"),
		"library(dplyr)\nggplot2::ggplot(df)\n")
	mustWrite(t, filepath.Join(dir, "renv.lock"), `{
  "R": {"Version": "4.3.2", "Repositories": [{"Name": "CRAN", "URL": "https://cloud.r-project.org"}]},
  "Packages": {"dplyr": {"Package": "dplyr", "Version": "1.1.0", "Source": "Repository", "Repository": "CRAN"}}
}`)
	mustWrite(t, filepath.Join(dir, "packdrift.toml"), fmt.Sprintf(`
[registries]
primary_url = %q
snapshot_url = %q
github_url = %q
`, primaryURL, primaryURL+"/snap", primaryURL+"/gh"))
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func cranServer(t *testing.T, versions map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		version, ok := versions[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"Package": name, "Version": version})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testContext() context.Context {
	// Error level keeps test output quiet.
	return withLogger(context.Background(), newLogger(os.Stderr, charmlog.ErrorLevel))
}

func TestRunCheckFixClosesAllGaps(t *testing.T) {
	srv := cranServer(t, map[string]string{"dplyr": "1.1.0", "ggplot2": "3.5.0"})
	dir := t.TempDir()
	writeProject(t, dir, srv.URL)

	if err := runCheck(testContext(), dir, checkOpts{fix: true}); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	declared, err := manifest.New(filepath.Join(dir, "DESCRIPTION")).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(declared, ","); got != "dplyr,ggplot2" {
		t.Errorf("manifest = %s", got)
	}

	store := &lockfile.Store{Path: filepath.Join(dir, "renv.lock")}
	doc, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Packages["ggplot2"].Version != "3.5.0" {
		t.Errorf("lock ggplot2 = %+v", doc.Packages["ggplot2"])
	}

	// A second pass finds nothing to do.
	if err := runCheck(testContext(), dir, checkOpts{fix: true}); err != nil {
		t.Errorf("second runCheck() must pass: %v", err)
	}
}

func TestRunCheckWithoutFixReportsFailure(t *testing.T) {
	srv := cranServer(t, map[string]string{"dplyr": "1.1.0", "ggplot2": "3.5.0"})
	dir := t.TempDir()
	writeProject(t, dir, srv.URL)

	before, _ := os.ReadFile(filepath.Join(dir, "DESCRIPTION"))

	err := runCheck(testContext(), dir, checkOpts{})
	if err == nil || !strings.Contains(err.Error(), "FailedNoFix") {
		t.Errorf("runCheck() = %v, want FailedNoFix failure", err)
	}

	after, _ := os.ReadFile(filepath.Join(dir, "DESCRIPTION"))
	if string(before) != string(after) {
		t.Error("check without --fix must not mutate the manifest")
	}
}

func TestRunCheckPrunesUnusedDeclaration(t *testing.T) {
	srv := cranServer(t, map[string]string{"dplyr": "1.1.0", "ggplot2": "3.5.0", "unusedpkg": "0.1"})
	dir := t.TempDir()
	writeProject(t, dir, srv.URL)

	// Declare a package the code never uses.
	if err := manifest.New(filepath.Join(dir, "DESCRIPTION")).AddDeclaration("unusedpkg"); err != nil {
		t.Fatal(err)
	}

	if err := runCheck(testContext(), dir, checkOpts{fix: true}); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	declared, _ := manifest.New(filepath.Join(dir, "DESCRIPTION")).Parse()
	for _, name := range declared {
		if name == "unusedpkg" {
			t.Errorf("unusedpkg should have been pruned, manifest = %v", declared)
		}
	}
}
