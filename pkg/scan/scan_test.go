package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/packdrift/packdrift/pkg/rpkg"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testFilter() *rpkg.Filter {
	return rpkg.NewFilter(rpkg.DefaultBasePackages(), rpkg.DefaultPlaceholders(), nil, "myproj")
}

func TestScanCollectsSortedSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "R/model.R", "library(ggplot2)\nlibrary(dplyr)\n")
	writeFile(t, root, "R/utils.R", "stringr::str_trim(x)\n")

	res, err := Scan(root, Options{Roots: []string{"R"}, Extensions: []string{".R"}}, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []string{"dplyr", "ggplot2", "stringr"}
	if !reflect.DeepEqual(res.Packages, want) {
		t.Errorf("Packages = %v, want %v", res.Packages, want)
	}
	if res.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", res.FilesScanned)
	}
}

func TestScanDropsBaseAndPlaceholders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "R/a.R", "library(stats)\nlibrary(pkg)\nlibrary(myproj)\nlibrary(dplyr)\n")

	res, err := Scan(root, Options{Roots: []string{"R"}, Extensions: []string{".R"}}, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []string{"dplyr"}
	if !reflect.DeepEqual(res.Packages, want) {
		t.Errorf("Packages = %v, want %v", res.Packages, want)
	}
}

func TestScanCountsInvalidTokens(t *testing.T) {
	root := t.TempDir()
	// "ab" is too short, "x2" too short; both extracted but invalid.
	writeFile(t, root, "R/a.R", "library(ab)\nlibrary(dplyr)\n")

	res, err := Scan(root, Options{Roots: []string{"R"}, Extensions: []string{".R"}}, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if res.InvalidCount != 1 {
		t.Errorf("InvalidCount = %d, want 1", res.InvalidCount)
	}
	if !reflect.DeepEqual(res.Packages, []string{"dplyr"}) {
		t.Errorf("Packages = %v", res.Packages)
	}
}

func TestScanRespectsSkipPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "R/a.R", "library(dplyr)\n")
	writeFile(t, root, "R/generated/gen.R", "library(ignored)\n")

	opts := Options{
		Roots:        []string{"R"},
		Extensions:   []string{".R"},
		SkipPatterns: []string{"R/generated/**", "R/generated"},
	}
	res, err := Scan(root, opts, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !reflect.DeepEqual(res.Packages, []string{"dplyr"}) {
		t.Errorf("Packages = %v, want [dplyr]", res.Packages)
	}
}

func TestScanRespectsExtensionAllowList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "R/a.R", "library(dplyr)\n")
	writeFile(t, root, "R/notes.txt", "library(nottracked)\n")

	res, err := Scan(root, Options{Roots: []string{"R"}, Extensions: []string{".R"}}, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !reflect.DeepEqual(res.Packages, []string{"dplyr"}) {
		t.Errorf("Packages = %v, want [dplyr]", res.Packages)
	}
}

func TestScanMissingRootIsNotAnError(t *testing.T) {
	root := t.TempDir()

	res, err := Scan(root, Options{Roots: []string{"R", "vignettes"}, Extensions: []string{".R"}}, testFilter())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(res.Packages) != 0 {
		t.Errorf("Packages = %v, want empty", res.Packages)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "R/a.R", "library(zoo)\nlibrary(dplyr)\n")
	writeFile(t, root, "R/b.R", "library(arrow)\n")

	opts := Options{Roots: []string{"R"}, Extensions: []string{".R"}}
	first, err := Scan(root, opts, testFilter())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan(root, opts, testFilter())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Packages, second.Packages) {
		t.Errorf("repeated scans differ: %v vs %v", first.Packages, second.Packages)
	}
}
