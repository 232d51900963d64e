// Package scan discovers R package usage in a project's source tree.
//
// The scanner walks configured root directories, extracts raw candidate
// tokens from load calls (library, require, requireNamespace),
// namespace-qualified calls (pkg::fun), and roxygen import annotations,
// then normalizes them: format-invalid tokens are dropped (counted in
// aggregate), base packages and placeholders are excluded, and the result
// is deduplicated and sorted. Scanning is deterministic and has no side
// effects.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/packdrift/packdrift/pkg/rpkg"
)

// Options controls which files the scanner visits.
type Options struct {
	Roots        []string // directories under the project root to walk
	Extensions   []string // file extensions to read (e.g. ".R", ".Rmd")
	SkipPatterns []string // doublestar globs, matched against slash paths relative to the project root
}

// Result holds the normalized code usage set for one run.
type Result struct {
	Packages     []string // sorted, deduplicated, filtered
	InvalidCount int      // tokens dropped for failing name validation
	FilesScanned int
}

// Scan walks the project at root and returns its code usage set.
// Roots that do not exist are skipped silently; the code usage set is
// ephemeral and recomputed on every run.
func Scan(root string, opts Options, filter *rpkg.Filter) (*Result, error) {
	res := &Result{}
	seen := make(map[string]bool)
	exts := toExtSet(opts.Extensions)

	for _, dir := range opts.Roots {
		base := filepath.Join(root, dir)
		if _, err := os.Stat(base); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if skipped(rel, opts.SkipPatterns) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			tokens, err := extractReader(f)
			if err != nil {
				return err
			}
			res.FilesScanned++

			for _, tok := range tokens {
				if seen[tok] {
					continue
				}
				seen[tok] = true
				if !rpkg.IsValidName(tok) {
					res.InvalidCount++
					continue
				}
				if filter.Excluded(tok) {
					continue
				}
				res.Packages = append(res.Packages, tok)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(res.Packages)
	return res, nil
}

func skipped(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func toExtSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}
