// Package lockfile reads and writes the renv-style lockfile pinning exact
// resolved package versions.
//
// The document layout is:
//
//	{
//	  "R": {"Version": "4.3.2", "Repositories": [{"Name": "CRAN", "URL": "..."}]},
//	  "Packages": {"dplyr": {"Package": "dplyr", "Version": "1.1.0", ...}}
//	}
//
// Mutation is append/update-only: an upsert touches exactly one keyed
// entry and rewrites the document through an atomic scratch-file swap.
package lockfile

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/packdrift/packdrift/pkg/errors"
	pkgio "github.com/packdrift/packdrift/pkg/io"
)

// BootstrapPackage is the reserved entry naming the bootstrap utility
// whose version is synchronized from a reference environment.
const BootstrapPackage = "renv"

// Repository is a named package source URL.
type Repository struct {
	Name string `json:"Name"`
	URL  string `json:"URL"`
}

// Runtime pins the R version and its repositories.
type Runtime struct {
	Version      string       `json:"Version"`
	Repositories []Repository `json:"Repositories"`
}

// Package is one pinned dependency.
type Package struct {
	Package    string `json:"Package"`
	Version    string `json:"Version"`
	Source     string `json:"Source"`
	Repository string `json:"Repository,omitempty"`
}

// Document is the full lockfile contents.
type Document struct {
	R        Runtime            `json:"R"`
	Packages map[string]Package `json:"Packages"`
}

// Store is a handle on a lockfile with the defaults used when the file
// has to be materialized from scratch.
type Store struct {
	Path                  string
	DefaultRuntimeVersion string
	DefaultRepositoryURL  string

	// Logf receives progress/side-effect messages (optional).
	Logf func(format string, args ...any)
}

func (s *Store) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// Load reads the lockfile. A missing file is materialized first as a
// minimal valid document (default runtime version, default primary
// repository) — a logged side effect, not an error.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		doc := s.minimalDocument()
		if err := s.write(doc); err != nil {
			return nil, err
		}
		s.logf("created %s with runtime %s", s.Path, doc.R.Version)
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "cannot read lockfile %s", s.Path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "malformed lockfile %s", s.Path).
			WithRemediation("fix or delete %s and rerun; a minimal lockfile will be recreated", s.Path)
	}
	if doc.Packages == nil {
		doc.Packages = make(map[string]Package)
	}
	return &doc, nil
}

// ListPackages returns the sorted set of pinned package names.
func (s *Store) ListPackages() ([]string, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Packages))
	for name := range doc.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Upsert inserts or overwrites exactly one keyed entry, leaving every
// other entry untouched, and swaps the rewritten file into place
// atomically.
func (s *Store) Upsert(name, version, source, repository string) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	doc.Packages[name] = Package{
		Package:    name,
		Version:    version,
		Source:     source,
		Repository: repository,
	}
	return s.write(doc)
}

func (s *Store) minimalDocument() *Document {
	return &Document{
		R: Runtime{
			Version: s.DefaultRuntimeVersion,
			Repositories: []Repository{
				{Name: "CRAN", URL: s.DefaultRepositoryURL},
			},
		},
		Packages: make(map[string]Package),
	}
}

func (s *Store) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteLockfile, err, "cannot encode lockfile %s", s.Path)
	}
	data = append(data, '\n')
	if err := pkgio.WriteFileAtomic(s.Path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteLockfile, err, "cannot rewrite %s", s.Path).
			WithRemediation("check permissions on %s; no partial write was left behind", s.Path)
	}
	return nil
}
