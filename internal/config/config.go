// Package config loads the optional packdrift.toml project configuration
// and merges it over built-in defaults.
//
// Every tunable the reconciliation engine consults lives here: scan
// scope, filter lists, manifest and lockfile locations, registry
// endpoints, and the host tools the sysdeps check verifies. Filter lists
// are additive; a project extends the built-in base-package and
// placeholder sets rather than replacing them.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/packdrift/packdrift/pkg/errors"
	"github.com/packdrift/packdrift/pkg/rpkg"
)

// DefaultFileName is the config file looked up in the project root when
// no explicit path is given.
const DefaultFileName = "packdrift.toml"

// Scan controls which files the extractor visits.
type Scan struct {
	Roots            []string `toml:"roots"`
	StrictRoots      []string `toml:"strict_roots"`
	Extensions       []string `toml:"extensions"`
	StrictExtensions []string `toml:"strict_extensions"`
	Skip             []string `toml:"skip"`
}

// Filters extends the built-in name filter sets.
type Filters struct {
	ExtraBasePackages []string `toml:"extra_base_packages"`
	ExtraPlaceholders []string `toml:"extra_placeholders"`
	Protected         []string `toml:"protected"`
}

// Manifest locates the declared-dependency file.
type Manifest struct {
	Path  string `toml:"path"`
	Field string `toml:"field"`
}

// Lockfile locates the pinned-version file and its bootstrap defaults.
type Lockfile struct {
	Path           string `toml:"path"`
	RuntimeVersion string `toml:"runtime_version"`
	RepositoryURL  string `toml:"repository_url"`
	ReferenceURL   string `toml:"reference_url"`
}

// Registries holds the probe endpoints for the validation cascade.
type Registries struct {
	PrimaryURL  string `toml:"primary_url"`
	SnapshotURL string `toml:"snapshot_url"`
	Snapshot    string `toml:"snapshot"`
	GitHubURL   string `toml:"github_url"`
}

// SysDeps lists the host tools the system-dependency check verifies.
// Missing required tools fail the check; missing optional tools only
// downgrade dependent behavior with a warning.
type SysDeps struct {
	Required []string `toml:"required"`
	Optional []string `toml:"optional"`
}

// Config is the merged project configuration.
type Config struct {
	Scan       Scan       `toml:"scan"`
	Filters    Filters    `toml:"filters"`
	Manifest   Manifest   `toml:"manifest"`
	Lockfile   Lockfile   `toml:"lockfile"`
	Registries Registries `toml:"registries"`
	SysDeps    SysDeps    `toml:"sysdeps"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scan: Scan{
			Roots:            []string{"R"},
			StrictRoots:      []string{"R", "tests", "vignettes", "inst"},
			Extensions:       []string{".r"},
			StrictExtensions: []string{".r", ".rmd"},
			Skip:             []string{"renv/**", "packrat/**", ".git/**"},
		},
		Manifest: Manifest{
			Path: "DESCRIPTION",
		},
		Lockfile: Lockfile{
			Path:           "renv.lock",
			RuntimeVersion: "4.3.2",
			RepositoryURL:  "https://cloud.r-project.org",
		},
		Registries: Registries{
			PrimaryURL:  "https://crandb.r-pkg.org",
			SnapshotURL: "https://packagemanager.posit.co/cran",
			Snapshot:    "latest",
			GitHubURL:   "https://api.github.com",
		},
		SysDeps: SysDeps{
			Required: []string{"git"},
			Optional: []string{"curl"},
		},
	}
}

// Load reads the config file at path, merged over defaults. An empty
// path looks for DefaultFileName under root; a missing file is a soft
// miss that yields the defaults. A malformed file is a hard error.
func Load(root, path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, DefaultFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed config %s", path).
			WithRemediation("fix the TOML syntax in %s or remove the file to fall back to defaults", path)
	}
	return cfg, nil
}

// Filter builds the name filter from the merged lists. projectName, when
// known, joins the placeholder set so a package never declares itself.
func (c *Config) Filter(projectName string) *rpkg.Filter {
	base := append(rpkg.DefaultBasePackages(), c.Filters.ExtraBasePackages...)
	placeholders := append(rpkg.DefaultPlaceholders(), c.Filters.ExtraPlaceholders...)
	return rpkg.NewFilter(base, placeholders, c.Filters.Protected, projectName)
}

// ScanOptions resolves the scan scope. Strict scope widens both the
// roots walked and the extensions read.
func (c *Config) ScanOptions(strict bool) (roots, extensions, skip []string) {
	if strict {
		return c.Scan.StrictRoots, c.Scan.StrictExtensions, c.Scan.Skip
	}
	return c.Scan.Roots, c.Scan.Extensions, c.Scan.Skip
}
