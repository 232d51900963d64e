package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/packdrift/packdrift/pkg/registry"
	"github.com/packdrift/packdrift/pkg/rpkg"
)

// Manifest is the declared-dependency surface the runner mutates.
// *manifest.File satisfies it.
type Manifest interface {
	Parse() ([]string, error)
	AddDeclaration(name string) error
	RemoveDeclarations(names []string, isProtected func(string) bool) ([]string, error)
}

// LockStore is the pinned-version surface the runner mutates.
// *lockfile.Store satisfies it.
type LockStore interface {
	ListPackages() ([]string, error)
	Upsert(name, version, source, repository string) error
}

// Resolver runs the registry cascade for one name.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*registry.Result, error)
}

// VersionLookup fetches version metadata from the primary registry. The
// runner always makes this second round-trip for installable names: a
// hit from the secondary or VCS probe confirms existence but does not
// guarantee version metadata.
type VersionLookup interface {
	Version(ctx context.Context, name string) (string, error)
}

// Options controls which mutation stages run.
type Options struct {
	Fix   bool // apply manifest and lockfile fixes
	Prune bool // remove unused manifest entries
}

// Runner drives one reconciliation pass: Scan results come in, the runner
// diffs them against manifest and lockfile, optionally fixes both, prunes,
// and reports. Both files are shared mutable state with no internal
// locking, so a Runner must not be used concurrently; all writes happen
// sequentially within Run.
type Runner struct {
	Manifest  Manifest
	Lock      LockStore
	Validator Resolver
	Versions  VersionLookup
	Filter    *rpkg.Filter
	Options   Options

	// Logf receives progress diagnostics (optional).
	Logf func(format string, args ...any)
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// Run executes the reconciliation state machine:
//
//	Scan → Diff → (ManifestFix?) → (RegistryValidate → LockFix?) → Prune → Report
//
// code is the normalized code usage set from the scanner and
// invalidTokens its aggregate drop count. Partial progress is always
// committed: a failure on one name never rolls back earlier successes.
// Run returns an error only for faults that prevent diffing at all
// (an unreadable manifest or lockfile); fix failures land in the report.
func (r *Runner) Run(ctx context.Context, code []string, invalidTokens int) (*Report, error) {
	declared, err := r.Manifest.Parse()
	if err != nil {
		return nil, err
	}
	locked, err := r.Lock.ListPackages()
	if err != nil {
		return nil, err
	}

	union := NewUnion(code, declared, locked, r.Filter)
	report := &Report{
		CodePackages:        code,
		InvalidTokens:       invalidTokens,
		MissingFromManifest: union.MissingFromManifest(),
		MissingFromLock:     union.MissingFromLock(r.Filter),
		LockAdded:           make(map[string]string),
	}

	if r.Options.Fix {
		r.fixManifest(union, report)
	}
	r.validateAndFixLock(ctx, report)
	if r.Options.Prune {
		r.prune(union, report)
	}

	report.Verdict = r.verdict(report)
	return report, nil
}

// fixManifest appends each missing declaration. Failures are collected
// per name and do not stop the loop; successes stay committed.
func (r *Runner) fixManifest(union *Union, report *Report) {
	for _, name := range report.MissingFromManifest {
		if err := r.Manifest.AddDeclaration(name); err != nil {
			report.ManifestFailures = append(report.ManifestFailures, NameError{Name: name, Err: err})
			r.logf("manifest: could not declare %s: %v", name, err)
			continue
		}
		union.markDeclared(name)
		report.ManifestAdded = append(report.ManifestAdded, name)
		r.logf("manifest: declared %s", name)
	}
}

// validateAndFixLock partitions the lock-missing names into installable
// and non-installable via the registry cascade. The cascade runs even
// when fixing is disabled so the report can carry manual-install
// guidance; writes only happen with fixing enabled. Non-installable
// names are never written.
func (r *Runner) validateAndFixLock(ctx context.Context, report *Report) {
	for _, name := range report.MissingFromLock {
		res, err := r.Validator.Resolve(ctx, name)
		if err != nil {
			report.LockFailures = append(report.LockFailures, NameError{Name: name, Err: err})
			continue
		}
		if !res.Found {
			report.NonInstallable = append(report.NonInstallable, NonInstallable{
				Name:              name,
				TransportFailures: res.TransportFailures,
				Remediation:       manualInstallHint(name, res.TransportFailures),
			})
			continue
		}
		if !r.Options.Fix {
			continue
		}
		r.lockPackage(ctx, name, res.Metadata, report)
	}
}

// lockPackage pins one confirmed name. The version comes from the
// primary round-trip, falling back to the cascade's own metadata; a name
// with no version obtainable is a lock-fix failure.
func (r *Runner) lockPackage(ctx context.Context, name string, meta *registry.Metadata, report *Report) {
	version, err := r.Versions.Version(ctx, name)
	if err != nil || version == "" {
		if meta != nil {
			version = meta.Version
		}
	}
	if version == "" {
		report.LockFailures = append(report.LockFailures, NameError{
			Name: name,
			Err:  fmt.Errorf("no version metadata for %s", name),
		})
		return
	}

	source, repo := lockSource(meta)
	if err := r.Lock.Upsert(name, version, source, repo); err != nil {
		report.LockFailures = append(report.LockFailures, NameError{Name: name, Err: err})
		return
	}
	report.LockAdded[name] = version
	r.logf("lockfile: pinned %s %s", name, version)
}

// prune removes manifest entries no longer used by code, skipping
// protected names. Prune failures are logged and never alter the verdict.
func (r *Runner) prune(union *Union, report *Report) {
	var unused []string
	for _, name := range union.Names() {
		p, _ := union.Provenance(name)
		if p.FromManifest && !p.FromCode {
			unused = append(unused, name)
		}
	}
	if len(unused) == 0 {
		return
	}

	var isProtected func(string) bool
	if r.Filter != nil {
		isProtected = r.Filter.IsProtected
	}
	removed, err := r.Manifest.RemoveDeclarations(unused, isProtected)
	if err != nil {
		r.logf("prune: %v", err)
		return
	}
	report.Pruned = removed
}

// verdict maps the report to its terminal state. Manifest-fix failures
// dominate, then lock-side failures; with fixing disabled any remaining
// inconsistency is FailedNoFix. Pruning never changes the outcome.
func (r *Runner) verdict(report *Report) Verdict {
	if !r.Options.Fix {
		if report.Consistent() {
			return VerdictPassed
		}
		return VerdictFailedNoFix
	}
	switch {
	case len(report.ManifestFailures) > 0:
		return VerdictFailedManifestFix
	case len(report.LockFailures) > 0 || len(report.NonInstallable) > 0:
		return VerdictFailedLockFix
	default:
		return VerdictPassed
	}
}

// lockSource maps cascade metadata to the lockfile's Source/Repository
// fields.
func lockSource(meta *registry.Metadata) (source, repository string) {
	if meta != nil && meta.Registry == registry.RegistryGitHub {
		return "GitHub", ""
	}
	return "Repository", "CRAN"
}

// manualInstallHint builds the guidance shown for a name no registry
// confirmed.
func manualInstallHint(name string, transportFailures []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "install %q manually, e.g. renv::install(%q) from a local source, or declare it as owner/repo for a VCS install", name, name)
	if len(transportFailures) > 0 {
		fmt.Fprintf(&b, "; note: %s could not be reached, so this may be a network artifact rather than a missing package", strings.Join(transportFailures, ", "))
	}
	return b.String()
}
