package reconcile

// Verdict is the terminal state of a reconciliation run.
type Verdict string

const (
	// VerdictPassed means all three sources are mutually consistent.
	VerdictPassed Verdict = "Passed"
	// VerdictFailedManifestFix means at least one manifest addition failed.
	VerdictFailedManifestFix Verdict = "FailedManifestFix"
	// VerdictFailedLockFix means at least one lockfile fix failed or a
	// package could not be confirmed installable.
	VerdictFailedLockFix Verdict = "FailedLockFix"
	// VerdictFailedNoFix means auto-fix is disabled and issues remain.
	VerdictFailedNoFix Verdict = "FailedNoFix"
)

// Failed reports whether the verdict maps to a non-zero exit status.
func (v Verdict) Failed() bool { return v != VerdictPassed }

// NameError pairs a package name with the error its fix step produced.
type NameError struct {
	Name string
	Err  error
}

// NonInstallable describes a name no registry would confirm, plus the
// manual-install guidance shown to the user. Such names are never
// written to the lockfile.
type NonInstallable struct {
	Name string
	// TransportFailures lists registries that failed at the transport
	// level; a non-empty list means the verdict may be a network artifact.
	TransportFailures []string
	Remediation       string
}

// Report is the outcome of one reconciliation run. Diagnostics keep the
// union's stable first-seen order.
type Report struct {
	Verdict Verdict

	CodePackages  []string // normalized code usage set
	InvalidTokens int      // format-invalid tokens dropped during scan

	MissingFromManifest []string
	ManifestAdded       []string
	ManifestFailures    []NameError

	MissingFromLock []string
	LockAdded       map[string]string // name -> pinned version
	LockFailures    []NameError
	NonInstallable  []NonInstallable

	Pruned []string
}

// Consistent reports whether nothing was missing before any fixes ran.
func (r *Report) Consistent() bool {
	return len(r.MissingFromManifest) == 0 && len(r.MissingFromLock) == 0
}
