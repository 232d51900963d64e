package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/packdrift/packdrift/pkg/errors"
	"github.com/packdrift/packdrift/pkg/reconcile"
)

// renderReport writes the human-readable run outcome to w. Diagnostic
// lists keep the stable order the reconciler produced them in. Verbose
// adds the full per-source listings.
func renderReport(w io.Writer, rep *reconcile.Report, verbose bool) {
	fmt.Fprintln(w, styleTitle.Render("Dependency check"))

	if verbose {
		renderList(w, "Used in code", rep.CodePackages)
	}
	if rep.InvalidTokens > 0 {
		fmt.Fprintf(w, "%s %s\n", styleDim.Render(iconInfo),
			styleDim.Render(fmt.Sprintf("%d invalid tokens dropped during scan", rep.InvalidTokens)))
	}

	renderList(w, "Missing from manifest", rep.MissingFromManifest)
	renderList(w, "Missing from lockfile", rep.MissingFromLock)
	renderList(w, "Added to manifest", rep.ManifestAdded)
	if len(rep.LockAdded) > 0 {
		fmt.Fprintf(w, "%s Pinned in lockfile:\n", styleSuccess.Render(iconSuccess))
		// LockAdded is keyed by name; list in the diff's stable order.
		for _, name := range rep.MissingFromLock {
			if version, ok := rep.LockAdded[name]; ok {
				fmt.Fprintf(w, "  %s %s\n", styleValue.Render(name), styleDim.Render(version))
			}
		}
	}
	renderList(w, "Pruned from manifest", rep.Pruned)

	for _, f := range rep.ManifestFailures {
		renderFailure(w, f.Name, f.Err)
	}
	for _, f := range rep.LockFailures {
		renderFailure(w, f.Name, f.Err)
	}
	for _, ni := range rep.NonInstallable {
		fmt.Fprintf(w, "%s %s: no registry confirms this package\n",
			styleError.Render(iconError), styleValue.Render(ni.Name))
		if len(ni.TransportFailures) > 0 {
			fmt.Fprintf(w, "  %s\n", styleWarning.Render(
				fmt.Sprintf("%s unreachable during this run", strings.Join(ni.TransportFailures, ", "))))
		}
		fmt.Fprintf(w, "  %s\n", styleDim.Render(ni.Remediation))
	}

	renderVerdict(w, rep.Verdict)
}

func renderList(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", styleDim.Render(iconInfo), label,
		styleValue.Render(strings.Join(names, ", ")))
}

// renderFailure prints one name-specific fix failure with its
// remediation text when present.
func renderFailure(w io.Writer, name string, err error) {
	fmt.Fprintf(w, "%s %s: %s\n", styleError.Render(iconError),
		styleValue.Render(name), errors.UserMessage(err))
	if hint := errors.Remediation(err); hint != "" {
		fmt.Fprintf(w, "  %s\n", styleDim.Render(hint))
	}
}

func renderVerdict(w io.Writer, v reconcile.Verdict) {
	switch v {
	case reconcile.VerdictPassed:
		fmt.Fprintf(w, "%s %s\n", styleSuccess.Render(iconSuccess),
			styleSuccess.Render("Passed: code, manifest, and lockfile are consistent"))
	case reconcile.VerdictFailedNoFix:
		fmt.Fprintf(w, "%s %s\n", styleError.Render(iconError),
			styleError.Render("Failed: inconsistencies remain; rerun with --fix to close them"))
	default:
		fmt.Fprintf(w, "%s %s\n", styleError.Render(iconError),
			styleError.Render(fmt.Sprintf("Failed: %s", v)))
	}
}
