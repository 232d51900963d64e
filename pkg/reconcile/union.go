// Package reconcile computes and closes the gaps between three sources
// of truth: packages used in code, packages declared in the manifest,
// and packages pinned in the lockfile.
package reconcile

import (
	"github.com/packdrift/packdrift/pkg/lockfile"
	"github.com/packdrift/packdrift/pkg/rpkg"
)

// Provenance records which sources contributed a name to the union.
type Provenance struct {
	FromCode     bool
	FromManifest bool
	FromLock     bool
}

// Union is the merged view over the three sets. Names keep first-seen
// order — code first, then manifest-only, then lock-only — and are never
// re-sorted, so repeated runs on unchanged input produce identical
// diagnostics. The union is derived state and is never persisted.
type Union struct {
	names []string
	prov  map[string]*Provenance
}

// NewUnion merges the three sets. Base packages never enter the union:
// they are excluded from every diagnostic list even when physically
// present in the lockfile. The lockfile's reserved bootstrap entry is
// likewise not a lock contribution.
func NewUnion(code, manifest, lock []string, filter *rpkg.Filter) *Union {
	u := &Union{prov: make(map[string]*Provenance)}

	for _, name := range code {
		u.add(name, filter).FromCode = true
	}
	for _, name := range manifest {
		u.add(name, filter).FromManifest = true
	}
	for _, name := range lock {
		// The reserved bootstrap entry pins the tooling itself, not a
		// project dependency; it never needs declaring.
		if name == lockfile.BootstrapPackage {
			continue
		}
		u.add(name, filter).FromLock = true
	}
	return u
}

// add registers name if allowed and returns its provenance record.
// Filtered names get a throwaway record so callers can assign blindly.
func (u *Union) add(name string, filter *rpkg.Filter) *Provenance {
	if filter != nil && filter.IsBase(name) {
		return &Provenance{}
	}
	if p, ok := u.prov[name]; ok {
		return p
	}
	p := &Provenance{}
	u.prov[name] = p
	u.names = append(u.names, name)
	return p
}

// Names returns the union members in first-seen order.
func (u *Union) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Provenance returns the source flags for name.
func (u *Union) Provenance(name string) (Provenance, bool) {
	p, ok := u.prov[name]
	if !ok {
		return Provenance{}, false
	}
	return *p, true
}

// MissingFromManifest returns union members not declared in the
// manifest, in stable first-seen order.
func (u *Union) MissingFromManifest() []string {
	var out []string
	for _, name := range u.names {
		if !u.prov[name].FromManifest {
			out = append(out, name)
		}
	}
	return out
}

// MissingFromLock returns union members without a pinned lock entry, in
// stable first-seen order. Protected names are exempt: they need not end
// in the lockfile.
func (u *Union) MissingFromLock(filter *rpkg.Filter) []string {
	var out []string
	for _, name := range u.names {
		if u.prov[name].FromLock {
			continue
		}
		if filter != nil && filter.IsProtected(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// markDeclared flips the manifest flag after a successful fix so later
// stages see the post-fix state.
func (u *Union) markDeclared(name string) {
	if p, ok := u.prov[name]; ok {
		p.FromManifest = true
	}
}
