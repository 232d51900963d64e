package rpkg

// defaultBasePackages lists the packages that ship with the R runtime
// (base plus recommended). They never need declaring or locking.
var defaultBasePackages = []string{
	"base", "boot", "class", "cluster", "codetools", "compiler",
	"datasets", "foreign", "graphics", "grDevices", "grid",
	"KernSmooth", "lattice", "MASS", "Matrix", "methods", "mgcv",
	"nlme", "nnet", "parallel", "rpart", "spatial", "splines",
	"stats", "stats4", "survival", "tcltk", "tools", "utils",
}

// defaultPlaceholders lists generic example names that show up in
// documentation snippets and templates but are never real dependencies.
var defaultPlaceholders = []string{
	"pkg", "package", "packagename", "mypackage", "yourpackage", "example",
}

// DefaultBasePackages returns a copy of the built-in base package list.
func DefaultBasePackages() []string {
	out := make([]string, len(defaultBasePackages))
	copy(out, defaultBasePackages)
	return out
}

// DefaultPlaceholders returns a copy of the built-in placeholder list.
func DefaultPlaceholders() []string {
	out := make([]string, len(defaultPlaceholders))
	copy(out, defaultPlaceholders)
	return out
}

// Filter holds the name sets consulted throughout a reconciliation run.
// All three sets come in as configuration data; the project's own name is
// passed explicitly by the caller rather than discovered ad hoc.
type Filter struct {
	base         map[string]bool
	placeholders map[string]bool
	protected    map[string]bool
}

// NewFilter builds a Filter from explicit name lists. The projectName, if
// non-empty, is treated as a placeholder so a package never tries to
// declare itself.
func NewFilter(base, placeholders, protected []string, projectName string) *Filter {
	f := &Filter{
		base:         toSet(base),
		placeholders: toSet(placeholders),
		protected:    toSet(protected),
	}
	if projectName != "" {
		f.placeholders[projectName] = true
	}
	return f
}

// IsBase reports whether name ships with the runtime.
func (f *Filter) IsBase(name string) bool { return f.base[name] }

// IsPlaceholder reports whether name is a documentation placeholder or
// the project itself.
func (f *Filter) IsPlaceholder(name string) bool { return f.placeholders[name] }

// IsProtected reports whether name must survive pruning.
func (f *Filter) IsProtected(name string) bool { return f.protected[name] }

// Excluded reports whether name should be dropped from the code usage set.
func (f *Filter) Excluded(name string) bool {
	return f.IsBase(name) || f.IsPlaceholder(name)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
