package rpkg

import "testing"

func TestFilterSets(t *testing.T) {
	f := NewFilter(
		DefaultBasePackages(),
		DefaultPlaceholders(),
		[]string{"infra"},
		"myproj",
	)

	if !f.IsBase("stats") {
		t.Error("stats should be a base package")
	}
	if f.IsBase("dplyr") {
		t.Error("dplyr is not a base package")
	}
	if !f.IsPlaceholder("mypackage") {
		t.Error("mypackage should be a placeholder")
	}
	if !f.IsPlaceholder("myproj") {
		t.Error("the project's own name should be a placeholder")
	}
	if !f.IsProtected("infra") {
		t.Error("infra should be protected")
	}
	if f.IsProtected("dplyr") {
		t.Error("dplyr should not be protected")
	}
}

func TestFilterExcluded(t *testing.T) {
	f := NewFilter([]string{"base"}, []string{"pkg"}, nil, "")

	for name, want := range map[string]bool{
		"base":  true,
		"pkg":   true,
		"dplyr": false,
	} {
		if got := f.Excluded(name); got != want {
			t.Errorf("Excluded(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFilterExtension(t *testing.T) {
	// Projects can extend built-in sets via configuration.
	base := append(DefaultBasePackages(), "companybase")
	f := NewFilter(base, DefaultPlaceholders(), nil, "")

	if !f.IsBase("companybase") {
		t.Error("extended base set should include companybase")
	}
}

func TestDefaultListsAreCopies(t *testing.T) {
	a := DefaultBasePackages()
	a[0] = "mutated"
	if DefaultBasePackages()[0] == "mutated" {
		t.Error("DefaultBasePackages() must return a fresh copy")
	}
}
