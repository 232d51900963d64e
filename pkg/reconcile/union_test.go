package reconcile

import (
	"reflect"
	"testing"

	"github.com/packdrift/packdrift/pkg/rpkg"
)

func TestUnionFirstSeenOrder(t *testing.T) {
	u := NewUnion(
		[]string{"zeta", "alpha"},
		[]string{"alpha", "manifestonly"},
		[]string{"lockonly"},
		nil,
	)

	want := []string{"zeta", "alpha", "manifestonly", "lockonly"}
	if got := u.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v (code first, then manifest-only, then lock-only)", got, want)
	}
}

func TestUnionProvenance(t *testing.T) {
	u := NewUnion([]string{"dplyr"}, []string{"dplyr"}, []string{"dplyr", "jsonlite"}, nil)

	p, ok := u.Provenance("dplyr")
	if !ok {
		t.Fatal("dplyr should be in the union")
	}
	if !p.FromCode || !p.FromManifest || !p.FromLock {
		t.Errorf("dplyr provenance = %+v, want all three sources", p)
	}

	p, _ = u.Provenance("jsonlite")
	if p.FromCode || p.FromManifest || !p.FromLock {
		t.Errorf("jsonlite provenance = %+v, want lock-only", p)
	}
}

func TestUnionExcludesBasePackages(t *testing.T) {
	filter := rpkg.NewFilter([]string{"stats", "utils"}, nil, nil, "")
	u := NewUnion([]string{"stats", "dplyr"}, nil, []string{"utils"}, filter)

	if got := u.Names(); !reflect.DeepEqual(got, []string{"dplyr"}) {
		t.Errorf("Names() = %v, base packages must never enter the union", got)
	}
	if missing := u.MissingFromManifest(); !reflect.DeepEqual(missing, []string{"dplyr"}) {
		t.Errorf("MissingFromManifest() = %v, want [dplyr]", missing)
	}
}

func TestUnionSkipsBootstrapLockEntry(t *testing.T) {
	u := NewUnion([]string{"dplyr"}, []string{"dplyr"}, []string{"dplyr", "renv"}, nil)

	if got := u.Names(); !reflect.DeepEqual(got, []string{"dplyr"}) {
		t.Errorf("Names() = %v, the reserved bootstrap entry is not a dependency", got)
	}
	if missing := u.MissingFromManifest(); len(missing) != 0 {
		t.Errorf("MissingFromManifest() = %v, want empty", missing)
	}
}

func TestMissingFromLockSkipsProtected(t *testing.T) {
	filter := rpkg.NewFilter(nil, nil, []string{"infra"}, "")
	u := NewUnion([]string{"dplyr"}, []string{"dplyr", "infra"}, nil, filter)

	if got := u.MissingFromLock(filter); !reflect.DeepEqual(got, []string{"dplyr"}) {
		t.Errorf("MissingFromLock() = %v, protected names need no lock entry", got)
	}
}

func TestMarkDeclaredUpdatesDiff(t *testing.T) {
	u := NewUnion([]string{"ggplot2"}, nil, nil, nil)
	if got := u.MissingFromManifest(); len(got) != 1 {
		t.Fatalf("MissingFromManifest() = %v before fix", got)
	}

	u.markDeclared("ggplot2")
	if got := u.MissingFromManifest(); len(got) != 0 {
		t.Errorf("MissingFromManifest() = %v after markDeclared", got)
	}
}
