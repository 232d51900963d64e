package registry

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/packdrift/packdrift/pkg/cache"
)

// Metadata describes a confirmed package.
type Metadata struct {
	Name     string `json:"name"`
	Version  string `json:"version,omitempty"`
	Registry string `json:"registry"`
}

// Probe is a single registry lookup. Implementations perform exactly one
// blocking call per Lookup; a probe signals its tri-state outcome through
// the error: nil means found, ErrNotFound means a confirmed miss, and
// ErrNetwork means a transport failure (treated as a miss by the cascade
// but logged distinctly).
type Probe interface {
	Name() string
	Applicable(pkg string) bool
	Lookup(ctx context.Context, pkg string) (*Metadata, error)
}

// Result is the outcome of a full cascade for one name.
type Result struct {
	Found    bool      `json:"found"`
	Metadata *Metadata `json:"metadata,omitempty"`

	// TransportFailures lists probes that failed at the transport level
	// rather than answering "not found". Surfaced as warnings only after
	// the whole cascade misses.
	TransportFailures []string `json:"transport_failures,omitempty"`
}

// Validator cascades across registries with short-circuit iteration.
// Results are cached for the duration of one run, keyed strictly by
// exact name.
type Validator struct {
	probes []Probe
	cache  cache.Cache
	logf   func(format string, args ...any)
}

// NewValidator builds a Validator over the given probes, consulted in
// order. A nil runCache disables within-run caching; a nil logf discards
// diagnostics.
func NewValidator(runCache cache.Cache, logf func(string, ...any), probes ...Probe) *Validator {
	if runCache == nil {
		runCache = cache.NewNullCache()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Validator{probes: probes, cache: runCache, logf: logf}
}

// Resolve runs the cascade for name. found=false only when every
// applicable probe reports a miss or a transport failure.
func (v *Validator) Resolve(ctx context.Context, name string) (*Result, error) {
	if data, ok, _ := v.cache.Get(ctx, name); ok {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	res := v.cascade(ctx, name)

	if data, err := json.Marshal(res); err == nil {
		_ = v.cache.Set(ctx, name, data)
	}
	return res, nil
}

func (v *Validator) cascade(ctx context.Context, name string) *Result {
	res := &Result{}
	for _, probe := range v.probes {
		if !probe.Applicable(name) {
			continue
		}

		meta, err := probe.Lookup(ctx, name)
		switch {
		case err == nil:
			res.Found = true
			res.Metadata = meta
			return res
		case errors.Is(err, ErrNotFound):
			v.logf("%s: not found in %s", name, probe.Name())
		default:
			// Transport failure: behaves like a miss for cascade
			// purposes but is recorded and logged distinctly.
			res.TransportFailures = append(res.TransportFailures, probe.Name())
			v.logf("%s: %s unreachable: %v", name, probe.Name(), err)
		}
	}
	return res
}
