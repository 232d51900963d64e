package registry

import (
	"context"
	"errors"
	"fmt"
)

// RegistryCRAN identifies the primary registry in results.
const RegistryCRAN = "cran"

// CRAN is the primary probe: a fast keyed lookup returning full version
// metadata, e.g. https://crandb.r-pkg.org/<name>.
type CRAN struct {
	client  *Client
	baseURL string
}

// NewCRAN creates the primary probe against the given base URL.
func NewCRAN(baseURL string) *CRAN {
	return &CRAN{client: NewClient(nil), baseURL: baseURL}
}

// Name returns the probe identifier.
func (c *CRAN) Name() string { return RegistryCRAN }

// Applicable reports whether the probe can answer for pkg. The primary
// lookup applies to every name.
func (c *CRAN) Applicable(pkg string) bool { return true }

type cranResponse struct {
	Package string `json:"Package"`
	Version string `json:"Version"`
}

// Lookup performs a single blocking lookup with no local retry.
func (c *CRAN) Lookup(ctx context.Context, pkg string) (*Metadata, error) {
	var data cranResponse
	url := fmt.Sprintf("%s/%s", c.baseURL, pkg)
	if err := c.client.Get(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: cran package %s", err, pkg)
		}
		return nil, err
	}
	return &Metadata{
		Name:     pkg,
		Version:  data.Version,
		Registry: RegistryCRAN,
	}, nil
}

// Version fetches version metadata for pkg. The auto-fixer calls this as
// a second round-trip even when a secondary probe confirmed the name,
// because only the primary registry guarantees version metadata.
func (c *CRAN) Version(ctx context.Context, pkg string) (string, error) {
	meta, err := c.Lookup(ctx, pkg)
	if err != nil {
		return "", err
	}
	return meta.Version, nil
}
