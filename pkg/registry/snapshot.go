package registry

import (
	"context"
	"errors"
	"fmt"
)

// RegistrySnapshot identifies the secondary registry in results.
const RegistrySnapshot = "snapshot"

// Snapshot is the secondary probe: a dated snapshot registry addressed
// as <base>/<version>/<name>. A hit confirms installability but does not
// guarantee version metadata.
type Snapshot struct {
	client   *Client
	baseURL  string
	snapshot string
}

// NewSnapshot creates the secondary probe against baseURL using the
// pinned snapshot version.
func NewSnapshot(baseURL, snapshot string) *Snapshot {
	return &Snapshot{client: NewClient(nil), baseURL: baseURL, snapshot: snapshot}
}

// Name returns the probe identifier.
func (s *Snapshot) Name() string { return RegistrySnapshot }

// Applicable reports whether the probe can answer for pkg. The snapshot
// lookup applies to every name.
func (s *Snapshot) Applicable(pkg string) bool { return true }

type snapshotResponse struct {
	Package string `json:"Package"`
	Version string `json:"Version"`
}

// Lookup performs a single blocking lookup with no local retry.
func (s *Snapshot) Lookup(ctx context.Context, pkg string) (*Metadata, error) {
	var data snapshotResponse
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.snapshot, pkg)
	if err := s.client.Get(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: snapshot package %s", err, pkg)
		}
		return nil, err
	}
	return &Metadata{
		Name:     pkg,
		Version:  data.Version,
		Registry: RegistrySnapshot,
	}, nil
}
