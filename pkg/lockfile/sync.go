package lockfile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/packdrift/packdrift/pkg/errors"
	"github.com/packdrift/packdrift/pkg/httputil"
)

// SyncRuntimeVersion fetches the reference environment's lockfile and
// overwrites the local reserved bootstrap entry with its pinned version.
// Pinning from a reference build avoids rebuilding the bootstrap utility
// from source on every host.
//
// The fetch is a read-only probe independent of the reconciliation loop,
// so unlike registry probes it retries transient failures. The local
// write uses the same atomic-swap discipline as every other mutation.
func (s *Store) SyncRuntimeVersion(ctx context.Context, client *http.Client, referenceURL string) error {
	if client == nil {
		client = &http.Client{}
	}

	var ref Document
	err := httputil.RetryWithBackoff(ctx, func() error {
		return fetchDocument(ctx, client, referenceURL, &ref)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "cannot fetch reference environment %s", referenceURL).
			WithRemediation("check network reachability of %s or pin the %s version manually", referenceURL, BootstrapPackage)
	}

	pinned, ok := ref.Packages[BootstrapPackage]
	if !ok || pinned.Version == "" {
		return errors.New(errors.ErrCodePackageNotFound,
			"reference environment does not pin %s", BootstrapPackage).
			WithRemediation("verify %s contains a %q entry with a version", referenceURL, BootstrapPackage)
	}

	if err := s.Upsert(BootstrapPackage, pinned.Version, pinned.Source, pinned.Repository); err != nil {
		return err
	}
	s.logf("pinned %s %s from %s", BootstrapPackage, pinned.Version, referenceURL)
	return nil
}

func fetchDocument(ctx context.Context, client *http.Client, url string, doc *Document) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return httputil.Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(doc)
	case resp.StatusCode >= 500:
		return httputil.Retryable(fmt.Errorf("status %d from %s", resp.StatusCode, url))
	default:
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
}
