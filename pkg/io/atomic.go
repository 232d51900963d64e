// Package io provides file-system helpers shared by the manifest editor
// and the lockfile store.
package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFileAtomic writes data to path without ever leaving a partially
// written file behind. The data goes to a uniquely named scratch file in
// the same directory, which is renamed over path only on full success;
// on any failure the original file is untouched and the scratch file is
// removed.
//
// The rename protects against partial-write crash corruption, not against
// concurrent writers: two processes mutating the same file race and the
// last rename wins.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	scratch := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()[:8]))

	if err := os.WriteFile(scratch, data, perm); err != nil {
		_ = os.Remove(scratch)
		return err
	}
	if err := os.Rename(scratch, path); err != nil {
		_ = os.Remove(scratch)
		return err
	}
	return nil
}
