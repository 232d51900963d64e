package io

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DESCRIPTION")

	if err := WriteFileAtomic(path, []byte("Package: demo\n"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Package: demo\n" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renv.lock")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

func TestWriteFileAtomicLeavesNoScratchFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")

	if err := WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriteFileAtomicFailurePreservesOriginal(t *testing.T) {
	// Renaming into a missing directory fails after the scratch write.
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone", "file")

	if err := WriteFileAtomic(missing, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error writing into missing directory")
	}
}
