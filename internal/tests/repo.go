package tests

import (
	"fmt"
	"path"
	"testing"

	"github.com/spf13/afero"
)

// Must is a function that takes a value and an error and returns the value. If
// the error is not nil, Must panics with the error.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// SourceRoot is the documentation source root used by fixtures.
const SourceRoot = "/docs/source"

// NoteContent returns the body written into fixture release notes.
func NoteContent(name string) []byte {
	return []byte(fmt.Sprintf("Changes in %s\n", name))
}

// WithSourceRoot creates an in-memory documentation source root whose
// release-notes directory contains the given files, and calls fn with the
// filesystem and the root path.
func WithSourceRoot(t *testing.T, files []string, fn func(fsys afero.Fs, root string)) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	InitSourceRoot(t, fsys, SourceRoot, files...)
	fn(fsys, SourceRoot)
}

// InitSourceRoot creates root/releasenotes in fsys and writes one file per
// name into it. Names ending in "/" create directories instead.
func InitSourceRoot(t *testing.T, fsys afero.Fs, root string, files ...string) {
	t.Helper()

	dir := path.Join(root, "releasenotes")
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create release notes directory: %v", err)
	}

	for _, name := range files {
		p := path.Join(dir, name)
		if name[len(name)-1] == '/' {
			if err := fsys.MkdirAll(p, 0755); err != nil {
				t.Fatalf("create directory %s: %v", p, err)
			}
			continue
		}
		if err := afero.WriteFile(fsys, p, NoteContent(name), 0644); err != nil {
			t.Fatalf("create release note %s: %v", p, err)
		}
	}
}
