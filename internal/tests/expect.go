package tests

import (
	"testing"

	"github.com/andreyvit/diff"
	"github.com/google/go-cmp/cmp"
	"github.com/modernice/relnotes/find"
	"github.com/spf13/afero"
)

// ExpectEntries fails the test if the found entries differ from want.
func ExpectEntries(t *testing.T, want, got []find.Entry) {
	t.Helper()

	if !cmp.Equal(want, got) {
		t.Fatalf("unexpected entries:\n%s", cmp.Diff(want, got))
	}
}

// ExpectDocument fails the test if got differs from want, printing a line
// diff of both.
func ExpectDocument(t *testing.T, want, got string) {
	t.Helper()

	if got != want {
		t.Fatalf("unexpected document:\n%s\n\nwant:\n%q\n\ngot:\n%q", diff.LineDiff(want, got), want, got)
	}
}

// ExpectFile reads path from fsys and compares it against want.
func ExpectFile(t *testing.T, fsys afero.Fs, path, want string) {
	t.Helper()

	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	ExpectDocument(t, want, string(b))
}

// ExpectNoFile fails the test if path exists in fsys.
func ExpectNoFile(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if exists {
		t.Fatalf("%s should not exist", path)
	}
}
