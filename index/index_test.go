package index_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/modernice/relnotes/index"
	"github.com/modernice/relnotes/internal/tests"
	"github.com/modernice/relnotes/version"
)

func TestRender(t *testing.T) {
	versions := parse(t, "1.0.0", "2.0.0", "1.5.0")
	version.Sort(versions)

	doc := index.Render(versions)

	tests.ExpectDocument(t, heredoc.Doc(`
		Release notes
		=============

		2.0.0
		-----
		.. include:: releasenotes/2.0.0.rst

		----

		1.5.0
		-----
		.. include:: releasenotes/1.5.0.rst

		----

		1.0.0
		-----
		.. include:: releasenotes/1.0.0.rst

	`), doc.String())
}

func TestRender_empty(t *testing.T) {
	doc := index.Render(nil)

	tests.ExpectDocument(t, "Release notes\n=============\n\n", doc.String())
}

func TestRender_single(t *testing.T) {
	doc := index.Render(parse(t, "0.1.0-rc.1"))

	tests.ExpectDocument(t, heredoc.Doc(`
		Release notes
		=============

		0.1.0-rc.1
		----------
		.. include:: releasenotes/0.1.0-rc.1.rst

	`), doc.String())

	if strings.Contains(doc.String(), "----\n\n") {
		t.Fatalf("a single section must not be followed by a separator")
	}
}

func TestRender_options(t *testing.T) {
	doc := index.Render(
		parse(t, "10.2"),
		index.Title("Changelog"),
		index.Dir("notes/"),
		index.Extension(".md"),
	)

	tests.ExpectDocument(t, heredoc.Doc(`
		Changelog
		=========

		10.2
		----
		.. include:: notes/10.2.md

	`), doc.String())
}

func TestRender_underlineCountsCharacters(t *testing.T) {
	doc := index.Render(nil, index.Title("Versionshinweise für Änderungen"))

	lines := strings.Split(doc.String(), "\n")
	if got, want := len([]rune(lines[1])), len([]rune(lines[0])); got != want {
		t.Fatalf("title underline has %d characters; want %d", got, want)
	}
}

func TestDocument_separators(t *testing.T) {
	doc := index.Render(parse(t, "3.0.0", "2.0.0", "1.0.0", "0.1.0"))

	text := doc.String()
	if got := strings.Count(text, "\n----\n"); got != 3 {
		t.Fatalf("document has %d separators; want 3", got)
	}

	first := strings.Index(text, "3.0.0")
	if sep := strings.Index(text, "\n----\n"); sep < first {
		t.Fatalf("separator found before the first section")
	}

	if !strings.HasSuffix(text, ".. include:: releasenotes/0.1.0.rst\n\n") {
		t.Fatalf("document should end with the last section; got %q", text[len(text)-40:])
	}
}

func TestDocument_WriteTo(t *testing.T) {
	doc := index.Render(parse(t, "1.0.0"))

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() failed: %v", err)
	}

	if n != int64(len(doc.Bytes())) {
		t.Fatalf("WriteTo() wrote %d bytes; want %d", n, len(doc.Bytes()))
	}

	tests.ExpectDocument(t, doc.String(), buf.String())
}

func TestDocument_Digest(t *testing.T) {
	a := index.Render(parse(t, "1.0.0", "0.9.0"))
	b := index.Render(parse(t, "1.0.0", "0.9.0"))
	c := index.Render(parse(t, "1.0.0"))

	if a.Digest() != b.Digest() {
		t.Fatalf("equal documents should have equal digests")
	}

	if a.Digest() == c.Digest() {
		t.Fatalf("different documents should have different digests")
	}
}

func parse(t *testing.T, ids ...string) []version.Version {
	t.Helper()
	versions, err := version.ParseAll(ids)
	if err != nil {
		t.Fatal(err)
	}
	return versions
}
