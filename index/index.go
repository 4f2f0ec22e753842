// Package index renders the release-notes index document and writes it to a
// filesystem.
package index

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/modernice/relnotes/version"
)

const (
	// DefaultTitle is the title of the index document.
	DefaultTitle = "Release notes"

	// DefaultDir is the directory, relative to the index document, that
	// contains the release notes.
	DefaultDir = "releasenotes"

	// DefaultExtension is the extension of the release notes and the index.
	DefaultExtension = ".rst"

	separator = "----"
)

// Document is a rendered index document.
type Document struct {
	content  []byte
	versions []version.Version
	digest   uint64
}

// RenderOption configures Render.
type RenderOption func(*renderer)

type renderer struct {
	title string
	dir   string
	ext   string
}

// Title returns a RenderOption that sets the document title.
func Title(title string) RenderOption {
	return func(r *renderer) {
		r.title = title
	}
}

// Dir returns a RenderOption that sets the directory used in include
// directives.
func Dir(dir string) RenderOption {
	return func(r *renderer) {
		r.dir = dir
	}
}

// Extension returns a RenderOption that sets the extension used in include
// directives.
func Extension(ext string) RenderOption {
	return func(r *renderer) {
		r.ext = ext
	}
}

// Render renders the index document for versions. Versions are written in
// the given order; use version.Sort to order them newest first.
//
// Each version gets a section that includes its release note. Sections are
// separated by a horizontal rule; there is no rule before the first or after
// the last section.
func Render(versions []version.Version, opts ...RenderOption) *Document {
	r := renderer{
		title: DefaultTitle,
		dir:   DefaultDir,
		ext:   DefaultExtension,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	writeHeading(&buf, r.title, '=')
	buf.WriteByte('\n')

	for i, v := range versions {
		if i > 0 {
			buf.WriteString(separator + "\n\n")
		}
		writeHeading(&buf, v.String(), '-')
		fmt.Fprintf(&buf, ".. include:: %s\n\n", path.Join(r.dir, v.String()+r.ext))
	}

	content := buf.Bytes()

	return &Document{
		content:  content,
		versions: append([]version.Version(nil), versions...),
		digest:   xxhash.Sum64(content),
	}
}

func writeHeading(buf *bytes.Buffer, text string, underline rune) {
	buf.WriteString(text)
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(string(underline), utf8.RuneCountInString(text)))
	buf.WriteByte('\n')
}

// Bytes returns the content of the document.
func (d *Document) Bytes() []byte {
	return d.content
}

// String returns the content of the document.
func (d *Document) String() string {
	return string(d.content)
}

// Versions returns the versions listed in the document, in order.
func (d *Document) Versions() []version.Version {
	return d.versions
}

// Digest returns the xxhash64 digest of the document's content.
func (d *Document) Digest() uint64 {
	return d.digest
}

// WriteTo writes the content of the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.content)
	return int64(n), err
}
