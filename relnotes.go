// Package relnotes builds the release-notes index of a documentation source
// tree.
//
// A source root contains a "releasenotes" directory with one file per
// released version, named after the version ("1.4.0.rst"). Build collects
// those files, sorts them by semantic version, newest first, and writes
// "releasenotes.rst" next to the directory, including every release note in
// order:
//
//	Release notes
//	=============
//
//	2.0.0
//	-----
//	.. include:: releasenotes/2.0.0.rst
//
//	----
//
//	1.0.0
//	-----
//	.. include:: releasenotes/1.0.0.rst
//
// A file name that is not a semantic version fails the build.
package relnotes

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modernice/relnotes/find"
	"github.com/modernice/relnotes/index"
	"github.com/modernice/relnotes/internal"
	"github.com/modernice/relnotes/internal/slice"
	"github.com/modernice/relnotes/version"
	"github.com/spf13/afero"
	"golang.org/x/exp/slog"
)

// Builder builds the release-notes index of a documentation source root.
type Builder struct {
	root      string
	fs        afero.Fs
	dir       string
	ext       string
	output    string
	title     string
	exclude   []string
	skip      *find.Skip
	strict    bool
	writeOpts []index.WriteOption
	log       *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger returns an Option that sets the logger of a Builder.
func WithLogger(h slog.Handler) Option {
	return func(b *Builder) {
		b.log = slog.New(h)
	}
}

// WithFS returns an Option that sets the filesystem the Builder reads from
// and writes to. Defaults to the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(b *Builder) {
		b.fs = fsys
	}
}

// Dir returns an Option that sets the name of the release-notes directory,
// relative to the source root. Defaults to "releasenotes".
func Dir(dir string) Option {
	return func(b *Builder) {
		b.dir = dir
	}
}

// Extension returns an Option that sets the extension of the release notes
// and the index document. Defaults to ".rst".
func Extension(ext string) Option {
	return func(b *Builder) {
		b.ext = find.NormalizeExtension(ext)
	}
}

// Output returns an Option that sets the path of the index document.
// Relative paths are resolved against the source root. Defaults to the
// directory name plus the extension, next to the directory. Include
// directives are always relative to the source root.
func Output(path string) Option {
	return func(b *Builder) {
		b.output = path
	}
}

// Title returns an Option that sets the title of the index document.
func Title(title string) Option {
	return func(b *Builder) {
		b.title = title
	}
}

// Exclude returns an Option that leaves release notes whose file name
// matches one of the given glob patterns out of the index.
func Exclude(patterns ...string) Option {
	return func(b *Builder) {
		b.exclude = append(b.exclude, patterns...)
	}
}

// Skip returns an Option that sets the skip rules for release-note files.
func Skip(skip find.Skip) Option {
	return func(b *Builder) {
		b.skip = &skip
	}
}

// Strict returns an Option that requires release-note names to be complete
// SemVer 2.0.0 versions.
func Strict(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// WriteWith returns an Option that passes write options to
// index.Document.Apply.
func WriteWith(opts ...index.WriteOption) Option {
	return func(b *Builder) {
		b.writeOpts = append(b.writeOpts, opts...)
	}
}

// New returns a Builder for the documentation source root.
func New(root string, opts ...Option) *Builder {
	b := &Builder{
		root:  root,
		dir:   index.DefaultDir,
		ext:   index.DefaultExtension,
		title: index.DefaultTitle,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}
	if b.log == nil {
		b.log = internal.NopLogger()
	}
	return b
}

// Build builds the index of the source root and writes it to the output
// path. It is a shorthand for New(root, opts...).Build(ctx).
func Build(ctx context.Context, root string, opts ...Option) (index.Result, error) {
	return New(root, opts...).Build(ctx)
}

// Root returns the source root.
func (b *Builder) Root() string {
	return b.root
}

// Dir returns the path of the release-notes directory.
func (b *Builder) Dir() string {
	return filepath.Join(b.root, b.dir)
}

// Output returns the path of the index document.
func (b *Builder) Output() string {
	switch {
	case b.output == "":
		return filepath.Join(b.root, b.dir+b.ext)
	case filepath.IsAbs(b.output):
		return b.output
	default:
		return filepath.Join(b.root, b.output)
	}
}

// FS returns the filesystem of the Builder.
func (b *Builder) FS() afero.Fs {
	return b.fs
}

// Index collects, parses and sorts the release notes and renders the index
// document without writing it.
func (b *Builder) Index(ctx context.Context) (*index.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	findOpts := []find.Option{
		find.WithLogger(b.log.Handler()),
		find.Extension(b.ext),
		find.Exclude(b.exclude...),
	}
	if b.skip != nil {
		findOpts = append(findOpts, *b.skip)
	}

	entries, err := find.New(b.fs, b.Dir(), findOpts...).Find()
	if err != nil {
		return nil, fmt.Errorf("find release notes: %w", err)
	}

	ids := slice.Map(entries, func(e find.Entry) string { return e.Stem })

	versions, err := version.ParseAll(ids, version.Strict(b.strict))
	if err != nil {
		return nil, fmt.Errorf("parse release notes: %w", err)
	}
	version.Sort(versions)

	for _, v := range versions {
		b.log.Debug("Adding release note", "version", v.String())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return index.Render(
		versions,
		index.Title(b.title),
		index.Dir(filepath.ToSlash(b.dir)),
		index.Extension(b.ext),
	), nil
}

// Build renders the index document and writes it to the output path. If the
// document already has the rendered content, it is not rewritten unless
// forced with index.Force.
func (b *Builder) Build(ctx context.Context) (index.Result, error) {
	b.log.Info("Building release notes index ...", "dir", b.Dir(), "output", b.Output())

	doc, err := b.Index(ctx)
	if err != nil {
		return index.Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return index.Result{}, err
	}

	res, err := doc.Apply(b.fs, b.Output(), b.writeOpts...)
	if err != nil {
		return res, fmt.Errorf("write index: %w", err)
	}

	if res.Written {
		b.log.Info(fmt.Sprintf("Wrote %d release notes to %s", len(res.Versions), res.Path), "digest", fmt.Sprintf("%016x", res.Digest))
	} else {
		b.log.Info("Release notes index is up to date.", "path", res.Path)
	}

	return res, nil
}

// Check renders the index document and reports what Build would do, without
// writing anything.
func (b *Builder) Check(ctx context.Context) (index.Result, error) {
	doc, err := b.Index(ctx)
	if err != nil {
		return index.Result{}, err
	}

	res, err := doc.DryRun(b.fs, b.Output())
	if err != nil {
		return res, fmt.Errorf("check index: %w", err)
	}

	return res, nil
}
