package find

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modernice/relnotes/internal"
	"github.com/modernice/relnotes/internal/slice"
	"github.com/spf13/afero"
	"golang.org/x/exp/slog"
)

// DefaultExtension is the extension of release-note files.
const DefaultExtension = ".rst"

// ErrEmptyExtension is returned by Finder.Find if the configured extension is
// empty. An empty extension would match every file in the directory.
var ErrEmptyExtension = errors.New("empty release note extension")

// Finder lists the release-note files of a single directory. It never
// descends into subdirectories.
type Finder struct {
	fs      afero.Fs
	dir     string
	ext     string
	skip    *Skip
	exclude []string
	log     *slog.Logger
}

// Entry is a release-note file found by a Finder.
type Entry struct {
	// Name is the file name, e.g. "1.2.0.rst".
	Name string

	// Stem is the file name without its extension, e.g. "1.2.0".
	Stem string

	// Ext is the extension that was stripped from Name.
	Ext string
}

// String returns the file name of the entry.
func (e Entry) String() string {
	return e.Name
}

// Option configures a Finder.
type Option interface {
	apply(*Finder)
}

type optionFunc func(*Finder)

func (opt optionFunc) apply(f *Finder) {
	opt(f)
}

// WithLogger returns an Option that sets the logger of a Finder.
func WithLogger(h slog.Handler) Option {
	return optionFunc(func(f *Finder) {
		f.log = slog.New(h)
	})
}

// Extension returns an Option that sets the extension of release-note files.
// A missing leading dot is added. Defaults to DefaultExtension.
func Extension(ext string) Option {
	return optionFunc(func(f *Finder) {
		f.ext = NormalizeExtension(ext)
	})
}

// Exclude returns an Option that excludes files whose name matches one of
// the given doublestar patterns.
func Exclude(pattern ...string) Option {
	pattern = slice.Map(pattern, strings.TrimSpace)
	pattern = slice.NoZero(pattern)
	return optionFunc(func(f *Finder) {
		f.exclude = append(f.exclude, pattern...)
	})
}

// New returns a Finder for the directory dir within fsys.
func New(fsys afero.Fs, dir string, opts ...Option) *Finder {
	f := &Finder{fs: fsys, dir: dir, ext: DefaultExtension}
	for _, opt := range opts {
		opt.apply(f)
	}
	if f.skip == nil {
		skip := SkipDefault()
		f.skip = &skip
	}
	if f.log == nil {
		f.log = internal.NopLogger()
	}
	return f
}

// Find lists the directory and returns its release-note files, ordered by
// file name.
func (f *Finder) Find() ([]Entry, error) {
	if f.ext == "" {
		return nil, ErrEmptyExtension
	}

	f.log.Debug("Searching for release notes ...", "dir", f.dir, "ext", f.ext)

	for _, pattern := range f.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", f.dir, err)
	}

	candidates := slice.Filter(infos, f.keep)
	entries := slice.Map(candidates, f.entry)

	f.log.Debug(fmt.Sprintf("Found %d release notes in %s", len(entries), f.dir), "files", slice.Map(entries, Entry.String))

	return entries, nil
}

func (f *Finder) keep(info fs.FileInfo) bool {
	name := info.Name()

	if !strings.HasSuffix(name, f.ext) {
		return false
	}

	candidate := Candidate{FileInfo: info, Path: path.Join(f.dir, name)}

	if info.IsDir() {
		f.log.Debug("Skipping entry", "name", name, "reason", "directory")
		return false
	}

	if f.skip.ExcludeFile(candidate) {
		f.log.Debug("Skipping entry", "name", name, "reason", "skip rule")
		return false
	}

	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			f.log.Debug("Skipping entry", "name", name, "reason", "excluded", "pattern", pattern)
			return false
		}
	}

	return true
}

func (f *Finder) entry(info fs.FileInfo) Entry {
	name := info.Name()
	return Entry{
		Name: name,
		Stem: strings.TrimSuffix(name, f.ext),
		Ext:  f.ext,
	}
}

// NormalizeExtension adds a leading dot to ext if it has none.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
