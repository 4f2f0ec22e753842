package index

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modernice/relnotes/version"
	"github.com/spf13/afero"
)

// Result describes the outcome of writing a document.
type Result struct {
	// Path is the path of the index document.
	Path string

	// Versions are the identifiers listed in the document, in order.
	Versions []string

	// Digest is the xxhash64 digest of the document.
	Digest uint64

	// Changed reports whether the file at Path differed from the document
	// (or did not exist) before the write.
	Changed bool

	// Written reports whether the file at Path was written.
	Written bool
}

// WriteOption configures Apply.
type WriteOption func(*writer)

type writer struct {
	atomic bool
	force  bool
}

// Atomic returns a WriteOption that controls whether the document is written
// to a temporary file that is renamed over the target (the default), or
// written to the truncated target directly. Either way, a symbolic link at the
// target is followed and the permissions of an existing file are kept. New
// files are created with mode 0644.
func Atomic(atomic bool) WriteOption {
	return func(w *writer) {
		w.atomic = atomic
	}
}

// Force returns a WriteOption that writes the document even if the target
// already has the same content.
func Force(force bool) WriteOption {
	return func(w *writer) {
		w.force = force
	}
}

// DryRun reports what Apply would do without modifying fsys.
func (d *Document) DryRun(fsys afero.Fs, path string) (Result, error) {
	res := Result{
		Path:     path,
		Versions: version.Identifiers(d.versions),
		Digest:   d.digest,
	}

	current, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		res.Changed = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	res.Changed = !bytes.Equal(current, d.content)

	return res, nil
}

// Apply writes the document to path within fsys. A target that already has
// the document's content is left untouched unless Force is set.
func (d *Document) Apply(fsys afero.Fs, path string, opts ...WriteOption) (Result, error) {
	w := writer{atomic: true}
	for _, opt := range opts {
		opt(&w)
	}

	res, err := d.DryRun(fsys, path)
	if err != nil {
		return res, err
	}

	if !res.Changed && !w.force {
		return res, nil
	}

	if w.atomic {
		err = writeAtomic(fsys, path, d.content)
	} else {
		err = writeInPlace(fsys, path, d.content)
	}
	if err != nil {
		return res, err
	}

	res.Written = true

	return res, nil
}

func writeAtomic(fsys afero.Fs, path string, content []byte) (err error) {
	path, err = resolveLinks(fsys, path)
	if err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(fsys, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			fsys.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := fsys.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}

	return nil
}

// maxLinks bounds the number of symbolic links resolveLinks follows.
const maxLinks = 40

// resolveLinks returns the file that path points to after following symbolic
// links. Filesystems without symlink support return path unchanged.
func resolveLinks(fsys afero.Fs, path string) (string, error) {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	for i := 0; i < maxLinks; i++ {
		info, _, err := lstater.LstatIfPossible(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}

		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}

		dest, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", fmt.Errorf("read link %s: %w", path, err)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = dest
	}

	return "", fmt.Errorf("resolve %s: too many symbolic links", path)
}

func writeInPlace(fsys afero.Fs, path string, content []byte) (err error) {
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
