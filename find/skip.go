package find

import (
	"io/fs"
	"strings"
)

// Skip decides which release-note candidates a Finder ignores. Directories
// are always ignored, whatever their name.
type Skip struct {
	// Dotfiles skips files whose name starts with a dot.
	Dotfiles bool

	// File, if set, is asked about every candidate that survived the other
	// rules.
	File func(Candidate) bool
}

// Candidate is a directory entry that is checked against the skip rules.
type Candidate struct {
	fs.FileInfo
	Path string
}

// SkipNone returns a Skip that keeps every regular file.
func SkipNone() Skip {
	return Skip{}
}

// SkipDefault returns the Skip used when none is configured. It keeps every
// regular file so that a misnamed note fails the build instead of silently
// disappearing from the index.
func SkipDefault() Skip {
	return SkipNone()
}

func (s Skip) apply(f *Finder) {
	f.skip = &s
}

// ExcludeFile reports whether the candidate should be ignored.
func (s Skip) ExcludeFile(c Candidate) bool {
	if s.Dotfiles && strings.HasPrefix(c.Name(), ".") {
		return true
	}

	if s.File != nil {
		return s.File(c)
	}

	return false
}
