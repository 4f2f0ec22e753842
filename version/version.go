// Package version parses release-note identifiers as semantic versions and
// orders them newest first.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/modernice/relnotes/internal/slice"
	"golang.org/x/exp/slices"
)

// Version is a release-note identifier together with its parsed semantic
// version. The identifier is kept verbatim because it is what ends up in the
// generated index.
type Version struct {
	id     string
	semver *semver.Version
}

// ParseError is returned when an identifier is not a valid semantic version.
type ParseError struct {
	Identifier string
	Err        error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse version %q: %v", err.Identifier, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// ParseOption configures Parse.
type ParseOption func(*parser)

type parser struct {
	strict bool
}

// Strict returns a ParseOption that requires identifiers to be complete
// SemVer 2.0.0 versions. Without it, shorthands like "1.0" and a leading "v"
// are accepted.
func Strict(strict bool) ParseOption {
	return func(p *parser) {
		p.strict = strict
	}
}

// Parse parses id as a semantic version.
func Parse(id string, opts ...ParseOption) (Version, error) {
	var p parser
	for _, opt := range opts {
		opt(&p)
	}

	parse := semver.NewVersion
	if p.strict {
		parse = semver.StrictNewVersion
	}

	v, err := parse(id)
	if err != nil {
		return Version{}, &ParseError{Identifier: id, Err: err}
	}

	return Version{id: id, semver: v}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(id string, opts ...ParseOption) Version {
	v, err := Parse(id, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseAll parses every identifier in ids. The first identifier that fails
// to parse aborts the whole operation.
func ParseAll(ids []string, opts ...ParseOption) ([]Version, error) {
	out := make([]Version, 0, len(ids))
	for _, id := range ids {
		v, err := Parse(id, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// String returns the identifier exactly as it was parsed.
func (v Version) String() string {
	return v.id
}

// Semver returns the parsed semantic version.
func (v Version) Semver() *semver.Version {
	return v.semver
}

// Compare returns -1, 0 or 1 if v orders before, equal to or after other.
// Precedence follows SemVer 2.0.0; versions of equal precedence are ordered
// by their identifiers so that Compare is a total order.
func (v Version) Compare(other Version) int {
	if c := v.semver.Compare(other.semver); c != 0 {
		return c
	}
	switch {
	case v.id < other.id:
		return -1
	case v.id > other.id:
		return 1
	default:
		return 0
	}
}

// Sort sorts versions in place, newest first.
func Sort(versions []Version) {
	slices.SortFunc(versions, func(a, b Version) bool {
		return a.Compare(b) > 0
	})
}

// Identifiers returns the identifiers of versions in order.
func Identifiers(versions []Version) []string {
	return slice.Map(versions, Version.String)
}
