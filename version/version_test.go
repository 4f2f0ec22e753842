package version_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modernice/relnotes/version"
)

func TestSort(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want []string
	}{
		{
			name: "empty",
			ids:  nil,
			want: []string{},
		},
		{
			name: "major and minor",
			ids:  []string{"1.0.0", "2.0.0", "1.5.0"},
			want: []string{"2.0.0", "1.5.0", "1.0.0"},
		},
		{
			name: "numeric not lexical",
			ids:  []string{"1.9.0", "1.10.0", "1.2.0"},
			want: []string{"1.10.0", "1.9.0", "1.2.0"},
		},
		{
			name: "pre-releases",
			ids:  []string{"1.0.0-alpha", "1.0.0", "1.0.0-rc.1", "1.0.0-alpha.1", "1.0.0-beta"},
			want: []string{"1.0.0", "1.0.0-rc.1", "1.0.0-beta", "1.0.0-alpha.1", "1.0.0-alpha"},
		},
		{
			name: "shorthand ties",
			ids:  []string{"1.0", "1.0.0", "0.9"},
			want: []string{"1.0.0", "1.0", "0.9"},
		},
		{
			name: "build metadata ties",
			ids:  []string{"1.0.0+build.1", "1.0.0+build.2"},
			want: []string{"1.0.0+build.2", "1.0.0+build.1"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			versions, err := version.ParseAll(tt.ids)
			if err != nil {
				t.Fatalf("ParseAll() failed: %v", err)
			}

			version.Sort(versions)

			if got := version.Identifiers(versions); !cmp.Equal(tt.want, got) {
				t.Fatalf("unexpected order:\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestSort_deterministic(t *testing.T) {
	ids := []string{"0.1.0", "1.0", "1.0.0", "3.2.1", "1.0.0+a", "2.0.0-rc.2"}
	reversed := make([]string, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}

	a := mustParseAll(t, ids)
	b := mustParseAll(t, reversed)
	version.Sort(a)
	version.Sort(b)

	if !cmp.Equal(version.Identifiers(a), version.Identifiers(b)) {
		t.Fatalf("sort depends on input order:\n%s", cmp.Diff(version.Identifiers(a), version.Identifiers(b)))
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		id      string
		strict  bool
		wantErr bool
	}{
		{id: "1.2.3"},
		{id: "1.2.3-rc.1+build.5"},
		{id: "1.2"},
		{id: "v1.2.3"},
		{id: "1.2", strict: true, wantErr: true},
		{id: "v1.2.3", strict: true, wantErr: true},
		{id: "1.2.3", strict: true},
		{id: "latest", wantErr: true},
		{id: "", wantErr: true},
		{id: "1.2.3.4", wantErr: true},
	}

	for _, tt := range cases {
		t.Run(tt.id, func(t *testing.T) {
			v, err := version.Parse(tt.id, version.Strict(tt.strict))

			if tt.wantErr {
				var perr *version.ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("Parse(%q) should fail with a *ParseError; got %v", tt.id, err)
				}
				if perr.Identifier != tt.id {
					t.Fatalf("ParseError.Identifier = %q; want %q", perr.Identifier, tt.id)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.id, err)
			}

			if v.String() != tt.id {
				t.Fatalf("String() = %q; want %q", v.String(), tt.id)
			}
		})
	}
}

func TestParseAll_abortsOnFirstError(t *testing.T) {
	versions, err := version.ParseAll([]string{"1.0.0", "latest", "2.0.0"})
	if err == nil {
		t.Fatalf("ParseAll() should fail")
	}

	if versions != nil {
		t.Fatalf("ParseAll() should not return partial results; got %v", version.Identifiers(versions))
	}

	var perr *version.ParseError
	if !errors.As(err, &perr) || perr.Identifier != "latest" {
		t.Fatalf("expected *ParseError for %q; got %v", "latest", err)
	}
}

func mustParseAll(t *testing.T, ids []string) []version.Version {
	t.Helper()
	versions, err := version.ParseAll(ids)
	if err != nil {
		t.Fatal(err)
	}
	return versions
}
