package cli_test

import (
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
	"github.com/modernice/relnotes/cli"
)

func TestTOML(t *testing.T) {
	resolver, err := cli.TOML(strings.NewReader(heredoc.Doc(`
		verbose = true
		title = "Everywhere"
		exclude = ["index.rst", "*-draft.rst"]

		[watch]
		debounce = "250ms"
		title = "Watching"
	`)))
	if err != nil {
		t.Fatalf("TOML() failed: %v", err)
	}

	var cfg cli.CLI
	parser, err := kong.New(&cfg, kong.Resolvers(resolver), kong.Exit(func(code int) {
		t.Fatalf("unexpected exit with code %d", code)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"watch", "/docs/source"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !cfg.Verbose {
		t.Errorf("Verbose should be resolved from the config")
	}

	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v; want %v", cfg.Watch.Debounce, 250*time.Millisecond)
	}

	if cfg.Watch.Title != "Watching" {
		t.Errorf("Title = %q; want the [watch] value %q", cfg.Watch.Title, "Watching")
	}

	if want := []string{"index.rst", "*-draft.rst"}; !cmp.Equal(want, cfg.Watch.Exclude) {
		t.Errorf("unexpected excludes:\n%s", cmp.Diff(want, cfg.Watch.Exclude))
	}

	if cfg.Watch.Dir != "releasenotes" {
		t.Errorf("Dir = %q; want the default %q", cfg.Watch.Dir, "releasenotes")
	}
}

func TestTOML_invalid(t *testing.T) {
	if _, err := cli.TOML(strings.NewReader("title = \n")); err == nil {
		t.Fatalf("TOML() should fail for invalid TOML")
	}
}
