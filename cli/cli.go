package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/modernice/relnotes"
	"github.com/modernice/relnotes/find"
	"github.com/modernice/relnotes/index"
	"github.com/modernice/relnotes/watch"
	"golang.org/x/exp/slog"
)

// DefaultConfig is the configuration file that is loaded if it exists in the
// working directory.
const DefaultConfig = "relnotes.toml"

// ErrStale is returned by "build --check" if the index is missing or out of
// date.
var ErrStale = errors.New("release notes index is out of date")

// CLI is the command-line interface of relnotes.
type CLI struct {
	Build BuildCmd `cmd:"" default:"withargs" help:"Build the release notes index (default command)."`
	Watch WatchCmd `cmd:"" help:"Rebuild the release notes index whenever a release note changes."`

	Config  kong.ConfigFlag `name:"config" short:"c" help:"Path to a TOML configuration file."`
	Verbose bool            `name:"verbose" short:"v" env:"RELNOTES_VERBOSE" help:"Enable verbose logging."`
}

// Layout describes where the release notes are and where the index goes.
type Layout struct {
	Root         string   `arg:"" default:"." help:"Documentation source root."`
	Dir          string   `default:"releasenotes" env:"RELNOTES_DIR" help:"Release notes directory, relative to the source root."`
	Ext          string   `name:"ext" default:".rst" env:"RELNOTES_EXT" help:"Extension of release notes and the index."`
	Output       string   `short:"o" env:"RELNOTES_OUTPUT" help:"Path of the index. Defaults to <dir><ext> in the source root."`
	Title        string   `default:"Release notes" env:"RELNOTES_TITLE" help:"Title of the index."`
	Exclude      []string `short:"e" env:"RELNOTES_EXCLUDE" help:"Glob pattern(s) of release notes to leave out."`
	SkipDotfiles bool     `name:"skip-dotfiles" env:"RELNOTES_SKIP_DOTFILES" help:"Ignore release notes whose name starts with a dot."`
	Strict       bool     `env:"RELNOTES_STRICT" help:"Require complete SemVer 2.0.0 versions."`
	NoAtomic     bool     `name:"no-atomic" env:"RELNOTES_NO_ATOMIC" help:"Write the index in place instead of replacing it atomically."`
	Force        bool     `short:"f" env:"RELNOTES_FORCE" help:"Write the index even if it is up to date."`
}

// BuildCmd builds the index once.
type BuildCmd struct {
	Layout

	DryRun bool `name:"dry" env:"RELNOTES_DRY_RUN" help:"Print the index instead of writing it."`
	Check  bool `env:"RELNOTES_CHECK" help:"Fail if the index is missing or out of date instead of writing it."`
}

// WatchCmd rebuilds the index on every change.
type WatchCmd struct {
	Layout

	Debounce time.Duration `default:"100ms" env:"RELNOTES_DEBOUNCE" help:"Time to wait for more changes before rebuilding."`
}

// Run builds the index. With --dry, the index is printed to stdout; with
// --check, nothing is written and ErrStale is returned if the index would
// change.
func (cmd *BuildCmd) Run(ctx context.Context, kctx *kong.Context, cfg *CLI) error {
	logHandler := cfg.logHandler(kctx.Stderr)

	b, err := cmd.builder(logHandler)
	if err != nil {
		return err
	}

	switch {
	case cmd.DryRun:
		doc, err := b.Index(ctx)
		if err != nil {
			return err
		}
		if _, err := doc.WriteTo(kctx.Stdout); err != nil {
			return fmt.Errorf("print index: %w", err)
		}
		return nil
	case cmd.Check:
		res, err := b.Check(ctx)
		if err != nil {
			return err
		}
		if res.Changed {
			return fmt.Errorf("%s: %w", res.Path, ErrStale)
		}
		fmt.Fprintf(kctx.Stdout, "%s is up to date.\n", res.Path)
		return nil
	}

	_, err = b.Build(ctx)
	return err
}

// Run watches the release notes directory until ctx is canceled.
func (cmd *WatchCmd) Run(ctx context.Context, kctx *kong.Context, cfg *CLI) error {
	logHandler := cfg.logHandler(kctx.Stderr)

	b, err := cmd.builder(logHandler)
	if err != nil {
		return err
	}

	w := watch.New(b.Dir(), func(ctx context.Context) error {
		_, err := b.Build(ctx)
		return err
	}, watch.Debounce(cmd.Debounce), watch.WithLogger(logHandler))

	return w.Run(ctx)
}

func (l *Layout) builder(h slog.Handler) (*relnotes.Builder, error) {
	root := l.Root
	if !filepath.IsAbs(root) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = filepath.Join(wd, root)
	}

	opts := []relnotes.Option{
		relnotes.WithLogger(h),
		relnotes.Dir(l.Dir),
		relnotes.Extension(l.Ext),
		relnotes.Output(l.Output),
		relnotes.Title(l.Title),
		relnotes.Exclude(l.Exclude...),
		relnotes.Strict(l.Strict),
		relnotes.WriteWith(index.Atomic(!l.NoAtomic), index.Force(l.Force)),
	}
	if l.SkipDotfiles {
		opts = append(opts, relnotes.Skip(find.Skip{Dotfiles: true}))
	}

	return relnotes.New(root, opts...), nil
}

func (cfg *CLI) logHandler(w io.Writer) slog.Handler {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.HandlerOptions{Level: level}.NewTextHandler(w)
}

// Options returns the kong options of the relnotes CLI. Commands run with
// ctx.
func Options(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Name("relnotes"),
		kong.Description("Build the release notes index of a documentation source tree."),
		kong.UsageOnError(),
		kong.Configuration(TOML, DefaultConfig),
	}
}

// New parses the command-line arguments and returns the resulting
// *kong.Context. Commands run until ctx is canceled. Without a command, the
// "build" command runs.
func New(ctx context.Context) *kong.Context {
	var cfg CLI
	return kong.Parse(&cfg, Options(ctx)...)
}
