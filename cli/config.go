package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// TOML is a kong.ConfigurationLoader for TOML files. Keys are flag names;
// dashes may be written as underscores. Flags whose environment variable is
// set are not resolved from the file. Flags of a command may also be put in a
// table named after the command:
//
//	title = "Changelog"
//	exclude = ["*-draft.rst"]
//
//	[watch]
//	debounce = "500ms"
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if envSet(flag.Envs) {
			return nil, nil
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")

		if cmd := commandName(parent); cmd != "" {
			if table, ok := values[cmd].(map[string]any); ok {
				if v, ok := lookup(table, flag.Name, name); ok {
					return v, nil
				}
			}
		}

		if v, ok := lookup(values, flag.Name, name); ok {
			return v, nil
		}

		return nil, nil
	}

	return f, nil
}

func lookup(values map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := values[name]; ok {
			if _, isTable := v.(map[string]any); isTable {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

func envSet(envs []string) bool {
	for _, env := range envs {
		if _, ok := os.LookupEnv(env); ok {
			return true
		}
	}
	return false
}

func commandName(p *kong.Path) string {
	if p == nil || p.Command == nil {
		return ""
	}
	return p.Command.Name
}
