// Package flagx lets several components share os.Args: each one picks out the
// flags it owns and parses them with its own flag.FlagSet.
package flagx

import (
	"flag"
	"strings"
)

// Spec describes the flags a component owns, keyed by bare name ("c",
// "config"). The value tells whether the flag consumes an argument; boolean
// flags map to false and never swallow the following token.
type Spec map[string]bool

// Filter returns the subset of args that belongs to spec, preserving order.
//
// Both "-name" and "--name" spellings are recognized, as well as the inline
// "-name=value" form. A value-taking flag consumes the next argument unless it
// looks like another flag.
func Filter(args []string, spec Spec) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, inline, ok := split(args[i])
		if !ok {
			continue
		}
		takesValue, known := spec[name]
		if !known {
			continue
		}
		out = append(out, args[i])
		if inline || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// split parses "-name", "--name" or "-name=value". inline reports whether the
// value was attached with '='.
func split(arg string) (name string, inline bool, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false, false
	}
	name = strings.TrimLeft(arg, "-")
	if name == "" {
		return "", false, false
	}
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true, true
	}
	return name, false, true
}

// ConfigPath returns the JSON config file named by -c/-config in args, or "".
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Filter(args, Spec{"c": true, "config": true}))

	return path
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
