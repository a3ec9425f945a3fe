// Package flagx contains helpers for layered command-line parsing, so that
// each config stage can parse only the flags it owns without tripping over
// flags defined elsewhere.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns a slice of command-line arguments containing only the
// allowed flags (and their values).
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-flag value" form
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags inspects command-line arguments and extracts the config file
// path provided via the -c or -config flags. Other arguments are ignored.
// Returns "" when neither flag is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
