package config

import (
	"flag"
	"os"
	"time"

	"dermascan/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   URL of the inference endpoint
//	-d string   path of the local database file
//	-t int      inference request timeout in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.InferenceURL, "u", cfg.InferenceURL, "URL of the inference endpoint")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	analyzeTimeout := fs.Int("t", int(cfg.AnalyzeTimeout.Seconds()), "inference request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AnalyzeTimeout = time.Duration(*analyzeTimeout) * time.Second
}
