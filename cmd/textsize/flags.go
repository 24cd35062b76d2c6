// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Global flags (--timeout, --lenient, --verbose, --version) precede the subcommand

package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/mauromedda/textsize-go/internal/config"
	"github.com/mauromedda/textsize-go/internal/log"
)

type cliArgs struct {
	timeout time.Duration
	lenient bool
	verbose bool
	version bool

	// set records which flags appeared on the command line.
	set map[string]bool

	command string
	rest    []string
}

func parseFlags(args []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs

	fs := flag.NewFlagSet("textsize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.DurationVar(&a.timeout, "timeout", 0, "Bound each cursor probe (0 waits indefinitely)")
	fs.BoolVar(&a.lenient, "lenient", false, "Treat probe failures as an unsupported terminal")
	fs.BoolVar(&a.verbose, "verbose", false, "Enable debug logging on stderr")
	fs.BoolVar(&a.version, "version", false, "Show version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: textsize [flags] <detect|cursor|print|demo|markdown> [args]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return a, err
	}

	a.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { a.set[f.Name] = true })

	if rest := fs.Args(); len(rest) > 0 {
		a.command = rest[0]
		a.rest = rest[1:]
	}
	return a, nil
}

// apply layers explicitly given flags over environment settings.
func (a cliArgs) apply(s config.Settings) config.Settings {
	if a.set["timeout"] {
		s.ProbeTimeout = a.timeout
	}
	if a.set["lenient"] {
		s.Lenient = a.lenient
	}
	if a.verbose {
		s.LogLevel = log.LevelDebug
	}
	return s
}
