// ABOUTME: CLI entry point for textsize: detect support, query the cursor, print scaled text
// ABOUTME: Parses flags, loads settings, and dispatches to a subcommand with terminal crash recovery

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/textsize-go/internal/config"
	"github.com/mauromedda/textsize-go/internal/log"
	"github.com/mauromedda/textsize-go/internal/termfix"
	"github.com/mauromedda/textsize-go/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// unsupportedNotice is printed when the terminal fails detection.
const unsupportedNotice = "Sorry, your terminal doesn't support the text sizing protocol!"

// errUnsupported ends a command after the notice has been printed.
var errUnsupported = errors.New("text sizing protocol not supported")

// app carries the process boundaries so commands can run against fakes.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	getenv   func(string) string
	open     func() (terminal.Terminal, func() error, error)
	settings config.Settings
}

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		open:   openProcessTerminal,
	}
	os.Exit(a.main(os.Args[1:]))
}

func openProcessTerminal() (terminal.Terminal, func() error, error) {
	t, err := terminal.NewProcessTerminal()
	if err != nil {
		return nil, nil, fmt.Errorf("opening terminal: %w", err)
	}
	return t, t.Close, nil
}

// main runs the CLI and returns the process exit code.
func (a *app) main(args []string) int {
	cli, err := parseFlags(args, a.stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if cli.version {
		fmt.Fprintf(a.stdout, "textsize %s (%s) built %s\n", version, commit, date)
		return 0
	}

	if err := a.run(cli); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUnsupported):
			return 1
		}
		a.fail(err)
		return 1
	}
	return 0
}

// run loads settings and dispatches to the selected subcommand.
func (a *app) run(cli cliArgs) error {
	settings, err := config.Load(a.getenv)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	a.settings = cli.apply(settings)
	log.SetLevel(a.settings.LogLevel)
	log.Debug("settings:\n%s", config.Explain(a.settings))

	switch cli.command {
	case "detect":
		return a.detect(cli.rest)
	case "cursor":
		return a.cursor(cli.rest)
	case "print":
		return a.print(cli.rest)
	case "demo":
		return a.demo(cli.rest)
	case "markdown":
		return a.markdown(cli.rest)
	case "":
		return errors.New("missing command: want detect, cursor, print, demo, or markdown")
	default:
		return fmt.Errorf("unknown command %q", cli.command)
	}
}

func (a *app) fail(err error) {
	label := termfix.Renderer(a.stderr).NewStyle().
		Foreground(lipgloss.Color("1")).
		Bold(true).
		Render("error:")
	fmt.Fprintf(a.stderr, "%s %v\n", label, err)
}
