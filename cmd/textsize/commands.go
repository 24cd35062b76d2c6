// ABOUTME: Subcommand implementations: detect, cursor, print, demo, markdown
// ABOUTME: Probing commands run inside a cbreak session; rendering goes to stdout

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mauromedda/textsize-go/internal/log"
	"github.com/mauromedda/textsize-go/internal/markdown"
	"github.com/mauromedda/textsize-go/internal/report"
	"github.com/mauromedda/textsize-go/pkg/textsize"
	"github.com/mauromedda/textsize-go/pkg/tui/cursor"
	"github.com/mauromedda/textsize-go/pkg/tui/terminal"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("textsize "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// withTerminal opens the controlling terminal and runs fn inside a cbreak
// session. A panic in fn restores the terminal before the process exits.
func (a *app) withTerminal(fn func(t terminal.Terminal) error) error {
	t, closeTerm, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeTerm(); err != nil {
			log.Warn("closing terminal: %v", err)
		}
	}()

	return terminal.WithSession(t, func(s *terminal.Session) error {
		defer terminal.RestoreOnPanic(s)
		return fn(s.Terminal())
	})
}

func (a *app) runDetection() (textsize.Result, error) {
	var res textsize.Result
	err := a.withTerminal(func(t terminal.Terminal) error {
		d := textsize.NewDetector(t, a.settings.ProbeTimeout)
		d.Lenient = a.settings.Lenient
		var err error
		res, err = d.Detect(context.Background())
		// Detection leaves probe spaces on the current line.
		if _, werr := t.Write([]byte("\r\x1b[K")); werr != nil && err == nil {
			err = fmt.Errorf("clearing probe output: %w", werr)
		}
		return err
	})
	return res, err
}

func (a *app) detect(args []string) error {
	fs := a.flagSet("detect")
	asJSON := fs.Bool("json", false, "Print a JSON report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.runDetection()

	if *asJSON {
		out, merr := report.FromResult(res, err, a.getenv("TERM")).MarshalJSON()
		if merr != nil {
			return fmt.Errorf("encoding report: %w", merr)
		}
		fmt.Fprintf(a.stdout, "%s\n", out)
		if err != nil {
			return errUnsupported
		}
	} else if err != nil {
		return fmt.Errorf("detecting text sizing support: %w", err)
	} else {
		answer := "no"
		if res.Supported() {
			answer = "yes"
		}
		fmt.Fprintf(a.stdout, "%s (width=%t scale=%t)\n", answer, res.Width, res.Scale)
	}

	if !res.Supported() {
		return errUnsupported
	}
	return nil
}

func (a *app) cursor(args []string) error {
	fs := a.flagSet("cursor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var pos cursor.Position
	err := a.withTerminal(func(t terminal.Terminal) error {
		p := &cursor.Prober{In: t, Out: t, Timeout: a.settings.ProbeTimeout}
		var err error
		pos, err = p.Query(context.Background())
		return err
	})
	if err != nil {
		return fmt.Errorf("querying cursor position: %w", err)
	}
	fmt.Fprintf(a.stdout, "row %d, column %d\n", pos.Row, pos.Col)
	return nil
}

func (a *app) print(args []string) error {
	fs := a.flagSet("print")
	scale := fs.Int("scale", 2, "Scale factor (1-7)")
	noNewline := fs.Bool("no-newline", false, "Do not reserve the rows the scaled line occupies")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("print: missing text")
	}

	out, err := textsize.EncodeScaled(strings.Join(fs.Args(), " "), *scale, !*noNewline)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	if _, err := a.stdout.Write(out); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

func (a *app) demo(args []string) error {
	fs := a.flagSet("demo")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := demoOutput()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	_, err = a.stdout.Write(out)
	return err
}

// demoOutput builds the quickstart showcase followed by a sweep over every
// scale, first one line per scale and then all on a single line.
func demoOutput() ([]byte, error) {
	var out []byte
	add := func(b []byte, err error) error {
		if err != nil {
			return err
		}
		out = append(out, b...)
		return nil
	}

	if err := add(textsize.EncodeScaled("Double sized text", 2, true)); err != nil {
		return nil, err
	}
	if err := add(textsize.EncodeScaled("Triple sized text", 3, true)); err != nil {
		return nil, err
	}
	if err := add(textsize.EncodeFraction("Half sized text", textsize.Half, true)); err != nil {
		return nil, err
	}
	if err := add(textsize.EncodeCompactRun(textsize.SplitGraphemes("Half", 2))); err != nil {
		return nil, err
	}
	out = append(out, '\n')

	for scale := textsize.MinScale; scale <= textsize.MaxScale; scale++ {
		if err := add(textsize.EncodeScaled(fmt.Sprintf("x%d", scale), scale, true)); err != nil {
			return nil, err
		}
	}
	for scale := textsize.MinScale; scale <= textsize.MaxScale; scale++ {
		if err := add(textsize.EncodeScaled(fmt.Sprintf("x%d", scale), scale, false)); err != nil {
			return nil, err
		}
	}
	out = append(out, '\n')
	return out, nil
}

func (a *app) markdown(args []string) error {
	fs := a.flagSet("markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := markdown.Example
	if fs.NArg() > 0 {
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("reading markdown: %w", err)
		}
		doc = string(data)
	}

	res, err := a.runDetection()
	if err != nil {
		return fmt.Errorf("detecting text sizing support: %w", err)
	}
	if !res.Supported() {
		fmt.Fprintln(a.stdout, unsupportedNotice)
		return errUnsupported
	}

	return markdown.NewRenderer().Render(a.stdout, doc)
}
