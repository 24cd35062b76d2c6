// ABOUTME: Empirical text sizing support check from cursor displacement after w=2 and s=2 directives
// ABOUTME: Strict by default (probe errors propagate); Lenient folds them into "unsupported"

package textsize

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mauromedda/textsize-go/internal/log"
	"github.com/mauromedda/textsize-go/pkg/tui/cursor"
	"github.com/mauromedda/textsize-go/pkg/tui/terminal"
)

// PositionQuerier reports the current cursor position.
type PositionQuerier interface {
	Query(ctx context.Context) (cursor.Position, error)
}

// Result is the outcome of one detection run.
type Result struct {
	Width bool // w= moved the cursor by exactly the requested cells
	Scale bool // s= moved the cursor by scale times the text width
}

// Supported reports whether both directive families are honored.
func (r Result) Supported() bool {
	return r.Width && r.Scale
}

// Detector probes a terminal for text sizing support. It must run inside
// an active terminal session so replies can be read back.
type Detector struct {
	Out   io.Writer
	Probe PositionQuerier
	// Lenient reports probe failures as an unsupported terminal instead of
	// returning them.
	Lenient bool
}

// NewDetector wires a Detector to t with a per-query timeout (zero waits
// indefinitely).
func NewDetector(t terminal.Terminal, timeout time.Duration) *Detector {
	return &Detector{
		Out:   t,
		Probe: &cursor.Prober{In: t, Out: t, Timeout: timeout},
	}
}

// Detect writes the probe directives and compares cursor positions. Each
// measurement is taken against the probe immediately before it.
func (d *Detector) Detect(ctx context.Context) (Result, error) {
	res, err := d.detect(ctx)
	if err != nil {
		if d.Lenient {
			log.Debug("textsize: probe failed, treating as unsupported: %v", err)
			return Result{}, nil
		}
		return Result{}, err
	}
	return res, nil
}

func (d *Detector) detect(ctx context.Context) (Result, error) {
	widthProbe, err := EncodeWidth(" ", 2)
	if err != nil {
		return Result{}, err
	}
	scaleProbe, err := EncodeScaled(" ", 2, false)
	if err != nil {
		return Result{}, err
	}

	if _, err := io.WriteString(d.Out, "\r"); err != nil {
		return Result{}, fmt.Errorf("writing carriage return: %w", err)
	}
	before, err := d.Probe.Query(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("baseline probe: %w", err)
	}

	if _, err := d.Out.Write(widthProbe); err != nil {
		return Result{}, fmt.Errorf("writing width probe: %w", err)
	}
	afterWidth, err := d.Probe.Query(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("width probe: %w", err)
	}

	if _, err := d.Out.Write(scaleProbe); err != nil {
		return Result{}, fmt.Errorf("writing scale probe: %w", err)
	}
	afterScale, err := d.Probe.Query(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("scale probe: %w", err)
	}

	log.Debug("textsize: cursor %s -> %s (w=2) -> %s (s=2)", before, afterWidth, afterScale)

	return Result{
		Width: afterWidth.Col == before.Col+2,
		Scale: afterScale.Col == afterWidth.Col+2,
	}, nil
}
