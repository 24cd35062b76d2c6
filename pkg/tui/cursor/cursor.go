// ABOUTME: Cursor position query (DSR 6) and report (CPR) protocol over a raw byte stream
// ABOUTME: Reads byte-by-byte until 'R', decodes lossily, and parses ESC [ row ; col R

package cursor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// QuerySequence asks the terminal to report the cursor position.
const QuerySequence = "\x1b[6n"

const terminator = 'R'

var replyPattern = regexp.MustCompile(`^\x1b\[(\d+);(\d+)R$`)

var (
	// ErrMalformedReply matches every *MalformedReplyError.
	ErrMalformedReply = errors.New("malformed cursor position reply")
	// ErrProbeTimeout is returned when no complete reply arrives in time.
	ErrProbeTimeout = errors.New("cursor position probe timed out")
)

// MalformedReplyError carries the decoded reply that failed to parse.
type MalformedReplyError struct {
	Raw string
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedReply, e.Raw)
}

// Is reports whether target is ErrMalformedReply.
func (e *MalformedReplyError) Is(target error) bool {
	return target == ErrMalformedReply
}

// Position is a 1-based cursor location as reported by the terminal.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d;%d", p.Row, p.Col)
}

// ParseReply decodes a complete cursor position report. Invalid UTF-8 is
// replaced rather than rejected so the error can show what arrived.
func ParseReply(raw []byte) (Position, error) {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	text := string(decoded)

	m := replyPattern.FindStringSubmatch(text)
	if m == nil {
		return Position{}, &MalformedReplyError{Raw: text}
	}
	row, errRow := strconv.Atoi(m[1])
	col, errCol := strconv.Atoi(m[2])
	if errRow != nil || errCol != nil {
		return Position{}, &MalformedReplyError{Raw: text}
	}
	return Position{Row: row, Col: col}, nil
}

type flusher interface {
	Flush() error
}

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Prober runs cursor position queries. In and Out are usually the same
// terminal, already in cbreak mode so the reply is neither echoed nor
// line-buffered.
type Prober struct {
	In  io.Reader
	Out io.Writer
	// Timeout bounds each query. Zero waits indefinitely.
	Timeout time.Duration
}

// Query writes the position request and blocks until the reply's
// terminator arrives, the deadline passes, or ctx is cancelled.
func (p *Prober) Query(ctx context.Context) (Position, error) {
	if _, err := io.WriteString(p.Out, QuerySequence); err != nil {
		return Position{}, fmt.Errorf("writing cursor query: %w", err)
	}
	if f, ok := p.Out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return Position{}, fmt.Errorf("flushing cursor query: %w", err)
		}
	}

	deadline, bounded := p.deadline(ctx)
	switch {
	case bounded:
		if d, ok := p.In.(deadliner); ok && d.SetReadDeadline(deadline) == nil {
			defer d.SetReadDeadline(time.Time{})
			return parse(readReply(p.In))
		}
		return p.queryAsync(ctx, deadline)
	case ctx.Done() != nil:
		return p.queryAsync(ctx, time.Time{})
	default:
		return parse(readReply(p.In))
	}
}

// queryAsync reads in a goroutine for inputs without deadline support, or
// when only cancellation bounds the wait. On timeout the goroutine stays
// blocked and will consume a late reply.
func (p *Prober) queryAsync(ctx context.Context, deadline time.Time) (Position, error) {
	type result struct {
		raw []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := readReply(p.In)
		done <- result{raw, err}
	}()

	var expired <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r := <-done:
		return parse(r.raw, r.err)
	case <-expired:
		return Position{}, ErrProbeTimeout
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrProbeTimeout
		}
		return Position{}, ctx.Err()
	}
}

// deadline returns the earlier of the context deadline and Timeout.
func (p *Prober) deadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if p.Timeout > 0 {
		if d := time.Now().Add(p.Timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	return deadline, ok
}

func parse(raw []byte, err error) (Position, error) {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return Position{}, ErrProbeTimeout
	}
	if err != nil {
		return Position{}, err
	}
	return ParseReply(raw)
}

// readReply accumulates single bytes until the buffer ends with 'R'.
func readReply(r io.Reader) ([]byte, error) {
	var buf []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			buf = append(buf, b[0])
			if b[0] == terminator {
				return buf, nil
			}
			continue
		}
		if err == io.EOF {
			return nil, fmt.Errorf("reading cursor reply after %q: %w", buf, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, fmt.Errorf("reading cursor reply: %w", err)
		}
	}
}
