// ABOUTME: ProcessTerminal implements Terminal on the controlling TTY using golang.org/x/term.
// ABOUTME: Prefers /dev/tty so probing works with redirected stdio; supports read deadlines.

package terminal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by a TTY file.
type ProcessTerminal struct {
	mu       sync.Mutex
	in       *os.File
	out      *os.File
	inFd     int
	owned    bool
	deadline time.Time
}

// NewProcessTerminal opens the controlling terminal. It uses /dev/tty when
// it can be opened and falls back to stdin/stdout otherwise.
func NewProcessTerminal() (*ProcessTerminal, error) {
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		t, err := NewProcessTerminalFromFiles(tty, tty)
		if err != nil {
			_ = tty.Close()
			return nil, err
		}
		t.owned = true
		return t, nil
	}
	return NewProcessTerminalFromFiles(os.Stdin, os.Stdout)
}

// NewProcessTerminalFromFiles wraps an already open terminal. in must refer
// to a terminal device.
func NewProcessTerminalFromFiles(in, out *os.File) (*ProcessTerminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s: %w", in.Name(), ErrNotTerminal)
	}
	return &ProcessTerminal{in: in, out: out, inFd: fd}, nil
}

// EnterCbreakMode disables line buffering and echo on the input side.
func (t *ProcessTerminal) EnterCbreakMode() (*State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := enterCbreak(t.inFd)
	if err != nil {
		return nil, fmt.Errorf("entering cbreak mode: %w", err)
	}
	return s, nil
}

// RestoreMode reinstates the settings captured by EnterCbreakMode.
func (t *ProcessTerminal) RestoreMode(s *State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s == nil {
		return nil
	}
	if err := restoreMode(t.inFd, s); err != nil {
		return fmt.Errorf("restoring terminal mode: %w", err)
	}
	return nil
}

// SetReadDeadline bounds subsequent reads. A zero time blocks indefinitely.
// Expired reads fail with os.ErrDeadlineExceeded.
func (t *ProcessTerminal) SetReadDeadline(deadline time.Time) error {
	t.mu.Lock()
	t.deadline = deadline
	t.mu.Unlock()
	return nil
}

// Read reads from the terminal input, honoring the read deadline.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	t.mu.Lock()
	deadline := t.deadline
	t.mu.Unlock()

	if !deadline.IsZero() {
		if err := awaitReadable(t.in, t.inFd, deadline); err != nil {
			return 0, err
		}
	}
	return t.in.Read(p)
}

// Write sends bytes to the terminal output.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// Close releases /dev/tty if NewProcessTerminal opened it.
func (t *ProcessTerminal) Close() error {
	if !t.owned {
		return nil
	}
	return t.in.Close()
}
