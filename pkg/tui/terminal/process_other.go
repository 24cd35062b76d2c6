// ABOUTME: Cbreak mode fallback for platforms without termios, built on golang.org/x/term.
// ABOUTME: Uses MakeRaw/Restore and the file's own read deadline support.

//go:build !linux && !solaris && !aix && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package terminal

import (
	"os"
	"time"

	"golang.org/x/term"
)

// enterCbreak falls back to full raw mode; x/term exposes no finer control
// on these platforms.
func enterCbreak(fd int) (*State, error) {
	prior, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &State{mode: prior}, nil
}

func restoreMode(fd int, s *State) error {
	prior, ok := s.mode.(*term.State)
	if !ok {
		return errForeignState
	}
	return term.Restore(fd, prior)
}

func awaitReadable(f *os.File, _ int, deadline time.Time) error {
	return f.SetReadDeadline(deadline)
}
