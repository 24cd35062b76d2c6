// ABOUTME: Unix cbreak mode via termios ioctls and poll-based read deadlines.
// ABOUTME: Clears ECHO and ICANON with VMIN=1/VTIME=0; the prior termios is the State.

//go:build linux || solaris || aix || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"errors"
	"math"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func enterCbreak(fd int) (*State, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	prior := *termios

	termios.Lflag &^= unix.ECHO | unix.ICANON
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, err
	}
	return &State{mode: prior}, nil
}

func restoreMode(fd int, s *State) error {
	prior, ok := s.mode.(unix.Termios)
	if !ok {
		return errForeignState
	}
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &prior)
}

// awaitReadable blocks until fd has input or deadline passes.
func awaitReadable(_ *os.File, fd int, deadline time.Time) error {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return os.ErrDeadlineExceeded
		}
		ms := int(min(remaining/time.Millisecond, math.MaxInt32))
		if ms == 0 {
			ms = 1
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
}
