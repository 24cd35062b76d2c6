// ABOUTME: RestoreOnPanic recovers from panics, ends the terminal session, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call in the goroutine that owns the session.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	panicOutput io.Writer = os.Stderr
	exit                  = os.Exit
)

// RestoreOnPanic should be deferred right after a session begins (or at
// the top of main once one is open). On panic it restores the terminal
// mode, prints the panic value and stack trace, then exits with code 1.
func RestoreOnPanic(s *Session) {
	r := recover()
	if r == nil {
		return
	}

	// Best-effort: the process is going down either way.
	_ = s.End()

	fmt.Fprintf(panicOutput, "\npanic: %v\n\n%s\n", r, debug.Stack())
	exit(1)
}
