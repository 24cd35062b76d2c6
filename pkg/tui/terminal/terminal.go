// ABOUTME: Defines the Terminal interface for cbreak mode control and synchronous I/O.
// ABOUTME: Abstracts terminal operations so implementations can target real or virtual terminals.

package terminal

import "errors"

var (
	// ErrNotTerminal is returned when no controlling terminal is available.
	ErrNotTerminal = errors.New("not a terminal")

	errForeignState = errors.New("state was not captured by this terminal")
)

// Terminal abstracts the device a protocol session talks to: a byte
// stream in both directions plus line-discipline control. Implementations
// must be pointer types; sessions key on terminal identity.
type Terminal interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)

	// EnterCbreakMode switches input to unbuffered, unechoed delivery and
	// returns the settings in effect before the switch.
	EnterCbreakMode() (*State, error)
	// RestoreMode reinstates settings captured by EnterCbreakMode.
	RestoreMode(s *State) error
}

// State is an opaque snapshot of a terminal's line-discipline settings.
type State struct {
	mode any
}
