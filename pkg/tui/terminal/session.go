// ABOUTME: Session scopes cbreak mode around protocol work and restores the prior mode exactly once.
// ABOUTME: Non-reentrant: a second Begin on the same terminal fails with ErrSessionActive.

package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mauromedda/textsize-go/internal/log"
)

// ErrSessionActive is returned by Begin when the terminal already has an
// open session.
var ErrSessionActive = errors.New("terminal session already active")

var (
	activeMu sync.Mutex
	active   = make(map[Terminal]struct{})
)

// Session holds a terminal in cbreak mode until End is called.
type Session struct {
	term  Terminal
	state *State

	once sync.Once
	err  error
}

// Begin switches t into cbreak mode and returns the session owning the
// captured prior state. Callers must End the session; WithSession does
// that for them.
func Begin(t Terminal) (*Session, error) {
	activeMu.Lock()
	if _, busy := active[t]; busy {
		activeMu.Unlock()
		return nil, ErrSessionActive
	}
	active[t] = struct{}{}
	activeMu.Unlock()

	state, err := t.EnterCbreakMode()
	if err != nil {
		release(t)
		return nil, err
	}
	log.Debug("terminal: cbreak session started")
	return &Session{term: t, state: state}, nil
}

// Terminal returns the terminal the session controls.
func (s *Session) Terminal() Terminal {
	return s.term
}

// End restores the mode captured by Begin. Only the first call touches the
// terminal; later calls return the first call's result.
func (s *Session) End() error {
	s.once.Do(func() {
		s.err = s.term.RestoreMode(s.state)
		release(s.term)
		log.Debug("terminal: cbreak session ended")
	})
	return s.err
}

// WithSession runs fn inside a session on t. The prior mode is restored
// whether fn returns normally, returns an error, or panics; a panic is
// propagated after restoration.
func WithSession(t Terminal, fn func(s *Session) error) (err error) {
	s, err := Begin(t)
	if err != nil {
		return err
	}
	defer func() {
		if endErr := s.End(); endErr != nil && err == nil {
			err = fmt.Errorf("ending session: %w", endErr)
		}
	}()
	return fn(s)
}

func release(t Terminal) {
	activeMu.Lock()
	delete(active, t)
	activeMu.Unlock()
}
