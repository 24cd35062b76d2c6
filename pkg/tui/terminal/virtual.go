// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Simulates cursor movement, answers cursor position queries, and honors OSC 66 on request.

package terminal

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	cellwidth "github.com/mauromedda/textsize-go/pkg/tui/width"
)

// Mode is the simulated line discipline of a VirtualTerminal.
type Mode struct {
	Echo      bool
	Canonical bool
}

// CookedMode is the line discipline a VirtualTerminal starts in.
var CookedMode = Mode{Echo: true, Canonical: true}

// Capabilities selects which text sizing directives a VirtualTerminal
// honors. Unhonored directives are swallowed without moving the cursor.
type Capabilities struct {
	Width bool // w= directives
	Scale bool // s= directives
}

type parseState int

const (
	stGround parseState = iota
	stEscape
	stCSI
	stOSC
	stOSCEscape
)

// VirtualTerminal is a fake Terminal for unit tests. It records written
// output, tracks mode transitions, and keeps a simulated 1-based cursor.
type VirtualTerminal struct {
	mu   sync.Mutex
	out  bytes.Buffer
	in   bytes.Buffer
	caps Capabilities
	mode Mode

	row, col int

	state   parseState
	seq     []byte
	partial []byte

	silent   bool
	reply    []byte
	deadline time.Time

	enterCount int
	exitCount  int
}

// NewVirtualTerminal returns a VirtualTerminal in cooked mode with the
// cursor at the top-left cell.
func NewVirtualTerminal(caps Capabilities) *VirtualTerminal {
	return &VirtualTerminal{
		caps: caps,
		mode: CookedMode,
		row:  1,
		col:  1,
	}
}

// EnterCbreakMode records a mode switch and returns the previous mode.
func (v *VirtualTerminal) EnterCbreakMode() (*State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	prior := v.mode
	v.mode = Mode{}
	v.enterCount++
	return &State{mode: prior}, nil
}

// RestoreMode reinstates a mode returned by EnterCbreakMode.
func (v *VirtualTerminal) RestoreMode(s *State) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s == nil {
		return nil
	}
	m, ok := s.mode.(Mode)
	if !ok {
		return errForeignState
	}
	v.mode = m
	v.exitCount++
	return nil
}

// Write appends data to the output log and advances the simulated cursor.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.out.Write(p)
	for _, b := range p {
		v.feed(b)
	}
	return len(p), nil
}

// Read returns pending terminal replies. With nothing pending it fails
// with io.EOF, or waits out the read deadline if one is set.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	if v.in.Len() > 0 {
		defer v.mu.Unlock()
		return v.in.Read(p)
	}
	deadline := v.deadline
	v.mu.Unlock()

	if deadline.IsZero() {
		return 0, io.EOF
	}
	time.Sleep(time.Until(deadline))
	return 0, os.ErrDeadlineExceeded
}

// SetReadDeadline bounds reads that find no pending reply.
func (v *VirtualTerminal) SetReadDeadline(t time.Time) error {
	v.mu.Lock()
	v.deadline = t
	v.mu.Unlock()
	return nil
}

// --- Test helpers (not part of Terminal interface) ---

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.out.String()
}

// Reset clears the output log.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.out.Reset()
}

// Mode returns the current simulated line discipline.
func (v *VirtualTerminal) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.mode
}

// Cursor returns the simulated 1-based cursor position.
func (v *VirtualTerminal) Cursor() (row, col int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.row, v.col
}

// SetSilent makes the terminal ignore cursor position queries.
func (v *VirtualTerminal) SetSilent(silent bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.silent = silent
}

// SetReply replaces every subsequent query answer with raw.
func (v *VirtualTerminal) SetReply(raw []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reply = append([]byte(nil), raw...)
}

// EnterCount returns how many times EnterCbreakMode was called.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times RestoreMode reinstated a state.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}

// feed advances the escape-sequence parser by one byte. Caller holds mu.
func (v *VirtualTerminal) feed(b byte) {
	switch v.state {
	case stGround:
		switch {
		case b == 0x1b:
			v.partial = v.partial[:0]
			v.state = stEscape
		case b == '\r':
			v.col = 1
		case b == '\n':
			v.row++
			v.col = 1
		case b < 0x20 || b == 0x7f:
			// other controls do not move the cursor
		default:
			v.partial = append(v.partial, b)
			if utf8.FullRune(v.partial) {
				r, _ := utf8.DecodeRune(v.partial)
				v.col += runewidth.RuneWidth(r)
				v.partial = v.partial[:0]
			}
		}
	case stEscape:
		v.seq = v.seq[:0]
		switch b {
		case '[':
			v.state = stCSI
		case ']':
			v.state = stOSC
		default:
			v.state = stGround
		}
	case stCSI:
		if b >= 0x40 && b <= 0x7e {
			v.csi(string(v.seq), b)
			v.state = stGround
			return
		}
		v.seq = append(v.seq, b)
	case stOSC:
		switch b {
		case '\a':
			v.osc(string(v.seq))
			v.state = stGround
		case 0x1b:
			v.state = stOSCEscape
		default:
			v.seq = append(v.seq, b)
		}
	case stOSCEscape:
		if b == '\\' {
			v.osc(string(v.seq))
		}
		v.state = stGround
	}
}

func (v *VirtualTerminal) csi(params string, final byte) {
	if final != 'n' || params != "6" || v.silent {
		return
	}
	if v.reply != nil {
		v.in.Write(v.reply)
		return
	}
	v.in.WriteString("\x1b[" + strconv.Itoa(v.row) + ";" + strconv.Itoa(v.col) + "R")
}

// osc applies an OSC 66 directive: "66;k=v:k=v;text".
func (v *VirtualTerminal) osc(payload string) {
	code, rest, ok := strings.Cut(payload, ";")
	if !ok || code != "66" || v.caps == (Capabilities{}) {
		return
	}
	meta, text, ok := strings.Cut(rest, ";")
	if !ok {
		return
	}

	scale, width := 1, 0
	for _, kv := range strings.Split(meta, ":") {
		k, val, _ := strings.Cut(kv, "=")
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		switch k {
		case "s":
			if !v.caps.Scale {
				return
			}
			scale = n
		case "w":
			if !v.caps.Width {
				return
			}
			width = n
		}
	}
	if width == 0 {
		width = cellwidth.Cells(text)
	}
	v.col += scale * width
}
