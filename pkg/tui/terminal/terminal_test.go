// ABOUTME: Tests for VirtualTerminal verifying mode tracking, cursor simulation, and query replies.
// ABOUTME: Uses table-driven and parallel sub-tests for thorough coverage.

package terminal

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

// compile-time checks: both implementations must satisfy Terminal.
var (
	_ Terminal = (*VirtualTerminal)(nil)
	_ Terminal = (*ProcessTerminal)(nil)
)

func TestVirtualTerminal_ModeTransitions(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})

	if vt.Mode() != CookedMode {
		t.Fatalf("initial Mode() = %+v, want %+v", vt.Mode(), CookedMode)
	}

	state, err := vt.EnterCbreakMode()
	if err != nil {
		t.Fatalf("EnterCbreakMode() unexpected error: %v", err)
	}
	if got := vt.Mode(); got.Echo || got.Canonical {
		t.Errorf("Mode() in cbreak = %+v, want echo and canonical off", got)
	}

	if err := vt.RestoreMode(state); err != nil {
		t.Fatalf("RestoreMode() unexpected error: %v", err)
	}
	if vt.Mode() != CookedMode {
		t.Errorf("Mode() after restore = %+v, want %+v", vt.Mode(), CookedMode)
	}
	if vt.EnterCount() != 1 || vt.ExitCount() != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", vt.EnterCount(), vt.ExitCount())
	}
}

func TestVirtualTerminal_RestoreForeignState(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})

	err := vt.RestoreMode(&State{mode: "something else"})
	if !errors.Is(err, errForeignState) {
		t.Errorf("RestoreMode(foreign) = %v, want errForeignState", err)
	}
}

func TestVirtualTerminal_CursorMovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		caps    Capabilities
		input   string
		wantRow int
		wantCol int
	}{
		{name: "ascii", input: "hello", wantRow: 1, wantCol: 6},
		{name: "wide runes", input: "世界", wantRow: 1, wantCol: 5},
		{name: "carriage return", input: "abc\r", wantRow: 1, wantCol: 1},
		{name: "newline", input: "abc\n\n", wantRow: 3, wantCol: 1},
		{name: "sgr ignored", input: "\x1b[1mab\x1b[0m", wantRow: 1, wantCol: 3},
		{name: "width honored", caps: Capabilities{Width: true}, input: "\x1b]66;w=2; \a", wantRow: 1, wantCol: 3},
		{name: "width ignored", caps: Capabilities{Scale: true}, input: "\x1b]66;w=2; \a", wantRow: 1, wantCol: 1},
		{name: "scale honored", caps: Capabilities{Scale: true}, input: "\x1b]66;s=3;ab\a", wantRow: 1, wantCol: 7},
		{name: "scale ignored", caps: Capabilities{Width: true}, input: "\x1b]66;s=3;ab\a", wantRow: 1, wantCol: 1},
		{name: "unsupported swallows fraction", input: "\x1b]66;n=1:d=2;ab\a", wantRow: 1, wantCol: 1},
		{name: "string terminator", caps: Capabilities{Width: true}, input: "\x1b]66;w=4;x\x1b\\", wantRow: 1, wantCol: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := NewVirtualTerminal(tt.caps)

			if _, err := vt.Write([]byte(tt.input)); err != nil {
				t.Fatalf("Write() unexpected error: %v", err)
			}
			row, col := vt.Cursor()
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("Cursor() = (%d, %d), want (%d, %d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestVirtualTerminal_SplitWrites(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{Width: true})

	// Escape sequences and runes may straddle writes.
	for _, chunk := range []string{"\x1b]6", "6;w=2", "; \a", "\xe4\xb8", "\x96"} {
		if _, err := vt.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}
	if _, col := vt.Cursor(); col != 5 {
		t.Errorf("column = %d, want 5", col)
	}
}

func TestVirtualTerminal_AnswersCursorQuery(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})

	if _, err := vt.Write([]byte("ab\ncd\x1b[6n")); err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(vt)
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	if want := "\x1b[2;3R"; string(got) != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestVirtualTerminal_CannedReply(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})
	vt.SetReply([]byte("\x1b[abcR"))

	if _, err := vt.Write([]byte("\x1b[6n")); err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(vt)
	if string(got) != "\x1b[abcR" {
		t.Errorf("reply = %q, want canned reply", got)
	}
}

func TestVirtualTerminal_SilentReadDeadline(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})
	vt.SetSilent(true)

	if _, err := vt.Write([]byte("\x1b[6n")); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 1)
	if _, err := vt.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("Read() without deadline = %v, want io.EOF", err)
	}

	_ = vt.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	if _, err := vt.Read(buf); !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Errorf("Read() with deadline = %v, want os.ErrDeadlineExceeded", err)
	}
}

func TestVirtualTerminal_OutputAndReset(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(Capabilities{})

	if _, err := vt.Write([]byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := vt.Write([]byte("two")); err != nil {
		t.Fatal(err)
	}
	if got := vt.Output(); got != "onetwo" {
		t.Errorf("Output() = %q, want %q", got, "onetwo")
	}

	vt.Reset()
	if got := vt.Output(); got != "" {
		t.Errorf("Output() after Reset = %q, want empty", got)
	}
}
