// ABOUTME: Tests for RestoreOnPanic: session restored, stack printed, exit code 1
// ABOUTME: Swaps the package exit hook so the test process survives

package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func stubExit(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()

	var out bytes.Buffer
	code := -1
	prevOut, prevExit := panicOutput, exit
	panicOutput = &out
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		panicOutput, exit = prevOut, prevExit
	})
	return &out, &code
}

func TestRestoreOnPanic_RestoresAndExits(t *testing.T) {
	out, code := stubExit(t)
	vt := NewVirtualTerminal(Capabilities{})

	s, err := Begin(vt)
	if err != nil {
		t.Fatal(err)
	}

	func() {
		defer RestoreOnPanic(s)
		panic("probe exploded")
	}()

	if vt.Mode() != CookedMode {
		t.Errorf("Mode() = %+v, want %+v", vt.Mode(), CookedMode)
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if !strings.Contains(out.String(), "panic: probe exploded") {
		t.Errorf("output %q missing panic value", out.String())
	}
	if !strings.Contains(out.String(), "goroutine") {
		t.Errorf("output missing stack trace")
	}
}

func TestRestoreOnPanic_NoPanicIsNoop(t *testing.T) {
	out, code := stubExit(t)
	vt := NewVirtualTerminal(Capabilities{})

	s, err := Begin(vt)
	if err != nil {
		t.Fatal(err)
	}
	func() {
		defer RestoreOnPanic(s)
	}()

	if *code != -1 {
		t.Errorf("exit called with %d, want no call", *code)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
	if vt.Mode() == CookedMode {
		t.Error("session ended without a panic")
	}
	_ = s.End()
}
