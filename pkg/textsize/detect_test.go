// ABOUTME: Tests for capability detection against simulated terminals
// ABOUTME: Covers full, partial, and no support plus strict vs lenient probe failures

package textsize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/textsize-go/pkg/tui/cursor"
	"github.com/mauromedda/textsize-go/pkg/tui/terminal"
)

func TestDetector_SimulatedTerminals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		caps terminal.Capabilities
		want Result
	}{
		{name: "full support", caps: terminal.Capabilities{Width: true, Scale: true}, want: Result{Width: true, Scale: true}},
		{name: "ignores directives", caps: terminal.Capabilities{}, want: Result{}},
		{name: "width only", caps: terminal.Capabilities{Width: true}, want: Result{Width: true}},
		{name: "scale only", caps: terminal.Capabilities{Scale: true}, want: Result{Scale: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := terminal.NewVirtualTerminal(tt.caps)

			var got Result
			err := terminal.WithSession(vt, func(s *terminal.Session) error {
				var err error
				got, err = NewDetector(s.Terminal(), 0).Detect(context.Background())
				return err
			})
			if err != nil {
				t.Fatalf("Detect() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
			if got.Supported() != (tt.want.Width && tt.want.Scale) {
				t.Errorf("Supported() = %v", got.Supported())
			}
		})
	}
}

func TestDetector_WritesProbeSequence(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})

	if _, err := NewDetector(vt, 0).Detect(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "\r\x1b[6n\x1b]66;w=2; \a\x1b[6n\x1b]66;s=2; \a\x1b[6n"
	if got := vt.Output(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDetector_BaselineAfterColumnReset(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})

	// Prior output leaves the cursor mid-line; deltas must still match.
	if _, err := vt.Write([]byte("some earlier text")); err != nil {
		t.Fatal(err)
	}
	res, err := NewDetector(vt, 0).Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Supported() {
		t.Errorf("Detect() = %+v, want supported", res)
	}
}

func TestDetector_Idempotent(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})
	d := NewDetector(vt, 0)

	first, err := d.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated Detect() = %+v then %+v", first, second)
	}
}

func TestDetector_StrictPropagatesProbeErrors(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})
	vt.SetReply([]byte("\x1b[garbageR"))

	_, err := NewDetector(vt, 0).Detect(context.Background())
	if !errors.Is(err, cursor.ErrMalformedReply) {
		t.Fatalf("Detect() err = %v, want ErrMalformedReply", err)
	}
	if !strings.Contains(err.Error(), "baseline probe") {
		t.Errorf("err = %q, want it to name the failing step", err)
	}
}

func TestDetector_StrictTimeout(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})
	vt.SetSilent(true)

	_, err := NewDetector(vt, 20*time.Millisecond).Detect(context.Background())
	if !errors.Is(err, cursor.ErrProbeTimeout) {
		t.Errorf("Detect() err = %v, want ErrProbeTimeout", err)
	}
}

func TestDetector_LenientFoldsErrors(t *testing.T) {
	t.Parallel()
	vt := terminal.NewVirtualTerminal(terminal.Capabilities{Width: true, Scale: true})
	vt.SetReply([]byte("\x1b[abcR"))

	d := NewDetector(vt, 0)
	d.Lenient = true
	res, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() lenient err = %v, want nil", err)
	}
	if res.Supported() {
		t.Error("Detect() lenient reported support after probe failure")
	}
}

type scriptedProbe struct {
	positions []cursor.Position
	calls     int
}

func (s *scriptedProbe) Query(context.Context) (cursor.Position, error) {
	p := s.positions[s.calls]
	s.calls++
	return p, nil
}

func TestDetector_UsesPrecedingProbeAsBaseline(t *testing.T) {
	t.Parallel()

	// The width step overshoots; the scale step is judged against the
	// width probe, not the original baseline.
	probe := &scriptedProbe{positions: []cursor.Position{{Row: 1, Col: 1}, {Row: 1, Col: 4}, {Row: 1, Col: 6}}}
	d := &Detector{Out: &strings.Builder{}, Probe: probe}

	res, err := d.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := (Result{Width: false, Scale: true}); res != want {
		t.Errorf("Detect() = %+v, want %+v", res, want)
	}
	if probe.calls != 3 {
		t.Errorf("probe calls = %d, want 3", probe.calls)
	}
}
