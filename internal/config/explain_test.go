// ABOUTME: Tests for the settings summary shown under --verbose
// ABOUTME: Checks defaults and explicit values render with their variable names

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/textsize-go/internal/log"
)

func TestExplain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Settings
		want []string
	}{
		{
			name: "defaults",
			in:   Defaults(),
			want: []string{"unbounded", "strict", "INFO", EnvProbeTimeout, EnvLenient, EnvLogLevel},
		},
		{
			name: "configured",
			in:   Settings{ProbeTimeout: 1500 * time.Millisecond, Lenient: true, LogLevel: log.LevelDebug},
			want: []string{"1.5s", "lenient", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Explain(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Explain() missing %q in:\n%s", w, got)
				}
			}
			if n := strings.Count(got, "\n"); n != 3 {
				t.Errorf("Explain() has %d lines, want 3", n)
			}
		})
	}
}
