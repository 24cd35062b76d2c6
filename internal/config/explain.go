// ABOUTME: Human-readable rendering of effective settings for --verbose diagnostics
// ABOUTME: Names the environment variable behind each value so overrides are traceable

package config

import (
	"fmt"
	"strings"
)

// Explain renders the effective settings, one per line.
func Explain(s Settings) string {
	var b strings.Builder

	timeout := "unbounded"
	if s.ProbeTimeout > 0 {
		timeout = s.ProbeTimeout.String()
	}
	fmt.Fprintf(&b, "  ProbeTimeout: %-10s (%s)\n", timeout, EnvProbeTimeout)

	mode := "strict"
	if s.Lenient {
		mode = "lenient"
	}
	fmt.Fprintf(&b, "  Detection:    %-10s (%s)\n", mode, EnvLenient)
	fmt.Fprintf(&b, "  LogLevel:     %-10s (%s)\n", s.LogLevel, EnvLogLevel)

	return b.String()
}
