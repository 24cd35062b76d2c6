// ABOUTME: lipgloss renderer that never queries the terminal for its background color
// ABOUTME: An OSC 11 reply arriving mid-probe would be read as part of a cursor report

package termfix

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Renderer returns a lipgloss renderer for w with the background pinned to
// dark, so styling never writes a color query to the controlling terminal.
func Renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetHasDarkBackground(true)
	return r
}
