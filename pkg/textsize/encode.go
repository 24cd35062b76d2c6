// ABOUTME: OSC 66 text sizing protocol encoder for scaled, fractional, and width-only text
// ABOUTME: Pure byte producers; every request is validated before any output is built

package textsize

import (
	"errors"
	"fmt"
	"strconv"
)

// Scale and payload limits of the text sizing protocol.
const (
	MinScale        = 1
	MaxScale        = 7
	MaxPayloadBytes = 4096
)

const (
	oscPrefix = "\x1b]66;"
	bel       = '\a'
)

var (
	// ErrInvalidScale is returned when a scale lies outside [MinScale, MaxScale].
	ErrInvalidScale = errors.New("invalid scale")
	// ErrInvalidFraction is returned for non-positive fraction terms or widths.
	ErrInvalidFraction = errors.New("invalid fraction")
	// ErrPayloadTooLarge is returned when text exceeds MaxPayloadBytes.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Fraction is a sub-cell sizing request: Numerator/Denominator of the
// normal cell height, optionally forced to Width cells. Width 0 omits the
// w= key and lets the terminal compute the width.
type Fraction struct {
	Numerator   int
	Denominator int
	Width       int
}

// Half is the half-height fraction used for superscript-like text.
var Half = Fraction{Numerator: 1, Denominator: 2}

func (f Fraction) validate() error {
	if f.Numerator < 1 || f.Denominator < 1 {
		return fmt.Errorf("%w: %d/%d: terms must be positive", ErrInvalidFraction, f.Numerator, f.Denominator)
	}
	if f.Width < 0 {
		return fmt.Errorf("%w: width %d is negative", ErrInvalidFraction, f.Width)
	}
	return nil
}

func checkPayload(text string) error {
	if len(text) > MaxPayloadBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(text), MaxPayloadBytes)
	}
	return nil
}

// EncodeScaled wraps text in a single s=<scale> directive. When
// trailingNewlines is set, scale newlines follow the directive so that
// later output starts below the enlarged glyphs.
func EncodeScaled(text string, scale int, trailingNewlines bool) ([]byte, error) {
	if scale < MinScale || scale > MaxScale {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidScale, scale, MinScale, MaxScale)
	}
	if err := checkPayload(text); err != nil {
		return nil, err
	}

	n := len(oscPrefix) + len("s=0;") + len(text) + 1
	if trailingNewlines {
		n += scale
	}
	b := make([]byte, 0, n)
	b = append(b, oscPrefix...)
	b = append(b, "s="...)
	b = strconv.AppendInt(b, int64(scale), 10)
	b = append(b, ';')
	b = append(b, text...)
	b = append(b, bel)
	if trailingNewlines {
		for range scale {
			b = append(b, '\n')
		}
	}
	return b, nil
}

// EncodeFraction wraps text in a n=<num>:d=<den>[:w=<width>] directive,
// followed by a single newline when trailingNewline is set.
func EncodeFraction(text string, f Fraction, trailingNewline bool) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := checkPayload(text); err != nil {
		return nil, err
	}

	b := appendFraction(make([]byte, 0, len(oscPrefix)+len(text)+16), text, f)
	if trailingNewline {
		b = append(b, '\n')
	}
	return b, nil
}

// EncodeWidth wraps text in a width-only w=<width> directive, asking the
// terminal to render it across exactly width cells.
func EncodeWidth(text string, width int) ([]byte, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: width %d must be positive", ErrInvalidFraction, width)
	}
	if err := checkPayload(text); err != nil {
		return nil, err
	}

	b := make([]byte, 0, len(oscPrefix)+len(text)+8)
	b = append(b, oscPrefix...)
	b = append(b, "w="...)
	b = strconv.AppendInt(b, int64(width), 10)
	b = append(b, ';')
	b = append(b, text...)
	b = append(b, bel)
	return b, nil
}

// EncodeCompactRun emits one half-size, single-cell directive per group
// so that narrow glyph pairs share a cell column. Grouping is the caller's
// decision (see SplitGraphemes and SplitCells); each group is assumed to be
// one cell wide. A single invalid group fails the whole run.
func EncodeCompactRun(groups []string) ([]byte, error) {
	f := Fraction{Numerator: 1, Denominator: 2, Width: 1}

	size := 0
	for i, g := range groups {
		if err := checkPayload(g); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		size += len(oscPrefix) + len(g) + 16
	}

	b := make([]byte, 0, size)
	for _, g := range groups {
		b = appendFraction(b, g, f)
	}
	return b, nil
}

func appendFraction(b []byte, text string, f Fraction) []byte {
	b = append(b, oscPrefix...)
	b = append(b, "n="...)
	b = strconv.AppendInt(b, int64(f.Numerator), 10)
	b = append(b, ":d="...)
	b = strconv.AppendInt(b, int64(f.Denominator), 10)
	if f.Width > 0 {
		b = append(b, ":w="...)
		b = strconv.AppendInt(b, int64(f.Width), 10)
	}
	b = append(b, ';')
	b = append(b, text...)
	return append(b, bel)
}
