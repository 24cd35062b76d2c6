// ABOUTME: Renders markdown as scaled headings plus plain text blocks using OSC 66 directives
// ABOUTME: Parses with goldmark; optional YAML frontmatter overrides the heading-level scale map

package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mauromedda/textsize-go/internal/config"
	"github.com/mauromedda/textsize-go/pkg/textsize"
)

// DefaultScales maps heading levels to scales; unlisted levels render at
// scale 1.
var DefaultScales = map[int]int{1: 4, 2: 3, 3: 2}

// Example is the document rendered when no input file is given.
const Example = `
# h1 Heading

Lorem ipsum dolor sit amet

## h2 Heading

Lorem ipsum dolor sit amet

### h3 Heading

Lorem ipsum dolor sit amet

#### h4 Heading

Lorem ipsum dolor sit amet
`

type frontmatter struct {
	Scales map[int]int `yaml:"scales"`
}

// Renderer writes markdown documents to a terminal.
type Renderer struct {
	md     goldmark.Markdown
	scales map[int]int
}

// NewRenderer returns a Renderer using DefaultScales.
func NewRenderer() *Renderer {
	scales := make(map[int]int, len(DefaultScales))
	for level, scale := range DefaultScales {
		scales[level] = scale
	}
	return &Renderer{md: goldmark.New(), scales: scales}
}

// HeadingScale returns the scale used for a heading of the given level.
func (r *Renderer) HeadingScale(level int) int {
	if s, ok := r.scales[level]; ok {
		return s
	}
	return textsize.MinScale
}

// Render writes doc to w. Frontmatter scales apply to this call only.
func (r *Renderer) Render(w io.Writer, doc string) error {
	fm, body, err := config.ParseFrontmatter[frontmatter](doc)
	if err != nil {
		return err
	}

	scoped := r
	if len(fm.Scales) > 0 {
		scoped = &Renderer{md: r.md, scales: make(map[int]int, len(r.scales)+len(fm.Scales))}
		for level, scale := range r.scales {
			scoped.scales[level] = scale
		}
		for level, scale := range fm.Scales {
			if level < 1 || level > 6 {
				return fmt.Errorf("frontmatter scales: heading level %d out of range", level)
			}
			if scale < textsize.MinScale || scale > textsize.MaxScale {
				return fmt.Errorf("frontmatter scales: h%d: %w: %d", level, textsize.ErrInvalidScale, scale)
			}
			scoped.scales[level] = scale
		}
	}

	src := []byte(body)
	root := r.md.Parser().Parse(text.NewReader(src))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := scoped.block(w, n, src); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) block(w io.Writer, n ast.Node, src []byte) error {
	switch n := n.(type) {
	case *ast.Heading:
		scale := r.HeadingScale(n.Level)
		out, err := textsize.EncodeScaled(content(n, src), scale, true)
		if err != nil {
			return fmt.Errorf("heading h%d: %w", n.Level, err)
		}
		if scale == textsize.MinScale {
			out = append(out, '\n')
		}
		_, err = w.Write(out)
		return err
	case *ast.Paragraph, *ast.TextBlock, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
		_, err := io.WriteString(w, content(n, src)+"\n\n")
		return err
	case *ast.ThematicBreak:
		return nil
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := r.block(w, c, src); err != nil {
				return err
			}
		}
		return nil
	}
}

// content returns the raw source text of a leaf block.
func content(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}
