// ABOUTME: YAML frontmatter parser for markdown documents, with CRLF normalization
// ABOUTME: Decodes the block between leading --- delimiters into any type T

package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ErrUnterminatedFrontmatter is returned when an opening --- has no match.
var ErrUnterminatedFrontmatter = errors.New("unterminated frontmatter: missing closing ---")

// ParseFrontmatter splits markdown into decoded frontmatter and body.
// Without a leading delimiter it returns (zero T, content, nil).
func ParseFrontmatter[T any](content string) (T, string, error) {
	var fm T

	text := strings.ReplaceAll(content, "\r\n", "\n")
	rest, ok := strings.CutPrefix(text, frontmatterDelimiter+"\n")
	if !ok {
		return fm, content, nil
	}

	var block, body string
	switch {
	case rest == frontmatterDelimiter:
		// "---\n---" with nothing after it.
	case strings.HasPrefix(rest, frontmatterDelimiter+"\n"):
		body = rest[len(frontmatterDelimiter)+1:]
	default:
		before, after, found := strings.Cut(rest, "\n"+frontmatterDelimiter)
		if !found {
			return fm, "", ErrUnterminatedFrontmatter
		}
		block = before
		body = strings.TrimPrefix(after, "\n")
	}

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, "", fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	return fm, body, nil
}
