// ABOUTME: Caller-side grouping policies for compact runs: fixed grapheme count or cell budget
// ABOUTME: Grapheme-aware via uniseg; cluster widths from pkg/tui/width

package textsize

import (
	"github.com/rivo/uniseg"

	"github.com/mauromedda/textsize-go/pkg/tui/width"
)

// SplitGraphemes partitions text into groups of size grapheme clusters.
// The last group may be shorter. size < 1 is treated as 1.
func SplitGraphemes(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size < 1 {
		size = 1
	}

	var groups []string
	start, count := 0, 0
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(cluster)
		count++
		if count == size {
			groups = append(groups, text[start:offset])
			start, count = offset, 0
		}
	}
	if start < len(text) {
		groups = append(groups, text[start:])
	}
	return groups
}

// SplitCells partitions text greedily so that each group's display width
// does not exceed cells. A cluster wider than cells forms its own group.
// cells < 1 is treated as 1.
func SplitCells(text string, cells int) []string {
	if text == "" {
		return nil
	}
	if cells < 1 {
		cells = 1
	}

	var groups []string
	start, used := 0, 0
	offset := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := width.ClusterCells(cluster)
		if used > 0 && used+w > cells {
			groups = append(groups, text[start:offset])
			start, used = offset, 0
		}
		offset += len(cluster)
		used += w
	}
	if start < len(text) {
		groups = append(groups, text[start:])
	}
	return groups
}
