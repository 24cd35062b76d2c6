// ABOUTME: Display cell counts for plain text, one grapheme cluster at a time
// ABOUTME: ASCII is counted directly; other strings go through a small LRU cache

package width

import (
	"container/list"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const cacheSize = 256

type entry struct {
	text  string
	cells int
}

// lru maps measured strings to their cell count, evicting the oldest.
type lru struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	limit   int
}

func newLRU(limit int) *lru {
	return &lru{
		entries: make(map[string]*list.Element, limit),
		order:   list.New(),
		limit:   limit,
	}
}

func (c *lru) lookup(text string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[text]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(el)
	return el.Value.(entry).cells, true
}

func (c *lru) store(text string, cells int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[text]; ok {
		return
	}
	if c.order.Len() >= c.limit {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(entry).text)
		}
	}
	c.entries[text] = c.order.PushFront(entry{text: text, cells: cells})
}

var measured = newLRU(cacheSize)

// Cells returns how many terminal cells text occupies at scale 1. Control
// characters count as zero.
func Cells(text string) int {
	if text == "" {
		return 0
	}
	if n, ok := printableASCII(text); ok {
		return n
	}
	if n, ok := measured.lookup(text); ok {
		return n
	}

	n := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n += ClusterCells(cluster)
	}
	measured.store(text, n)
	return n
}

// ClusterCells returns the width of a single grapheme cluster, taken from
// its base rune so combining marks and joiners add nothing.
func ClusterCells(cluster string) int {
	r, size := utf8.DecodeRuneInString(cluster)
	if size == 0 {
		return 0
	}
	return runewidth.RuneWidth(r)
}

func printableASCII(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return 0, false
		}
	}
	return len(s), true
}
