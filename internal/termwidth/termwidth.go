// Package termwidth computes monospace display width and grapheme-cluster
// boundaries for terminal output, skipping ANSI escape sequences the way
// vision3's internal/ansi.VisibleLength does for plain byte counting.
package termwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	zwj               = '‍' // zero-width joiner
	variationSelector = '️' // VS-16, emoji presentation
)

// Grapheme is a single user-perceived character: its byte range within the
// original string and its monospace display width.
type Grapheme struct {
	Start, End int // byte offsets [Start, End) in the source string
	Width      int
}

// Graphemes segments s into grapheme clusters, skipping ANSI CSI/OSC
// sequences entirely (they contribute no graphemes and no width).
func Graphemes(s string) []Grapheme {
	out := make([]Grapheme, 0, len(s))
	i := 0
	for i < len(s) {
		if skip := ansiSeqLen(s[i:]); skip > 0 {
			i += skip
			continue
		}
		// Find the end of the next non-ANSI run so uniseg doesn't need to
		// understand escape codes itself.
		j := i
		for j < len(s) && ansiSeqLen(s[j:]) == 0 {
			// advance by one rune at a time, but stop right before an escape
			if s[j] == '\x1b' {
				break
			}
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		run := s[i:j]
		gr := uniseg.NewGraphemes(run)
		for gr.Next() {
			start, end := gr.Positions()
			cluster := run[start:end]
			out = append(out, Grapheme{
				Start: i + start,
				End:   i + end,
				Width: clusterWidth(cluster),
			})
		}
		i = j
	}
	return out
}

// clusterWidth applies the spec's width rules for a single grapheme cluster:
// a ZWJ-containing cluster (emoji ZWJ sequence) counts as 2; VS-16/ZWJ alone
// count 0; a skin-tone modifier forces width 2; otherwise the width of the
// widest constituent rune via go-runewidth.
func clusterWidth(cluster string) int {
	if cluster == string(zwj) || cluster == string(variationSelector) {
		return 0
	}

	hasZWJ := strings.ContainsRune(cluster, zwj)
	hasSkinTone := false
	maxWidth := 0
	for _, r := range cluster {
		if isSkinToneModifier(r) {
			hasSkinTone = true
		}
		if w := runewidth.RuneWidth(r); w > maxWidth {
			maxWidth = w
		}
	}

	if hasZWJ || hasSkinTone {
		return 2
	}
	return maxWidth
}

func isSkinToneModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// DisplayWidth returns the total monospace display width of s, skipping
// ANSI escape sequences.
func DisplayWidth(s string) int {
	total := 0
	for _, g := range Graphemes(s) {
		total += g.Width
	}
	return total
}

// Count returns the number of grapheme clusters in s (ANSI sequences
// skipped, not counted).
func Count(s string) int {
	return len(Graphemes(s))
}

// ansiSeqLen returns the byte length of an ANSI CSI or OSC escape sequence
// starting at s, or 0 if s does not begin with one.
func ansiSeqLen(s string) int {
	if len(s) < 2 || s[0] != '\x1b' {
		return 0
	}
	switch s[1] {
	case '[':
		i := 2
		for i < len(s) && !(s[i] >= 0x40 && s[i] <= 0x7e) {
			i++
		}
		if i < len(s) {
			i++
		}
		return i
	case ']':
		// OSC sequence terminated by BEL or ST (ESC \)
		i := 2
		for i < len(s) {
			if s[i] == '\x07' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
			i++
		}
		return i
	default:
		return 0
	}
}
