// Package history implements the bounded, navigable input-line history
// described in spec.md §4.1: a fixed-capacity circular buffer of
// previously submitted lines, with Prev/Next navigation that snapshots the
// live (unsubmitted) line on first Prev and restores it when Next runs past
// the newest entry.
package history

const defaultCapacity = 20

// History is a circular buffer of input lines with a navigation cursor.
type History struct {
	capacity int
	entries  []string // oldest first
	navIndex *int     // nil when not navigating; index into entries counting from the end (0 = newest)
	snapshot string
}

// New returns a History with the canonical capacity of 20 entries.
func New() *History {
	return &History{capacity: defaultCapacity}
}

// NewWithCapacity returns a History with a custom capacity (used by tests).
func NewWithCapacity(capacity int) *History {
	return &History{capacity: capacity}
}

// Push appends a submitted line, evicting the oldest entry on overflow, and
// resets navigation (nav index becomes None).
func (h *History) Push(line string) {
	h.entries = append(h.entries, line)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	h.navIndex = nil
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Prev navigates to the previous (older) entry. liveLine is the buffer's
// current, not-yet-submitted text, captured as the snapshot on the first
// call after a fresh Push. Returns the entry to show and ok=false if there
// is no older entry (navigation stops at the oldest).
func (h *History) Prev(liveLine string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.navIndex == nil {
		h.snapshot = liveLine
		zero := 0
		h.navIndex = &zero
		return h.entries[len(h.entries)-1], true
	}
	next := *h.navIndex + 1
	if next >= len(h.entries) {
		return h.entries[len(h.entries)-1-*h.navIndex], false
	}
	*h.navIndex = next
	return h.entries[len(h.entries)-1-next], true
}

// Next navigates to the next (newer) entry. When Next is called past the
// newest entry, it restores the pre-navigation snapshot and clears the nav
// index; ok reports whether an entry (true) or the snapshot (false) was
// returned.
func (h *History) Next() (string, bool) {
	if h.navIndex == nil {
		return "", false
	}
	if *h.navIndex == 0 {
		h.navIndex = nil
		return h.snapshot, false
	}
	*h.navIndex--
	return h.entries[len(h.entries)-1-*h.navIndex], true
}

// Navigating reports whether a Prev/Next sequence is in progress.
func (h *History) Navigating() bool { return h.navIndex != nil }
