// Package inputbuf implements a grapheme-aware editable input line with
// cursor tracking, undo-on-restore, and history navigation hooks, matching
// spec.md's Input Buffer component (§4.1).
package inputbuf

import (
	"strings"

	"github.com/sshchat/chatd/internal/termwidth"
)

// Buffer is an editable single line of input. All positions it exposes are
// grapheme-cluster based, not byte based, except CursorBytePos which is
// derived for callers that need to slice the underlying text.
type Buffer struct {
	text       string
	graphemes  []termwidth.Grapheme
	cursorChar int // index into graphemes; insertion point

	snapshot    *string
	snapshotSet bool
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

func (b *Buffer) reindex() {
	b.graphemes = termwidth.Graphemes(b.text)
	if b.cursorChar > len(b.graphemes) {
		b.cursorChar = len(b.graphemes)
	}
	if b.cursorChar < 0 {
		b.cursorChar = 0
	}
}

// Text returns the full buffer contents.
func (b *Buffer) Text() string { return b.text }

// GraphemeCount returns the number of grapheme clusters in the buffer.
func (b *Buffer) GraphemeCount() int { return len(b.graphemes) }

// DisplayWidth returns the monospace display width of the buffer contents.
func (b *Buffer) DisplayWidth() int {
	total := 0
	for _, g := range b.graphemes {
		total += g.Width
	}
	return total
}

// CursorCharPos returns the cursor's grapheme-cluster index.
func (b *Buffer) CursorCharPos() int { return b.cursorChar }

// CursorBytePos returns the byte offset of the grapheme at CursorCharPos,
// or len(text) if the cursor sits at the end.
func (b *Buffer) CursorBytePos() int {
	if b.cursorChar >= len(b.graphemes) {
		return len(b.text)
	}
	return b.graphemes[b.cursorChar].Start
}

// PrefixWidth returns the display width of the text before the cursor —
// used by the renderer to place the physical cursor.
func (b *Buffer) PrefixWidth() int {
	total := 0
	for i := 0; i < b.cursorChar && i < len(b.graphemes); i++ {
		total += b.graphemes[i].Width
	}
	return total
}

func (b *Buffer) takeSnapshot() {
	s := b.text
	b.snapshot = &s
	b.snapshotSet = true
}

// InsertBeforeCursor inserts raw bytes at the cursor position, advancing the
// cursor past the inserted text.
func (b *Buffer) InsertBeforeCursor(data []byte) {
	pos := b.CursorBytePos()
	b.text = b.text[:pos] + string(data) + b.text[pos:]
	inserted := termwidth.Count(string(data))
	b.reindexPreservingCursor(pos, len(data), inserted)
}

// reindexPreservingCursor recomputes graphemes and advances the cursor by
// insertedGraphemes from its prior grapheme-index position.
func (b *Buffer) reindexPreservingCursor(_ int, _ int, insertedGraphemes int) {
	before := b.cursorChar
	b.graphemes = termwidth.Graphemes(b.text)
	newPos := before + insertedGraphemes
	if newPos > len(b.graphemes) {
		newPos = len(b.graphemes)
	}
	b.cursorChar = newPos
}

// RemoveBeforeCursor deletes the grapheme immediately before the cursor
// (Backspace).
func (b *Buffer) RemoveBeforeCursor() {
	if b.cursorChar == 0 {
		return
	}
	g := b.graphemes[b.cursorChar-1]
	b.text = b.text[:g.Start] + b.text[g.End:]
	b.cursorChar--
	b.reindex()
}

// RemoveAfterCursor deletes the grapheme at the cursor (Delete), snapshotting
// the prior state for Restore.
func (b *Buffer) RemoveAfterCursor() {
	if b.cursorChar >= len(b.graphemes) {
		return
	}
	b.takeSnapshot()
	g := b.graphemes[b.cursorChar]
	b.text = b.text[:g.Start] + b.text[g.End:]
	b.reindex()
}

// RemoveLastWordBeforeCursor implements Ctrl-W: skip trailing spaces, then
// delete back to the next space (or start of line), snapshotting first.
func (b *Buffer) RemoveLastWordBeforeCursor() {
	if b.cursorChar == 0 {
		return
	}
	b.takeSnapshot()

	end := b.cursorChar
	i := end
	for i > 0 && graphemeText(b, i-1) == " " {
		i--
	}
	for i > 0 && graphemeText(b, i-1) != " " {
		i--
	}

	startByte := 0
	if i < len(b.graphemes) {
		startByte = b.graphemes[i].Start
	} else {
		startByte = len(b.text)
	}
	endByte := b.CursorBytePos()

	b.text = b.text[:startByte] + b.text[endByte:]
	b.cursorChar = i
	b.reindex()
}

func graphemeText(b *Buffer, idx int) string {
	g := b.graphemes[idx]
	return b.text[g.Start:g.End]
}

// MoveCursorNext moves the cursor forward one grapheme.
func (b *Buffer) MoveCursorNext() {
	if b.cursorChar < len(b.graphemes) {
		b.cursorChar++
	}
}

// MoveCursorPrev moves the cursor back one grapheme.
func (b *Buffer) MoveCursorPrev() {
	if b.cursorChar > 0 {
		b.cursorChar--
	}
}

// MoveCursorStart moves the cursor to the beginning of the line.
func (b *Buffer) MoveCursorStart() { b.cursorChar = 0 }

// MoveCursorEnd moves the cursor to the end of the line.
func (b *Buffer) MoveCursorEnd() { b.cursorChar = len(b.graphemes) }

// MoveCursorToByte moves the cursor to the first grapheme that starts at or
// after byte position pos, or to the end of the line if none does (used
// when resuming from history or paste).
func (b *Buffer) MoveCursorToByte(pos int) {
	for i, g := range b.graphemes {
		if g.Start >= pos {
			b.cursorChar = i
			return
		}
	}
	b.cursorChar = len(b.graphemes)
}

// Clear empties the buffer, snapshotting the prior state for Restore.
func (b *Buffer) Clear() {
	if b.text == "" {
		return
	}
	b.takeSnapshot()
	b.text = ""
	b.cursorChar = 0
	b.graphemes = nil
}

// Restore undoes the last Clear/RemoveAfterCursor/RemoveLastWordBeforeCursor
// by reverting to the snapshot taken before it (Ctrl-Y). A no-op if no
// snapshot is pending.
func (b *Buffer) Restore() {
	if !b.snapshotSet {
		return
	}
	b.text = *b.snapshot
	b.snapshot = nil
	b.snapshotSet = false
	b.reindex()
	b.cursorChar = len(b.graphemes)
}

// Set replaces the buffer contents outright and moves the cursor to the end.
// Used by history navigation and command autocomplete.
func (b *Buffer) Set(text string) {
	b.text = text
	b.reindex()
	b.cursorChar = len(b.graphemes)
}

// IsEmpty reports whether the buffer has no text.
func (b *Buffer) IsEmpty() bool { return b.text == "" }

// IsBlank reports whether the buffer is empty or contains only whitespace.
func (b *Buffer) IsBlank() bool { return strings.TrimSpace(b.text) == "" }
