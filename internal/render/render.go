// Package render implements the terminal renderer from spec.md §4.2: it
// tracks the physical cursor and the input's drawn extent across a
// wrapping monospace terminal, and redraws the prompt line whenever an
// asynchronous message interleaves with editing. ANSI cursor control is
// grounded on vision3's internal/ansi (MoveCursor/ClearScreen/
// CursorBackward-style CSI sequences), generalized from whole-screen
// BBS redraws to single-line prompt tracking.
package render

import (
	"fmt"
	"io"

	"github.com/sshchat/chatd/internal/inputbuf"
	"github.com/sshchat/chatd/internal/termwidth"
)

const (
	clearLine  = "\x1b[2K"
	cursorUp   = "\x1b[%dA"
	cursorDown = "\x1b[%dB"
	cursorCol  = "\x1b[%dG" // 1-indexed column
	crlf       = "\r\n"
)

// coord is a (row, col) screen cell, 0-indexed.
type coord struct {
	row, col int
}

// Renderer owns the prompt-redraw invariant described in spec.md §4.2:
// after any render, the visible prompt shows the current input and the
// physical cursor sits at the input buffer's logical cursor position.
type Renderer struct {
	w      io.Writer
	width  int
	height int
	prompt string

	cursor   coord
	inputEnd coord
}

// New constructs a Renderer writing to w with the given terminal
// dimensions and prompt string.
func New(w io.Writer, width, height int, prompt string) *Renderer {
	return &Renderer{w: w, width: width, height: height, prompt: prompt}
}

// Resize updates the terminal dimensions and recomputes both tracked
// coordinates from the given buffer's current state.
func (r *Renderer) Resize(width, height int, buf *inputbuf.Buffer) {
	r.width = width
	r.height = height
	r.Render(buf)
}

// SetPrompt changes the prompt string (e.g. after a /name rename).
func (r *Renderer) SetPrompt(prompt string) {
	r.prompt = prompt
}

// promptWidth is the monospace display width of the prompt.
func (r *Renderer) promptWidth() int {
	return termwidth.DisplayWidth(r.prompt)
}

// cellFor computes the (row, col) of a display-width offset from the
// start of the prompt, wrapping at terminal width, mirroring spec.md
// §4.2's "prefix width + prompt width wrapped at terminal width" rule.
func (r *Renderer) cellFor(displayOffset int) coord {
	width := r.width
	if width <= 0 {
		width = 80
	}
	total := r.promptWidth() + displayOffset
	return coord{row: total / width, col: total % width}
}

// Render redraws the prompt and input so the cursor lands at buf's
// logical cursor position, per spec.md §4.2 steps (a)-(d).
func (r *Renderer) Render(buf *inputbuf.Buffer) {
	r.moveToInputEnd()
	r.clearUpToPromptRow()

	fmt.Fprint(r.w, r.prompt, buf.Text())

	endOffset := buf.DisplayWidth()
	r.inputEnd = r.cellFor(endOffset)

	prefixOffset := buf.PrefixWidth()
	target := r.cellFor(prefixOffset)
	r.moveTo(target)
	r.cursor = target
}

// PrintMessage implements spec.md §4.2 "print_message": clear the current
// prompt, print msg followed by CRLF, then redraw the prompt line.
func (r *Renderer) PrintMessage(msg string, buf *inputbuf.Buffer) {
	r.moveToInputEnd()
	r.clearUpToPromptRow()
	fmt.Fprint(r.w, msg, crlf)
	r.cursor = coord{}
	r.Render(buf)
}

// moveToInputEnd moves the physical cursor down to r.inputEnd, assuming
// it currently sits at r.cursor.
func (r *Renderer) moveToInputEnd() {
	if r.inputEnd.row > r.cursor.row {
		fmt.Fprintf(r.w, cursorDown, r.inputEnd.row-r.cursor.row)
	} else if r.inputEnd.row < r.cursor.row {
		fmt.Fprintf(r.w, cursorUp, r.cursor.row-r.inputEnd.row)
	}
	r.cursor.row = r.inputEnd.row
}

// clearUpToPromptRow clears every line from the current row up through
// the prompt's first row (row 0).
func (r *Renderer) clearUpToPromptRow() {
	for r.cursor.row > 0 {
		fmt.Fprint(r.w, clearLine)
		fmt.Fprintf(r.w, cursorUp, 1)
		r.cursor.row--
	}
	fmt.Fprint(r.w, clearLine)
	fmt.Fprintf(r.w, cursorCol, 1)
	r.cursor.col = 0
}

// moveTo positions the physical cursor at target, assuming it currently
// sits on r.inputEnd's row (Render calls it right after printing the
// prompt and input, which leaves the cursor at the end of the input).
func (r *Renderer) moveTo(target coord) {
	if up := r.inputEnd.row - target.row; up > 0 {
		fmt.Fprintf(r.w, cursorUp, up)
	}
	fmt.Fprintf(r.w, cursorCol, target.col+1)
}

// RenderedLines reports how many screen rows the current prompt+input
// occupies, given the terminal width. Exposed for session-layer resize
// bookkeeping and tests.
func RenderedLines(prompt, text string, width int) int {
	if width <= 0 {
		width = 80
	}
	total := termwidth.DisplayWidth(prompt) + termwidth.DisplayWidth(text)
	if total == 0 {
		return 1
	}
	return (total-1)/width + 1
}
