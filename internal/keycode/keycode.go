// Package keycode decodes a raw terminal byte stream into key tokens,
// accumulating multi-byte escape sequences internally (spec.md §4.3).
package keycode

// Kind identifies the category of a decoded Key.
type Kind int

const (
	Printable Kind = iota
	Space
	Tab
	Backspace
	Enter
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
	Home
	End
	CtrlA
	CtrlB
	CtrlD
	CtrlE
	CtrlF
	CtrlK
	CtrlU
	CtrlW
	CtrlY
	CtrlArrowLeft
	CtrlArrowRight
	Unknown
)

// Key is a single decoded keypress. Rune is populated for Printable.
type Key struct {
	Kind Kind
	Rune rune
}

// Decoder is a stateful byte-stream-to-Key decoder. Feed it bytes one at a
// time (or via Feed with a chunk); it returns zero or more completed Key
// tokens once an escape sequence is fully recognized or found unrecognized.
type Decoder struct {
	pending []byte
}

// New returns a fresh Decoder.
func New() *Decoder {
	return &Decoder{}
}

// Feed processes a chunk of bytes and returns the Keys it decodes.
func (d *Decoder) Feed(data []byte) []Key {
	var out []Key
	for _, b := range data {
		out = append(out, d.feedByte(b)...)
	}
	return out
}

func (d *Decoder) feedByte(b byte) []Key {
	if len(d.pending) == 0 && b != 0x1b {
		return []Key{decodeSingleByte(b)}
	}

	d.pending = append(d.pending, b)

	// Try to resolve a complete escape sequence.
	if key, consumed, done := tryResolveEscape(d.pending); done {
		d.pending = nil
		if consumed == 0 {
			// Unrecognized: report one Unknown key and discard the pending bytes.
			return []Key{{Kind: Unknown}}
		}
		return []Key{key}
	}
	return nil
}

func decodeSingleByte(b byte) Key {
	switch b {
	case ' ':
		return Key{Kind: Space, Rune: ' '}
	case '\t':
		return Key{Kind: Tab, Rune: '\t'}
	case 0x7f, 0x08:
		return Key{Kind: Backspace}
	case '\r', '\n':
		return Key{Kind: Enter}
	case 0x01:
		return Key{Kind: CtrlA}
	case 0x02:
		return Key{Kind: CtrlB}
	case 0x04:
		return Key{Kind: CtrlD}
	case 0x05:
		return Key{Kind: CtrlE}
	case 0x06:
		return Key{Kind: CtrlF}
	case 0x0b:
		return Key{Kind: CtrlK}
	case 0x15:
		return Key{Kind: CtrlU}
	case 0x17:
		return Key{Kind: CtrlW}
	case 0x19:
		return Key{Kind: CtrlY}
	default:
		if b >= 0x20 && b < 0x7f {
			return Key{Kind: Printable, Rune: rune(b)}
		}
		return Key{Kind: Unknown}
	}
}

// tryResolveEscape attempts to match pending (which always starts with ESC)
// against known sequences. done=true means no more bytes are needed to
// decide (either matched, or given up as unrecognized). consumed is unused
// beyond signaling a match (>0) vs unrecognized ESC (0).
func tryResolveEscape(pending []byte) (Key, int, bool) {
	if len(pending) == 1 {
		// Bare ESC — wait for the next byte; a lone ESC produces no key
		// until more input arrives.
		return Key{}, 0, false
	}
	if pending[1] != '[' && pending[1] != 'O' {
		return Key{Kind: Unknown}, 0, true
	}
	if len(pending) == 2 {
		return Key{}, 0, false
	}

	final := pending[len(pending)-1]
	body := string(pending[2 : len(pending)-1])

	switch final {
	case 'A':
		if body == "" {
			return Key{Kind: ArrowUp}, 1, true
		}
	case 'B':
		if body == "" {
			return Key{Kind: ArrowDown}, 1, true
		}
	case 'C':
		switch body {
		case "":
			return Key{Kind: ArrowRight}, 1, true
		case "1;5":
			return Key{Kind: CtrlArrowRight}, 1, true
		}
	case 'D':
		switch body {
		case "":
			return Key{Kind: ArrowLeft}, 1, true
		case "1;5":
			return Key{Kind: CtrlArrowLeft}, 1, true
		}
	case 'H':
		if body == "" {
			return Key{Kind: Home}, 1, true
		}
	case 'F':
		if body == "" {
			return Key{Kind: End}, 1, true
		}
	case '~':
		switch body {
		case "1", "7":
			return Key{Kind: Home}, 1, true
		case "4", "8":
			return Key{Kind: End}, 1, true
		}
	}

	// Still could be a longer sequence if body looks like digits/semicolons
	// we haven't matched yet; cap sequence length defensively.
	if len(pending) > 8 {
		return Key{Kind: Unknown}, 0, true
	}
	if isIncompleteCSIBody(body) {
		return Key{}, 0, false
	}
	return Key{Kind: Unknown}, 0, true
}

func isIncompleteCSIBody(body string) bool {
	for _, c := range body {
		if (c < '0' || c > '9') && c != ';' {
			return false
		}
	}
	return true
}
