package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sshchat/chatd/internal/inputbuf"
)

func TestRenderDrawsPromptAndInput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, 80, 24, "> ")
	ib := inputbuf.New()
	ib.InsertBeforeCursor([]byte("hello"))

	r.Render(ib)

	out := buf.String()
	if !strings.Contains(out, "> ") || !strings.Contains(out, "hello") {
		t.Errorf("expected rendered output to contain prompt and input, got %q", out)
	}
}

func TestPrintMessageEndsWithCRLFBeforeRedraw(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, 80, 24, "> ")
	ib := inputbuf.New()
	ib.InsertBeforeCursor([]byte("hi"))
	r.Render(ib)
	out.Reset()

	r.PrintMessage("alice: hello", ib)

	rendered := out.String()
	if !strings.Contains(rendered, "alice: hello\r\n") {
		t.Errorf("expected message followed by CRLF, got %q", rendered)
	}
	if !strings.Contains(rendered, "> hi") {
		t.Errorf("expected prompt to be redrawn after the message, got %q", rendered)
	}
}

func TestResizeRecomputesCoordinates(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, 10, 24, "> ")
	ib := inputbuf.New()
	ib.InsertBeforeCursor([]byte("0123456789ABCDEF"))
	r.Render(ib)

	r.Resize(40, 24, ib)
	if r.width != 40 {
		t.Errorf("expected width updated to 40, got %d", r.width)
	}
}

func TestRenderedLinesWraps(t *testing.T) {
	if n := RenderedLines("> ", strings.Repeat("x", 78), 40); n != 2 {
		t.Errorf("expected 2 rendered lines for an 80-wide line at width 40, got %d", n)
	}
}
