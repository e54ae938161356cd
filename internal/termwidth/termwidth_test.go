package termwidth

import "testing"

func TestDisplayWidthPlainASCII(t *testing.T) {
	if w := DisplayWidth("hello"); w != 5 {
		t.Errorf("expected width 5, got %d", w)
	}
}

func TestDisplayWidthSkipsANSI(t *testing.T) {
	s := "\x1b[31mhi\x1b[0m"
	if w := DisplayWidth(s); w != 2 {
		t.Errorf("expected width 2, got %d", w)
	}
}

func TestDisplayWidthSkipsOSC(t *testing.T) {
	s := "\x1b]0;title\x07hi"
	if w := DisplayWidth(s); w != 2 {
		t.Errorf("expected width 2, got %d", w)
	}
}

func TestCountGraphemes(t *testing.T) {
	if n := Count("abc"); n != 3 {
		t.Errorf("expected 3 graphemes, got %d", n)
	}
}

func TestZWJClusterWidth(t *testing.T) {
	// family emoji: man + ZWJ + woman + ZWJ + girl, one grapheme cluster
	s := "\U0001F468‍\U0001F469‍\U0001F467"
	graphemes := Graphemes(s)
	if len(graphemes) != 1 {
		t.Fatalf("expected 1 grapheme cluster, got %d", len(graphemes))
	}
	if graphemes[0].Width != 2 {
		t.Errorf("expected ZWJ cluster width 2, got %d", graphemes[0].Width)
	}
}

func TestSkinToneModifierWidth(t *testing.T) {
	s := "\U0001F44D\U0001F3FB" // thumbs up + light skin tone
	graphemes := Graphemes(s)
	if len(graphemes) != 1 {
		t.Fatalf("expected 1 grapheme cluster, got %d", len(graphemes))
	}
	if graphemes[0].Width != 2 {
		t.Errorf("expected skin-tone cluster width 2, got %d", graphemes[0].Width)
	}
}
