package sshd

import (
	"encoding/binary"
	"testing"
)

func encodeString(s string) []byte {
	buf := make([]byte, 4+len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[4:], s)
	return buf
}

func TestParsePtyRequest(t *testing.T) {
	payload := append(encodeString("xterm"), make([]byte, 16)...)
	binary.BigEndian.PutUint32(payload[4+5:], 80)
	binary.BigEndian.PutUint32(payload[8+5:], 24)

	p, ok := parsePtyRequest(payload)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if p.Term != "xterm" || p.Width != 80 || p.Height != 24 {
		t.Errorf("unexpected parse result: %+v", p)
	}
}

func TestParsePtyRequestTooShort(t *testing.T) {
	if _, ok := parsePtyRequest([]byte{0, 0}); ok {
		t.Error("expected parse to fail on truncated payload")
	}
}

func TestParseWinchRequest(t *testing.T) {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint32(payload[:4], 100)
	binary.BigEndian.PutUint32(payload[4:8], 40)

	w, h, ok := parseWinchRequest(payload)
	if !ok || w != 100 || h != 40 {
		t.Errorf("unexpected result: w=%d h=%d ok=%v", w, h, ok)
	}
}

func TestParseEnvRequest(t *testing.T) {
	payload := append(encodeString("CHATD_THEME"), encodeString("mono")...)
	k, v, ok := parseEnvRequest(payload)
	if !ok || k != "CHATD_THEME" || v != "mono" {
		t.Errorf("unexpected result: k=%q v=%q ok=%v", k, v, ok)
	}
}
