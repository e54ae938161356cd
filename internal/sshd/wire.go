package sshd

import "encoding/binary"

// ptyRequest is the decoded payload of an SSH "pty-req" request.
type ptyRequest struct {
	Term          string
	Width, Height int
}

// parsePtyRequest decodes an RFC 4254 §6.2 pty-req payload, grounded on
// vision3's parsePtyRequest (cmd/vision3/main.go) generalized from
// gliderlabs' ssh.Pty to a package-local struct since this server talks
// golang.org/x/crypto/ssh directly.
func parsePtyRequest(payload []byte) (ptyRequest, bool) {
	if len(payload) < 4 {
		return ptyRequest{}, false
	}
	termLen := binary.BigEndian.Uint32(payload[:4])
	if uint64(len(payload)) < uint64(4+termLen+16) {
		return ptyRequest{}, false
	}
	term := string(payload[4 : 4+termLen])
	w := binary.BigEndian.Uint32(payload[4+termLen:])
	h := binary.BigEndian.Uint32(payload[8+termLen:])
	return ptyRequest{Term: term, Width: int(w), Height: int(h)}, true
}

// parseWinchRequest decodes an RFC 4254 §6.7 window-change payload.
func parseWinchRequest(payload []byte) (width, height int, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	w := binary.BigEndian.Uint32(payload[:4])
	h := binary.BigEndian.Uint32(payload[4:8])
	return int(w), int(h), true
}

// parseEnvRequest decodes an RFC 4254 §6.4 env request's KEY=VALUE pair.
func parseEnvRequest(payload []byte) (key, value string, ok bool) {
	if len(payload) < 4 {
		return "", "", false
	}
	keyLen := binary.BigEndian.Uint32(payload[:4])
	if uint64(len(payload)) < uint64(8+keyLen) {
		return "", "", false
	}
	key = string(payload[4 : 4+keyLen])
	valLen := binary.BigEndian.Uint32(payload[4+keyLen:])
	if uint64(len(payload)) < uint64(8+uint64(keyLen)+uint64(valLen)) {
		return "", "", false
	}
	value = string(payload[8+keyLen : 8+keyLen+valLen])
	return key, value, true
}
