package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// LoadKeyFile parses an authorized_keys-style file: one
// "<algo> <base64> [comment]" entry per line, blank lines ignored. It
// returns a map of fingerprint to trailing comment (empty string if the
// line carried none).
func LoadKeyFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file %s: %w", path, err)
	}
	defer f.Close()

	entries := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		entries[ssh.FingerprintSHA256(key)] = comment
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}
	return entries, nil
}
