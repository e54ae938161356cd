package config

import (
	"os"
	"strings"
)

// DefaultMOTD is the bundled message of the day used when --motd is
// not supplied.
const DefaultMOTD = "Welcome to chatd. Type /help for a list of commands."

// LoadMOTD reads path and normalizes its line endings to CRLF per
// spec.md §6 "Files: MOTD: raw text; newlines normalized to CRLF."
func LoadMOTD(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return normalizeCRLF(string(data)), nil
}

func normalizeCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	return strings.TrimRight(s, "\r\n")
}
