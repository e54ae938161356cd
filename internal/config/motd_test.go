package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMOTDNormalizesToCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "motd.txt")
	if err := os.WriteFile(path, []byte("line one\nline two\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	text, err := LoadMOTD(path)
	if err != nil {
		t.Fatalf("LoadMOTD: %v", err)
	}
	want := "line one\r\nline two"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}
