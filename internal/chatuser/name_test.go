package chatuser

import (
	"regexp"
	"testing"
)

var legalName = regexp.MustCompile(`^[A-Za-z0-9_.\-]*$`)

func TestSanitizeStripsDisallowed(t *testing.T) {
	got := Sanitize("he!!o wor$ld")
	if !legalName.MatchString(got) {
		t.Errorf("sanitized name %q contains disallowed characters", got)
	}
	want := "heoworld"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeTruncates(t *testing.T) {
	got := Sanitize("abcdefghijklmnopqrstuvwxyz")
	if len(got) > maxUsernameLen {
		t.Errorf("expected length <= %d, got %d", maxUsernameLen, len(got))
	}
}

func TestSanitizeEmpty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := Sanitize("!!!"); got != "" {
		t.Errorf("expected empty string for all-disallowed input, got %q", got)
	}
}

func TestRandomNameIsLegal(t *testing.T) {
	name := RandomName()
	if !legalName.MatchString(name) {
		t.Errorf("random name %q is not legal", name)
	}
	if len(name) == 0 {
		t.Error("expected non-empty random name")
	}
}

func TestRandomNameUniquenessAtScale(t *testing.T) {
	seen := make(map[string]bool, 1000)
	collisions := 0
	for i := 0; i < 1000; i++ {
		n := RandomName()
		if seen[n] {
			collisions++
		}
		seen[n] = true
	}
	if collisions > 5 {
		t.Errorf("unexpectedly high collision count in 1000 draws: %d", collisions)
	}
}
