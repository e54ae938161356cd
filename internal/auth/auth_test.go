package auth

import (
	"testing"
	"time"
)

func TestNewWithNoFilesConfiguredOK(t *testing.T) {
	a, err := New("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.HasOplist() || a.HasWhitelist() {
		t.Error("expected neither oplist nor whitelist to be configured")
	}
	if a.WhitelistEnabled() {
		t.Error("expected whitelist mode off when no whitelist path given")
	}
	if a.IsOp("anything") {
		t.Error("no one should be an operator with no oplist configured")
	}
}

func TestBanUsernameAndCheck(t *testing.T) {
	a, _ := New("", "")
	if a.CheckBans("alice", "") {
		t.Fatal("alice should not start banned")
	}
	a.BanUsername("alice", time.Hour)
	if !a.CheckBans("alice", "") {
		t.Error("expected alice to be banned")
	}
	if a.CheckBans("bob", "") {
		t.Error("bob should be unaffected")
	}
}

func TestBanExpiresOnRead(t *testing.T) {
	a, _ := New("", "")
	a.bannedUsernames.now = func() time.Time { return time.Unix(0, 0) }
	a.BanUsername("alice", time.Second)

	a.bannedUsernames.now = func() time.Time { return time.Unix(0, 0).Add(2 * time.Second) }
	if a.CheckBans("alice", "") {
		t.Error("expected ban to have expired")
	}
}

func TestBannedListsBothKinds(t *testing.T) {
	a, _ := New("", "")
	a.BanUsername("alice", time.Hour)
	a.BanFingerprint("SHA256:deadbeef", time.Hour)

	entries := a.Banned()
	if len(entries) != 2 {
		t.Fatalf("expected 2 ban entries, got %d", len(entries))
	}
}

func TestKeySetAddContainsRemove(t *testing.T) {
	k := NewKeySet("")
	k.AddFingerprint("fp1", "alice")
	if !k.Contains("fp1") {
		t.Fatal("expected fp1 to be present")
	}
	if fp, ok := k.FindByComment("alice"); !ok || fp != "fp1" {
		t.Errorf("expected to find fp1 by comment alice, got %q ok=%v", fp, ok)
	}
	if !k.Remove("fp1") {
		t.Error("expected Remove to report fp1 was present")
	}
	if k.Contains("fp1") {
		t.Error("expected fp1 to be gone after Remove")
	}
}

func TestKeySetSaveWithNoPathFails(t *testing.T) {
	k := NewKeySet("")
	if err := k.Save(); err != ErrNoKeyFile {
		t.Errorf("expected ErrNoKeyFile, got %v", err)
	}
}
