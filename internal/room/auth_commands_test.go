package room

import (
	"strings"
	"testing"

	"github.com/sshchat/chatd/internal/command"
)

func TestOplistStatusCountsOperators(t *testing.T) {
	r := newTestRoom(t, "")
	carol := r.Join(1, "carol", newTestKey(t), "c1")
	r.Auth().Operators().AddKey(carol.PublicKey, "carol")
	drainAll(carol.Outbox)

	r.Execute(carol, command.Command{Name: "oplist", Args: []string{"status"}})
	line := drain(t, carol.Outbox)
	if !strings.Contains(line, "1 operators configured") {
		t.Errorf("expected status line, got %q", line)
	}
}

func TestWhitelistOnOffToggle(t *testing.T) {
	r := newTestRoom(t, "")
	carol := r.Join(1, "carol", newTestKey(t), "c1")
	r.Auth().Operators().AddKey(carol.PublicKey, "carol")
	drainAll(carol.Outbox)

	if r.Auth().WhitelistEnabled() {
		t.Fatal("expected whitelist mode to start disabled with no --whitelist file")
	}
	r.Execute(carol, command.Command{Name: "whitelist", Args: []string{"on"}})
	drainAll(carol.Outbox)
	if !r.Auth().WhitelistEnabled() {
		t.Error("expected whitelist mode to be enabled after /whitelist on")
	}
}

func TestNonOpCannotUseOpOnlyCommand(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	drainAll(alice.Outbox)

	r.Execute(alice, command.Command{Name: "kick", Args: []string{"alice"}})
	line := drain(t, alice.Outbox)
	if !strings.Contains(line, "must be an operator") {
		t.Errorf("expected authorization error, got %q", line)
	}
}
