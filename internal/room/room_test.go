package room

import (
	"crypto/ed25519"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/sshchat/chatd/internal/auth"
	"github.com/sshchat/chatd/internal/command"
	"github.com/sshchat/chatd/internal/message"
)

// newTestKey returns a fresh ed25519 public key, for members that have to
// be made operators (an anonymous member has no fingerprint to add).
func newTestKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}
	key, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("ssh.NewPublicKey: %v", err)
	}
	return key
}

func newTestRoom(t *testing.T, motd string) *Room {
	t.Helper()
	a, err := auth.New("", "")
	if err != nil {
		t.Fatalf("auth.New: %v", err)
	}
	return New(motd, a)
}

func drain(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound message")
		return ""
	}
}

func drainAll(ch <-chan string) []string {
	var lines []string
	for {
		select {
		case line := <-ch:
			lines = append(lines, line)
		default:
			return lines
		}
	}
}

// S1 — Join/leave announces.
func TestScenarioJoinLeave(t *testing.T) {
	r := newTestRoom(t, "Welcome!")
	alice := r.Join(1, "alice", nil, "client-1")

	lines := drainAll(alice.Outbox)
	if len(lines) != 2 {
		t.Fatalf("expected MOTD + join announce (no history), got %d lines: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "Welcome!") {
		t.Errorf("expected first line to carry the MOTD, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "joined") || !strings.Contains(lines[1], "Connected: 1") {
		t.Errorf("expected join announce, got %q", lines[1])
	}

	r.Leave(alice.ID)
	if r.Count() != 0 {
		t.Errorf("expected empty room after leave, got %d members", r.Count())
	}
}

// S2 — Public message with @mention highlight.
func TestScenarioPublicHighlight(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	bob := r.Join(2, "bob", nil, "c2")
	drainAll(alice.Outbox)
	drainAll(bob.Outbox)

	r.SendMessage(message.New(message.Public, alice.Snapshot(), "hello @bob"))

	bobLine := drain(t, bob.Outbox)
	if !strings.Contains(bobLine, "hello") {
		t.Errorf("expected bob to receive the message, got %q", bobLine)
	}
	aliceLine := drain(t, alice.Outbox)
	if !strings.Contains(aliceLine, "hello @bob") {
		t.Errorf("expected alice to receive her own message, got %q", aliceLine)
	}
}

// S3 — Ignore filter.
func TestScenarioIgnore(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	bob := r.Join(2, "bob", nil, "c2")
	drainAll(alice.Outbox)
	drainAll(bob.Outbox)

	r.Execute(bob, command.Command{Name: "ignore", Args: []string{"alice"}})
	echo := drain(t, bob.Outbox)
	if !strings.Contains(echo, "Ignoring: alice") {
		t.Errorf("expected ignore echo, got %q", echo)
	}

	r.SendMessage(message.New(message.Public, alice.Snapshot(), "hi"))

	select {
	case line := <-bob.Outbox:
		t.Errorf("expected bob to receive nothing, got %q", line)
	case <-time.After(50 * time.Millisecond):
	}
	aliceLine := drain(t, alice.Outbox)
	if !strings.Contains(aliceLine, "hi") {
		t.Errorf("expected alice to see her own public line, got %q", aliceLine)
	}
}

// S4 — Mute.
func TestScenarioMute(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	bob := r.Join(2, "bob", nil, "c2")
	carol := r.Join(3, "carol", newTestKey(t), "c3")
	r.Auth().Operators().AddKey(carol.PublicKey, "carol")
	drainAll(alice.Outbox)
	drainAll(bob.Outbox)
	drainAll(carol.Outbox)

	r.Execute(carol, command.Command{Name: "mute", Args: []string{"alice"}})
	drainAll(carol.Outbox)

	r.SendMessage(message.New(message.Public, alice.Snapshot(), "hey"))

	aliceLine := drain(t, alice.Outbox)
	if !strings.Contains(aliceLine, "muted") {
		t.Errorf("expected mute error, got %q", aliceLine)
	}
	select {
	case line := <-alice.Outbox:
		t.Errorf("expected exactly one error to alice, got extra %q", line)
	case <-time.After(50 * time.Millisecond):
	}

	for name, ch := range map[string]<-chan string{"bob": bob.Outbox, "carol": carol.Outbox} {
		select {
		case line := <-ch:
			t.Errorf("expected %s to receive nothing, got %q", name, line)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// S5 — Rename collision.
func TestScenarioRenameCollision(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	_ = r.Join(2, "bob", nil, "c2")
	drainAll(alice.Outbox)

	r.Execute(alice, command.Command{Name: "name", Args: []string{"bob"}})

	line := drain(t, alice.Outbox)
	if !strings.Contains(line, `"bob" name is already taken`) {
		t.Errorf("expected rename-collision error, got %q", line)
	}
	if _, ok := r.MemberByName("alice"); !ok {
		t.Error("expected alice's name to be unchanged")
	}
}

// S6 — Ban by name.
func TestScenarioBanByName(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	carol := r.Join(2, "carol", newTestKey(t), "c2")
	r.Auth().Operators().AddKey(carol.PublicKey, "carol")
	drainAll(alice.Outbox)
	drainAll(carol.Outbox)

	r.Execute(carol, command.Command{Name: "ban", Args: []string{"name=alice", "1h"}})

	if !r.Auth().CheckBans("alice", "") {
		t.Error("expected alice's username to be banned")
	}
	select {
	case <-alice.Done:
	case <-time.After(time.Second):
		t.Error("expected alice's session to be closed")
	}

	lines := drainAll(carol.Outbox)
	found := false
	for _, l := range lines {
		if strings.Contains(l, "Banning is complete") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected completion notice, got %v", lines)
	}
}

func TestInvariantMembersNamesInSync(t *testing.T) {
	r := newTestRoom(t, "")
	r.Join(1, "alice", nil, "c1")
	r.Join(2, "bob", nil, "c2")
	if len(r.members) != len(r.names) {
		t.Fatalf("members/names size mismatch: %d vs %d", len(r.members), len(r.names))
	}
	r.Leave(1)
	if len(r.members) != 1 || len(r.names) != 1 {
		t.Errorf("expected 1 member remaining, got members=%d names=%d", len(r.members), len(r.names))
	}
}

func TestLeaveScrubsIgnoredAndFocused(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	bob := r.Join(2, "bob", nil, "c2")
	alice.Ignored[bob.ID] = true
	alice.Focused[bob.ID] = true

	r.Leave(bob.ID)

	if alice.Ignored[bob.ID] || alice.Focused[bob.ID] {
		t.Error("expected bob's id to be scrubbed from alice's ignored/focused sets")
	}
}

func TestHistoryOnlyBroadcastEligible(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	drainAll(alice.Outbox)

	r.SendMessage(message.New(message.Public, alice.Snapshot(), "hi"))
	r.SendMessage(message.New(message.System, alice.Snapshot(), "system only"))
	r.SendMessage(message.New(message.Error, alice.Snapshot(), "error only"))

	snap := r.history.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected only the public message in history, got %d entries", len(snap))
	}
}

func TestRandomNameAssignedOnCollisionOrEmpty(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	dup := r.Join(2, "alice", nil, "c2")
	if dup.Username == alice.Username {
		t.Error("expected a random name on username collision")
	}
	empty := r.Join(3, "", nil, "c3")
	if empty.Username == "" {
		t.Error("expected a random name on empty requested name")
	}
}

func TestPrivateMessageAppendsBellWhenRecipientConfigured(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	bob := r.Join(2, "bob", nil, "c2")
	drainAll(alice.Outbox)
	drainAll(bob.Outbox)
	bob.Config.Bell = true

	r.Execute(alice, command.Command{Name: "msg", Args: []string{"bob", "psst"}})

	line := drain(t, bob.Outbox)
	if !strings.HasSuffix(line, "\x07") {
		t.Errorf("expected recipient with bell enabled to get a trailing BEL byte, got %q", line)
	}
}

func TestFindNameByPrefixPicksMostRecentlyActive(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	alicia := r.Join(2, "alicia", nil, "c2")
	drainAll(alice.Outbox)
	drainAll(alicia.Outbox)

	alice.MarkSent(time.Now())
	alicia.MarkSent(time.Now().Add(time.Second))

	name, ok := r.FindNameByPrefix("ali", "")
	if !ok || name != "alicia" {
		t.Errorf("expected alicia (most recently active), got %q ok=%v", name, ok)
	}
}

func TestFindNameByPrefixSkipsRequestedName(t *testing.T) {
	r := newTestRoom(t, "")
	alice := r.Join(1, "alice", nil, "c1")
	alicia := r.Join(2, "alicia", nil, "c2")
	drainAll(alice.Outbox)
	drainAll(alicia.Outbox)

	alicia.MarkSent(time.Now().Add(time.Second))
	alice.MarkSent(time.Now())

	name, ok := r.FindNameByPrefix("ali", "alicia")
	if !ok || name != "alice" {
		t.Errorf("expected alice once alicia is skipped, got %q ok=%v", name, ok)
	}
}

func TestFindNameByPrefixNoMatch(t *testing.T) {
	r := newTestRoom(t, "")
	r.Join(1, "bob", nil, "c1")

	if _, ok := r.FindNameByPrefix("ali", ""); ok {
		t.Error("expected no match for an unused prefix")
	}
}
