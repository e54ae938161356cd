// Package room implements the shared chat room from spec.md §3-§4.6: a
// single mutex-guarded registry of members, bounded message history, the
// broadcast fan-out with per-recipient filtering, and the join/leave
// lifecycle. It is grounded on vision3's internal/chat.ChatRoom,
// generalized from a self-exclude broadcast bus to the full directed /
// private / filtered-broadcast dispatch spec.md requires.
package room

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/sshchat/chatd/internal/auth"
	"github.com/sshchat/chatd/internal/chatuser"
	"github.com/sshchat/chatd/internal/message"
	"github.com/sshchat/chatd/internal/ratelimit"
	"github.com/sshchat/chatd/internal/theme"
)

// Room owns every piece of shared chat state: it is guarded by a single
// mutex per spec.md §5, held across mutation and enqueueing into
// per-member outbound channels but never across transport I/O.
type Room struct {
	mu sync.Mutex

	members map[string]*chatuser.Member // keyed by username
	names   map[int]*chatuser.Member    // keyed by user id

	ratelimits *ratelimit.Limiter
	history    *message.History
	motd       string
	createdAt  time.Time

	auth *auth.Auth
}

// New constructs an empty Room with the given MOTD text and shared Auth
// store.
func New(motd string, a *auth.Auth) *Room {
	return &Room{
		members:    make(map[string]*chatuser.Member),
		names:      make(map[int]*chatuser.Member),
		ratelimits: ratelimit.NewLimiter(),
		history:    message.NewHistory(),
		motd:       motd,
		createdAt:  time.Now(),
		auth:       a,
	}
}

// Uptime reports how long the room has existed.
func (r *Room) Uptime() time.Duration {
	return time.Since(r.createdAt)
}

// Auth returns the shared Auth store, for callers that need to check op
// status or bans outside a command execution (e.g. the SSH server's
// publickey callback).
func (r *Room) Auth() *auth.Auth { return r.auth }

// RateLimiter returns the shared per-user rate limiter.
func (r *Room) RateLimiter() *ratelimit.Limiter { return r.ratelimits }

// Join inserts a new member into the room per spec.md §4.6 "join": it
// resolves the requested name (random or sanitized), creates the User and
// Member, sends the MOTD, replays history, and broadcasts the join
// announcement. It returns the new Member, whose Outbox the caller should
// drain.
func (r *Room) Join(id int, requestedName string, key ssh.PublicKey, sshClientID string) *chatuser.Member {
	r.mu.Lock()

	name := chatuser.Sanitize(requestedName)
	if name == "" || r.memberExistsLocked(name) {
		name = r.randomFreeNameLocked()
	}

	u := chatuser.New(id, sshClientID, key, name)
	m := chatuser.NewMember(u)

	r.members[name] = m
	r.names[id] = m

	r.deliverLocked(m, message.New(message.System, u.Snapshot(), r.motd))
	for _, hm := range r.history.Snapshot() {
		r.deliverLocked(m, hm)
	}

	count := len(r.members)
	r.mu.Unlock()

	r.SendMessage(message.New(message.Announce, u.Snapshot(), fmt.Sprintf("%s joined. (Connected: %d)", name, count)))
	return m
}

func (r *Room) memberExistsLocked(name string) bool {
	_, ok := r.members[name]
	return ok
}

func (r *Room) randomFreeNameLocked() string {
	for {
		name := chatuser.RandomName()
		if !r.memberExistsLocked(name) {
			return name
		}
	}
}

// Leave removes the member identified by id, broadcasting the departure
// announcement and scrubbing id from every other member's ignored/focused
// sets (spec.md §4.6 "leave" + "cleanup", folded into one call since no
// path removes a member except through disconnect).
func (r *Room) Leave(id int) {
	r.mu.Lock()

	m, ok := r.names[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	name := m.Username
	joined := time.Since(m.JoinedAt)

	delete(r.members, name)
	delete(r.names, id)
	for _, other := range r.names {
		delete(other.Ignored, id)
		delete(other.Focused, id)
	}
	r.ratelimits.Remove(id)

	r.mu.Unlock()

	r.SendMessage(message.New(message.Announce, m.Snapshot(), fmt.Sprintf("%s left: (After %s)", name, humanDuration(joined))))
}

// MemberByName looks up a connected member by username.
func (r *Room) MemberByName(name string) (*chatuser.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[name]
	return m, ok
}

// MemberByID looks up a connected member by user id.
func (r *Room) MemberByID(id int) (*chatuser.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.names[id]
	return m, ok
}

// Names returns every connected member's username, case-insensitively
// sorted.
func (r *Room) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.members))
	for name := range r.members {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	return names
}

// Count reports the number of connected members.
func (r *Room) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// MOTD returns the current message of the day.
func (r *Room) MOTD() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.motd
}

// SetMOTD updates the message of the day.
func (r *Room) SetMOTD(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.motd = text
}

// FindNameByPrefix implements spec.md §4.6 "find_name_by_prefix": among
// members whose username starts with prefix, sorted by last-sent
// descending, it returns the first whose name is not skip, else the
// second, else "".
func (r *Room) FindNameByPrefix(prefix, skip string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*chatuser.Member
	for name, m := range r.members {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].LastSent().After(matches[j].LastSent()) })

	for _, m := range matches {
		if m.Username == skip {
			continue
		}
		return m.Username, true
	}
	return "", false
}

// Rename implements the name-change half of /name: validate, then rekey
// members/names under the room lock. Returns an error message if the
// rename is refused.
func (r *Room) Rename(id int, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.names[id]
	if !ok {
		return fmt.Errorf("not joined")
	}
	if newName == m.Username {
		return fmt.Errorf("that is already your name")
	}
	if r.memberExistsLocked(newName) {
		return fmt.Errorf("%q name is already taken", newName)
	}

	old := m.Username
	delete(r.members, old)
	m.SetUsername(newName)
	r.members[newName] = m
	return nil
}

// deliverLocked performs a single non-blocking send to m, assuming the
// caller already holds r.mu. Per-recipient send failures (full outbox) are
// swallowed per spec.md §7 "Delivery errors".
func (r *Room) deliverLocked(m *chatuser.Member, msg message.Message) {
	m.Send(message.Format(msg, theme.Get(m.Config.ThemeID), m.Username, m.Config.TimestampMode, m.Config.Bell))
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
