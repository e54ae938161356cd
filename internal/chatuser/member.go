package chatuser

import (
	"sync/atomic"
	"time"
)

// outboxCapacity bounds the per-member outbound channel (spec.md §4.6:
// broadcasts are non-blocking sends that drop on a full channel rather
// than block the room).
const outboxCapacity = 64

// Member wraps a connected User with the plumbing the Room needs to push
// rendered output to its session and to tear the connection down.
type Member struct {
	*User

	Outbox chan string
	Done   chan struct{}

	// lastSent holds the UnixNano timestamp of the member's last accepted
	// Public message (spec.md §4.7 step 6), not of anything delivered to
	// them — see MarkSent/LastSent. Stored atomically since it is written
	// from the member's own session goroutine but read by other sessions'
	// autocomplete lookups under the room lock.
	lastSent atomic.Int64
}

// NewMember wraps u in a Member with a fresh outbox and done signal.
func NewMember(u *User) *Member {
	return &Member{
		User:   u,
		Outbox: make(chan string, outboxCapacity),
		Done:   make(chan struct{}),
	}
}

// Send is a non-blocking write to the member's outbox. It reports whether
// the line was delivered; false means the outbox was full and the line
// was dropped.
func (m *Member) Send(line string) bool {
	select {
	case m.Outbox <- line:
		return true
	default:
		return false
	}
}

// MarkSent records that the member just sent a Public message, for
// find_name_by_prefix's recency ranking (spec.md §4.6, §4.7 step 6).
func (m *Member) MarkSent(t time.Time) {
	m.lastSent.Store(t.UnixNano())
}

// LastSent returns the time MarkSent was last called, or the zero Time if
// the member has never sent a Public message.
func (m *Member) LastSent() time.Time {
	ns := m.lastSent.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Close signals the member's session to shut down. Safe to call more than
// once.
func (m *Member) Close() {
	select {
	case <-m.Done:
	default:
		close(m.Done)
	}
}
