// Package chatuser defines the per-connection User identity and the Member
// wrapper the room uses to track a connected participant (spec.md §3).
package chatuser

import (
	"regexp"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/sshchat/chatd/internal/message"
)

// Status is the user's away/active state.
type Status struct {
	Away   bool
	Reason string
	Since  time.Time
}

// Config holds the per-user display preferences from spec.md §3/§9(c).
type Config struct {
	ThemeID       string
	TimestampMode message.TimestampMode
	Quiet         bool
	Bell          bool // never set by any command (spec.md §9(c)); exposed for completeness
}

// User is the immutable-identity, mutable-state per-connection record the
// Room owns the canonical copy of.
type User struct {
	ID          int
	JoinedAt    time.Time
	SSHClientID string
	PublicKey   ssh.PublicKey // nil for anonymous ("none" auth) connections

	Username    string
	DisplayName string
	Highlight   *regexp.Regexp // compiled "@<username>" literal matcher

	Status    Status
	Config    Config
	IsMuted   bool
	ReplyTo   *int
	Ignored   map[int]bool
	Focused   map[int]bool
}

// New constructs a User with default config and empty filter sets.
func New(id int, sshClientID string, key ssh.PublicKey, username string) *User {
	u := &User{
		ID:          id,
		JoinedAt:    time.Now(),
		SSHClientID: sshClientID,
		PublicKey:   key,
		Config:      Config{ThemeID: "default"},
		Ignored:     make(map[int]bool),
		Focused:     make(map[int]bool),
	}
	u.SetUsername(username)
	return u
}

// SetUsername updates the username, display name cache, and highlight
// pattern together, so they can never drift out of sync.
func (u *User) SetUsername(name string) {
	u.Username = name
	u.DisplayName = name
	u.Highlight = regexp.MustCompile(regexp.QuoteMeta("@" + name))
}

// Fingerprint returns the SHA-256 fingerprint of the user's public key, or
// "" for anonymous connections.
func (u *User) Fingerprint() string {
	if u.PublicKey == nil {
		return ""
	}
	return ssh.FingerprintSHA256(u.PublicKey)
}

// Snapshot returns a message.Author value for embedding in a Message,
// decoupling message history from the live User.
func (u *User) Snapshot() message.Author {
	return message.Author{ID: u.ID, Username: u.Username, IsMuted: u.IsMuted}
}
