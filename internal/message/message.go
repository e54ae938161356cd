// Package message defines the tagged message variants broadcast or
// directed within a room (spec.md §3 "Message", §4.6), their formatting,
// and the bounded room history buffer.
package message

import (
	"fmt"
	"time"

	"github.com/sshchat/chatd/internal/theme"
)

// Kind tags a Message's variant.
type Kind int

const (
	Public Kind = iota
	Private
	Emote
	Announce
	System
	Error
	Command
)

// BroadcastEligible reports whether messages of this kind are pushed into
// the room's shared history and fanned out to all filtered recipients.
func (k Kind) BroadcastEligible() bool {
	return k == Public || k == Emote || k == Announce
}

// Directed reports whether messages of this kind are visible only to the
// author (System, Error, Command).
func (k Kind) Directed() bool {
	return k == System || k == Error || k == Command
}

// Author is an immutable snapshot of the sender, embedded in every Message
// so recipients never hold a live cross-reference to a member that may
// since have left.
type Author struct {
	ID       int
	Username string
	IsMuted  bool
}

// Message is a single chat event: either broadcast-eligible, directed to
// the author only, or (for Private) directed to a specific recipient plus
// the author.
type Message struct {
	Kind      Kind
	Body      string
	CreatedAt time.Time
	From      Author
	To        *Author // set only for Private
}

// New constructs a Message of the given kind from author.
func New(kind Kind, from Author, body string) Message {
	return Message{Kind: kind, Body: body, CreatedAt: time.Now(), From: from}
}

// NewPrivate constructs a Private message directed at to.
func NewPrivate(from, to Author, body string) Message {
	m := New(Private, from, body)
	m.To = &to
	return m
}

// bel is the terminal bell control character appended to a Private
// message when its recipient's config has the bell on (spec.md §6
// "Rendered output").
const bel = "\x07"

// Format renders the message for terminal display using th, including a
// timestamp prefix as tsMode selects and highlighting
// any "@selfUsername" occurrence for Public messages. recipientBell is the
// receiving member's config.bell setting and only affects Private messages.
func Format(m Message, th theme.Theme, selfUsername string, tsMode TimestampMode, recipientBell bool) string {
	prefix := formatTimestamp(m.CreatedAt, tsMode)
	switch m.Kind {
	case Public:
		body := highlightMention(m.Body, selfUsername, th)
		return fmt.Sprintf("%s%s: %s", prefix, theme.StyleUsername(m.From.Username), body)
	case Emote:
		return fmt.Sprintf("%s* %s %s", prefix, theme.StyleUsername(m.From.Username), m.Body)
	case Announce:
		return prefix + th.Announce.Render("* "+m.Body)
	case Private:
		to := ""
		if m.To != nil {
			to = m.To.Username
		}
		out := fmt.Sprintf("%s[%s -> %s] %s", prefix, theme.StyleUsername(m.From.Username), to, m.Body)
		if recipientBell {
			out += bel
		}
		return out
	case System:
		return prefix + th.System.Render(m.Body)
	case Error:
		return prefix + th.Error.Render("Error: "+m.Body)
	case Command:
		return prefix + fmt.Sprintf("/%s", m.Body)
	default:
		return prefix + m.Body
	}
}

// TimestampMode controls the optional per-user timestamp prefix.
type TimestampMode int

const (
	TimestampOff TimestampMode = iota
	TimestampTime
	TimestampDateTime
)

// ParseTimestampMode parses the /timestamp argument.
func ParseTimestampMode(s string) (TimestampMode, bool) {
	switch s {
	case "off":
		return TimestampOff, true
	case "time":
		return TimestampTime, true
	case "datetime":
		return TimestampDateTime, true
	default:
		return TimestampOff, false
	}
}

func formatTimestamp(t time.Time, mode TimestampMode) string {
	switch mode {
	case TimestampTime:
		return "[" + t.UTC().Format("15:04") + "] "
	case TimestampDateTime:
		return "[" + t.UTC().Format("2006-01-02 15:04:05") + "] "
	default:
		return ""
	}
}

func highlightMention(body, selfUsername string, th theme.Theme) string {
	if selfUsername == "" {
		return body
	}
	mention := "@" + selfUsername
	idx := indexOf(body, mention)
	if idx < 0 {
		return body
	}
	return body[:idx] + th.Highlight.Render(mention) + body[idx+len(mention):]
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
