package room

import (
	"github.com/sshchat/chatd/internal/message"
)

// SendMessage dispatches msg per spec.md §4.6 "send_message": directed
// kinds go only to the author; Private goes to author and (unless
// ignored) recipient; broadcast-eligible kinds are pushed to history and
// fanned out to every member under the filtering rules below.
func (r *Room) SendMessage(msg message.Message) {
	switch {
	case msg.Kind.Directed():
		r.sendDirected(msg)
	case msg.Kind == message.Private:
		r.sendPrivate(msg)
	case msg.Kind.BroadcastEligible():
		r.sendBroadcast(msg)
	}
}

func (r *Room) sendDirected(msg message.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.names[msg.From.ID]
	if !ok {
		return
	}
	r.deliverLocked(m, msg)
}

func (r *Room) sendPrivate(msg message.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.names[msg.From.ID]
	if !ok {
		return
	}
	if from.IsMuted {
		r.deliverLocked(from, message.New(message.Error, msg.From, "You are muted and cannot send messages."))
		return
	}
	r.deliverLocked(from, msg)

	if msg.To == nil {
		return
	}
	to, ok := r.names[msg.To.ID]
	if !ok {
		return
	}
	if to.Ignored[msg.From.ID] {
		return
	}
	r.deliverLocked(to, msg)
}

func (r *Room) sendBroadcast(msg message.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history.Push(msg)

	from, fromJoined := r.names[msg.From.ID]
	fromMuted := fromJoined && from.IsMuted

	for _, m := range r.names {
		if fromMuted {
			if m.ID == msg.From.ID {
				r.deliverLocked(m, message.New(message.Error, msg.From, "You are muted and cannot send messages."))
			}
			continue
		}
		if m.Ignored[msg.From.ID] {
			continue
		}
		if msg.Kind == message.Announce && m.Config.Quiet {
			continue
		}
		if msg.Kind == message.Public && len(m.Focused) > 0 && !m.Focused[msg.From.ID] {
			continue
		}
		r.deliverLocked(m, msg)
	}
}
