package room

import (
	"fmt"

	"github.com/sshchat/chatd/internal/auth"
	"github.com/sshchat/chatd/internal/chatuser"
	"github.com/sshchat/chatd/internal/command"
)

// addToKeySet adds each of names to ks: if a name matches a currently
// connected member, their live public key is recorded so Save can later
// round-trip a real authorized_keys line; otherwise the name is recorded
// as a bare fingerprint string with no backing key material.
func (r *Room) addToKeySet(ks *auth.KeySet, names []string) {
	for _, name := range names {
		if m, ok := r.MemberByName(name); ok && m.PublicKey != nil {
			ks.AddKey(m.PublicKey, m.Username)
			continue
		}
		ks.AddFingerprint(name, name)
	}
}

func (r *Room) cmdWhitelist(caller *chatuser.Member, args []string) {
	sub, ok := command.ParseWhitelistSub(args)
	if !ok {
		r.errorTo(caller, "usage: /whitelist {on|off|add|remove|load|save|reverify|status|help}")
		return
	}

	trusted := r.auth.Trusted()
	switch sub.Verb {
	case command.SubOn:
		r.auth.SetWhitelistEnabled(true)
		r.systemTo(caller, "Whitelist mode enabled for new connections.")
	case command.SubOff:
		r.auth.SetWhitelistEnabled(false)
		r.systemTo(caller, "Whitelist mode disabled for new connections.")
	case command.SubAdd:
		r.addToKeySet(trusted, sub.Names)
		r.systemTo(caller, fmt.Sprintf("Added %d entries to the whitelist.", len(sub.Names)))
	case command.SubRemove:
		removed := 0
		for _, name := range sub.Names {
			if fp, ok := trusted.FindByComment(name); ok {
				trusted.Remove(fp)
				removed++
			} else if trusted.Remove(name) {
				removed++
			}
		}
		r.systemTo(caller, fmt.Sprintf("Removed %d entries from the whitelist.", removed))
	case command.SubLoad:
		if !r.auth.HasWhitelist() {
			r.errorTo(caller, auth.ErrNoWhitelist.Error())
			return
		}
		if err := trusted.Load(sub.LoadMode == command.LoadMerge); err != nil {
			r.errorTo(caller, err.Error())
			return
		}
		r.systemTo(caller, "Whitelist reloaded from file.")
	case command.SubSave:
		if !r.auth.HasWhitelist() {
			r.errorTo(caller, auth.ErrNoWhitelist.Error())
			return
		}
		if err := trusted.Save(); err != nil {
			r.errorTo(caller, err.Error())
			return
		}
		r.systemTo(caller, "Whitelist saved.")
	case command.SubReverify:
		closed := 0
		for _, name := range r.Names() {
			m, ok := r.MemberByName(name)
			if ok && !r.auth.IsTrusted(m.Fingerprint()) {
				m.Close()
				closed++
			}
		}
		r.systemTo(caller, fmt.Sprintf("Disconnected %d untrusted sessions.", closed))
	case command.SubStatus:
		state := "disabled"
		if r.auth.WhitelistEnabled() {
			state = "enabled"
		}
		r.systemTo(caller, fmt.Sprintf("Whitelist mode is %s (%d trusted keys).", state, trusted.Len()))
	case command.SubHelp:
		r.systemTo(caller, "/whitelist {on|off|add|remove|load|save|reverify|status|help}")
	}
}

func (r *Room) cmdOplist(caller *chatuser.Member, args []string) {
	sub, ok := command.ParseOplistSub(args)
	if !ok {
		r.errorTo(caller, "usage: /oplist {add|remove|load|save|status|help}")
		return
	}

	ops := r.auth.Operators()
	switch sub.Verb {
	case command.SubAdd:
		r.addToKeySet(ops, sub.Names)
		r.systemTo(caller, fmt.Sprintf("Added %d operators.", len(sub.Names)))
	case command.SubRemove:
		removed := 0
		for _, name := range sub.Names {
			if fp, ok := ops.FindByComment(name); ok {
				ops.Remove(fp)
				removed++
			} else if ops.Remove(name) {
				removed++
			}
		}
		r.systemTo(caller, fmt.Sprintf("Removed %d operators.", removed))
	case command.SubLoad:
		if !r.auth.HasOplist() {
			r.errorTo(caller, auth.ErrNoOplist.Error())
			return
		}
		if err := ops.Load(sub.LoadMode == command.LoadMerge); err != nil {
			r.errorTo(caller, err.Error())
			return
		}
		r.systemTo(caller, "Oplist reloaded from file.")
	case command.SubSave:
		if !r.auth.HasOplist() {
			r.errorTo(caller, auth.ErrNoOplist.Error())
			return
		}
		if err := ops.Save(); err != nil {
			r.errorTo(caller, err.Error())
			return
		}
		r.systemTo(caller, "Oplist saved.")
	case command.SubStatus:
		r.systemTo(caller, fmt.Sprintf("%d operators configured.", ops.Len()))
	case command.SubHelp:
		r.systemTo(caller, "/oplist {add|remove|load|save|status|help}")
	}
}
