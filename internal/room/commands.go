package room

import (
	"fmt"
	"strings"
	"time"

	"github.com/sshchat/chatd/internal/chatuser"
	"github.com/sshchat/chatd/internal/command"
	"github.com/sshchat/chatd/internal/message"
	"github.com/sshchat/chatd/internal/theme"
)

// Execute applies the command-execution semantics from spec.md §4.6 for
// a successfully-parsed command. It is the final stage of the session
// workflow chain (spec.md §4.7 step 7).
func (r *Room) Execute(caller *chatuser.Member, cmd command.Command) {
	// /motd with no text only echoes the MOTD and is open to everyone;
	// cmdMotd checks op status itself before changing it.
	motdEcho := cmd.Name == "motd" && len(cmd.Args) == 0
	if command.IsOpOnly(cmd.Name) && !motdEcho && !r.isOp(caller) {
		r.errorTo(caller, "must be an operator")
		return
	}

	switch cmd.Name {
	case "exit":
		caller.Close()
	case "away":
		r.cmdAway(caller, strings.Join(cmd.Args, " "))
	case "back":
		r.cmdBack(caller)
	case "name":
		r.cmdName(caller, cmd.Args[0])
	case "msg":
		r.cmdMsg(caller, cmd.Args[0], strings.Join(cmd.Args[1:], " "))
	case "reply":
		r.cmdReply(caller, strings.Join(cmd.Args, " "))
	case "ignore":
		r.cmdIgnore(caller, cmd.Args)
	case "unignore":
		r.cmdUnignore(caller, cmd.Args[0])
	case "focus":
		r.cmdFocus(caller, cmd.Args)
	case "users":
		r.cmdUsers(caller)
	case "whois":
		r.cmdWhois(caller, cmd.Args[0])
	case "timestamp":
		r.cmdTimestamp(caller, cmd.Args[0])
	case "theme":
		r.cmdTheme(caller, cmd.Args[0])
	case "themes":
		r.systemTo(caller, "Themes: "+strings.Join(theme.Names(), ", "))
	case "quiet":
		r.cmdQuiet(caller)
	case "mute":
		r.cmdMute(caller, cmd.Args[0])
	case "kick":
		r.cmdKick(caller, cmd.Args[0])
	case "ban":
		r.cmdBan(caller, cmd.Args)
	case "banned":
		r.cmdBanned(caller)
	case "motd":
		r.cmdMotd(caller, strings.Join(cmd.Args, " "))
	case "whitelist":
		r.cmdWhitelist(caller, cmd.Args)
	case "oplist":
		r.cmdOplist(caller, cmd.Args)
	case "me":
		r.cmdMe(caller, strings.Join(cmd.Args, " "))
	case "slap":
		r.cmdSlap(caller, cmd.Args)
	case "shrug":
		r.SendMessage(message.New(message.Emote, caller.Snapshot(), `¯\_(ツ)_/¯`))
	case "help":
		r.cmdHelp(caller)
	case "version":
		r.systemTo(caller, "chatd")
	case "uptime":
		r.systemTo(caller, "Uptime: "+humanDuration(r.Uptime()))
	}
}

func (r *Room) isOp(m *chatuser.Member) bool {
	return r.auth.IsOp(m.Fingerprint())
}

func (r *Room) systemTo(m *chatuser.Member, body string) {
	r.SendMessage(message.New(message.System, m.Snapshot(), body))
}

func (r *Room) errorTo(m *chatuser.Member, body string) {
	r.SendMessage(message.New(message.Error, m.Snapshot(), body))
}

func (r *Room) cmdAway(caller *chatuser.Member, reason string) {
	caller.Status = chatuser.Status{Away: true, Reason: reason}
	r.systemTo(caller, "You are now away: "+reason)
}

func (r *Room) cmdBack(caller *chatuser.Member) {
	caller.Status = chatuser.Status{}
	r.systemTo(caller, "Welcome back.")
}

func (r *Room) cmdName(caller *chatuser.Member, newName string) {
	sanitized := chatuser.Sanitize(newName)
	if err := r.Rename(caller.ID, sanitized); err != nil {
		r.errorTo(caller, err.Error())
		return
	}
	r.SendMessage(message.New(message.Announce, caller.Snapshot(), fmt.Sprintf("user is now known as %s.", sanitized)))
}

func (r *Room) cmdMsg(caller *chatuser.Member, toName, body string) {
	to, ok := r.MemberByName(toName)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", toName))
		return
	}
	if to.ID == caller.ID {
		r.errorTo(caller, "cannot message yourself")
		return
	}
	id := caller.ID
	to.ReplyTo = &id
	r.SendMessage(message.NewPrivate(caller.Snapshot(), to.Snapshot(), body))
	if to.Status.Away {
		r.systemTo(caller, fmt.Sprintf("%s is away: %s", to.Username, to.Status.Reason))
	}
}

func (r *Room) cmdReply(caller *chatuser.Member, body string) {
	if caller.ReplyTo == nil {
		r.errorTo(caller, "no one to reply to")
		return
	}
	to, ok := r.MemberByID(*caller.ReplyTo)
	if !ok {
		r.errorTo(caller, "that user has left")
		return
	}
	r.SendMessage(message.NewPrivate(caller.Snapshot(), to.Snapshot(), body))
}

func (r *Room) cmdIgnore(caller *chatuser.Member, args []string) {
	if len(args) == 0 {
		names := r.namesByID(caller.Ignored)
		if len(names) == 0 {
			r.systemTo(caller, "Ignoring: no one")
			return
		}
		r.systemTo(caller, "Ignoring: "+strings.Join(names, ", "))
		return
	}
	target, ok := r.MemberByName(args[0])
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", args[0]))
		return
	}
	caller.Ignored[target.ID] = true
	r.systemTo(caller, "Ignoring: "+target.Username)
}

func (r *Room) cmdUnignore(caller *chatuser.Member, name string) {
	target, ok := r.MemberByName(name)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", name))
		return
	}
	delete(caller.Ignored, target.ID)
	r.systemTo(caller, "No longer ignoring: "+target.Username)
}

func (r *Room) cmdFocus(caller *chatuser.Member, args []string) {
	if len(args) == 0 || args[0] == "$" {
		caller.Focused = make(map[int]bool)
		r.systemTo(caller, "Focus cleared.")
		return
	}
	for _, name := range strings.Split(args[0], ",") {
		if name == "" || name == caller.Username {
			continue
		}
		target, ok := r.MemberByName(name)
		if !ok {
			continue
		}
		caller.Focused[target.ID] = true
	}
	names := r.namesByID(caller.Focused)
	r.systemTo(caller, "Focusing: "+strings.Join(names, ", "))
}

func (r *Room) cmdUsers(caller *chatuser.Member) {
	names := r.Names()
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = theme.StyleUsername(n)
	}
	r.systemTo(caller, strings.Join(styled, ", "))
}

func (r *Room) cmdWhois(caller *chatuser.Member, name string) {
	target, ok := r.MemberByName(name)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", name))
		return
	}
	status := "active"
	if target.Status.Away {
		status = "away: " + target.Status.Reason
	}
	r.systemTo(caller, fmt.Sprintf("%s — joined %s ago, %s", target.Username, humanDuration(time.Since(target.JoinedAt)), status))
}

func (r *Room) cmdTimestamp(caller *chatuser.Member, mode string) {
	m, ok := message.ParseTimestampMode(mode)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("unknown timestamp mode %q", mode))
		return
	}
	caller.Config.TimestampMode = m
	r.systemTo(caller, "Timestamp mode set to "+mode)
}

func (r *Room) cmdTheme(caller *chatuser.Member, name string) {
	if !theme.Exists(name) {
		r.errorTo(caller, fmt.Sprintf("unknown theme %q", name))
		return
	}
	caller.Config.ThemeID = name
	r.systemTo(caller, "Theme set to "+name)
}

func (r *Room) cmdQuiet(caller *chatuser.Member) {
	caller.Config.Quiet = !caller.Config.Quiet
	if caller.Config.Quiet {
		r.systemTo(caller, "Quiet mode on: announcements suppressed.")
	} else {
		r.systemTo(caller, "Quiet mode off.")
	}
}

func (r *Room) cmdMute(caller *chatuser.Member, name string) {
	if name == caller.Username {
		r.errorTo(caller, "cannot mute yourself")
		return
	}
	target, ok := r.MemberByName(name)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", name))
		return
	}
	target.IsMuted = !target.IsMuted
	if target.IsMuted {
		r.systemTo(caller, "Muted "+target.Username)
	} else {
		r.systemTo(caller, "Unmuted "+target.Username)
	}
}

func (r *Room) cmdKick(caller *chatuser.Member, name string) {
	target, ok := r.MemberByName(name)
	if !ok {
		r.errorTo(caller, fmt.Sprintf("user %q not found", name))
		return
	}
	r.SendMessage(message.New(message.Announce, caller.Snapshot(), fmt.Sprintf("%s was kicked.", target.Username)))
	target.Close()
}

func (r *Room) cmdBan(caller *chatuser.Member, args []string) {
	query, err := command.ParseBanQuery(args)
	if err != nil {
		r.errorTo(caller, err.Error())
		return
	}

	if query.Single != nil {
		target, ok := r.MemberByName(query.Single.Value)
		if !ok {
			r.errorTo(caller, fmt.Sprintf("user %q not found", query.Single.Value))
			return
		}
		r.auth.BanFingerprint(target.Fingerprint(), query.Single.Duration)
		r.SendMessage(message.New(message.Announce, caller.Snapshot(), fmt.Sprintf("banned %s from the server", target.Username)))
		target.Close()
	} else {
		for _, term := range query.Terms {
			r.applyBanTerm(caller, term)
		}
	}
	r.systemTo(caller, "Banning is complete. Offline users were silently banned.")
}

func (r *Room) applyBanTerm(caller *chatuser.Member, term command.BanTerm) {
	var matches func(*chatuser.Member) bool
	switch term.Attr {
	case command.BanAttrName:
		r.auth.BanUsername(term.Value, term.Duration)
		matches = func(m *chatuser.Member) bool { return m.Username == term.Value }
	case command.BanAttrFingerprint:
		r.auth.BanFingerprint(term.Value, term.Duration)
		matches = func(m *chatuser.Member) bool { return m.Fingerprint() == term.Value }
	case command.BanAttrIP:
		matches = func(m *chatuser.Member) bool { return m.SSHClientID == term.Value }
	}
	r.SendMessage(message.New(message.Announce, caller.Snapshot(), fmt.Sprintf("banned %s=%s from the server", term.Attr, term.Value)))
	for _, name := range r.Names() {
		target, ok := r.MemberByName(name)
		if ok && matches(target) {
			target.Close()
		}
	}
}

func (r *Room) cmdBanned(caller *chatuser.Member) {
	entries := r.auth.Banned()
	if len(entries) == 0 {
		r.systemTo(caller, "No active bans.")
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s=%s (%s remaining)", e.Kind, e.Key, humanDuration(e.Remaining))
	}
	r.systemTo(caller, strings.Join(lines, "; "))
}

func (r *Room) cmdMotd(caller *chatuser.Member, text string) {
	if text == "" {
		r.systemTo(caller, r.MOTD())
		return
	}
	if !r.isOp(caller) {
		r.errorTo(caller, "must be an operator")
		return
	}
	r.SetMOTD(text)
	r.SendMessage(message.New(message.Announce, caller.Snapshot(), "MOTD updated."))
}

func (r *Room) cmdMe(caller *chatuser.Member, action string) {
	r.SendMessage(message.New(message.Emote, caller.Snapshot(), action))
}

func (r *Room) cmdSlap(caller *chatuser.Member, args []string) {
	target := "the air"
	if len(args) > 0 {
		target = args[0]
	}
	r.SendMessage(message.New(message.Emote, caller.Snapshot(), fmt.Sprintf("slaps %s around a bit with a large trout", target)))
}

func (r *Room) cmdHelp(caller *chatuser.Member) {
	names := command.Visible(r.isOp(caller))
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "/" + n
	}
	r.systemTo(caller, "Commands: "+strings.Join(lines, ", "))
}

func (r *Room) namesByID(ids map[int]bool) []string {
	names := make([]string, 0, len(ids))
	for id := range ids {
		if m, ok := r.MemberByID(id); ok {
			names = append(names, m.Username)
		}
	}
	return names
}
