// Package workflow implements the per-session pipeline from spec.md §4.7:
// key-stroke editing, environment-variable translation, autocomplete,
// input validation, rate limiting, command parsing, and execution. It is
// the glue between a session's raw terminal events and the room.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/sshchat/chatd/internal/chatuser"
	"github.com/sshchat/chatd/internal/command"
	"github.com/sshchat/chatd/internal/history"
	"github.com/sshchat/chatd/internal/inputbuf"
	"github.com/sshchat/chatd/internal/keycode"
	"github.com/sshchat/chatd/internal/message"
	"github.com/sshchat/chatd/internal/render"
	"github.com/sshchat/chatd/internal/room"
	"github.com/sshchat/chatd/internal/theme"
)

// maxInputBytes is the input-length ceiling from spec.md §4.7 step 4.
const maxInputBytes = 1024

// envNames are the transport environment assignments the session
// translates into synthetic commands (spec.md §4.7 step 2, §6).
const (
	EnvTheme     = "CHATD_THEME"
	EnvTimestamp = "CHATD_TIMESTAMP"
)

// Session drives one connected member's workflow chain: it owns the
// input buffer, command history, and renderer, and hands parsed commands
// to the shared room.
type Session struct {
	Room     *room.Room
	Member   *chatuser.Member
	Renderer *render.Renderer

	Input   *inputbuf.Buffer
	History *history.History

	keys *keycode.Decoder
}

// New constructs a Session for an already-joined member.
func New(r *room.Room, m *chatuser.Member, rd *render.Renderer) *Session {
	return &Session{
		Room:     r,
		Member:   m,
		Renderer: rd,
		Input:    inputbuf.New(),
		History:  history.New(),
		keys:     keycode.New(),
	}
}

// HandleData implements step 1 (terminal key mapper) plus steps 3-7 for
// Enter. It is the entry point for a Data transport event.
func (s *Session) HandleData(raw []byte) {
	for _, k := range s.keys.Feed(raw) {
		s.handleKey(k)
	}
}

func (s *Session) handleKey(k keycode.Key) {
	switch k.Kind {
	case keycode.Printable:
		s.Input.InsertBeforeCursor([]byte(string(k.Rune)))
	case keycode.Space:
		s.Input.InsertBeforeCursor([]byte(" "))
	case keycode.Tab:
		s.autocomplete()
	case keycode.Backspace:
		s.Input.RemoveBeforeCursor()
	case keycode.Enter:
		s.submit()
		return
	case keycode.ArrowLeft, keycode.CtrlB:
		s.Input.MoveCursorPrev()
	case keycode.ArrowRight, keycode.CtrlF:
		s.Input.MoveCursorNext()
	case keycode.CtrlArrowLeft:
		s.Input.MoveCursorPrev()
	case keycode.CtrlArrowRight:
		s.Input.MoveCursorNext()
	case keycode.Home, keycode.CtrlA:
		s.Input.MoveCursorStart()
	case keycode.End, keycode.CtrlE:
		s.Input.MoveCursorEnd()
	case keycode.ArrowUp:
		s.navigateHistory(s.History.Prev)
	case keycode.ArrowDown:
		s.navigateHistoryNext()
	case keycode.CtrlD:
		s.Input.RemoveAfterCursor()
	case keycode.CtrlK:
		s.Input.RemoveAfterCursor()
	case keycode.CtrlU:
		s.Input.Clear()
	case keycode.CtrlW:
		s.Input.RemoveLastWordBeforeCursor()
	case keycode.CtrlY:
		s.Input.Restore()
	case keycode.Unknown:
		return
	}
	s.Renderer.Render(s.Input)
}

func (s *Session) navigateHistory(step func(string) (string, bool)) {
	line, _ := step(s.Input.Text())
	s.Input.Set(line)
}

func (s *Session) navigateHistoryNext() {
	line, _ := s.History.Next()
	s.Input.Set(line)
}

// autocomplete implements step 3, delegating to command.Completer and
// rewriting the buffer on a match.
func (s *Session) autocomplete() {
	c := command.Completer{
		IsOp:             s.Room.Auth().IsOp(s.Member.Fingerprint()),
		CallerName:       s.Member.Username,
		FindNameByPrefix: s.Room.FindNameByPrefix,
		ThemeNames:       theme.Names(),
	}
	rewritten, cursor, ok := c.Complete(s.Input.Text(), s.Input.CursorBytePos())
	if !ok {
		return
	}
	s.Input.Set(rewritten)
	s.Input.MoveCursorToByte(cursor)
}

// HandleEnv implements step 2: translate a recognized environment
// assignment into a synthetic command string and run it through the
// rate-limit check and the parse/execute tail of the pipeline (steps
// 5-7), bypassing the input buffer and the step-4 input validation.
func (s *Session) HandleEnv(name, value string) {
	var synthetic string
	switch name {
	case EnvTheme:
		synthetic = "/theme " + value
	case EnvTimestamp:
		synthetic = "/timestamp " + value
	default:
		return
	}
	if ok, remaining := s.Room.RateLimiter().Check(s.Member.ID); !ok {
		s.errorTo(fmt.Sprintf("rate limit exceeded, try again in %s", remaining))
		return
	}
	s.parseAndRun(synthetic)
}

// submit implements steps 4-7 for an Enter keypress.
func (s *Session) submit() {
	text := s.Input.Text()

	if s.Input.IsBlank() {
		s.Input.Clear()
		s.Renderer.Render(s.Input)
		return
	}
	if len(text) > maxInputBytes {
		s.errorTo(fmt.Sprintf("input too long (max %d bytes)", maxInputBytes))
		s.Input.Clear()
		s.Renderer.Render(s.Input)
		return
	}

	ok, remaining := s.Room.RateLimiter().Check(s.Member.ID)
	if !ok {
		s.errorTo(fmt.Sprintf("rate limit exceeded, try again in %s", remaining))
		s.Input.Clear()
		s.Renderer.Render(s.Input)
		return
	}

	s.History.Push(text)
	s.Input.Clear()
	s.Renderer.Render(s.Input)
	s.parseAndRun(text)
}

// parseAndRun implements step 6-7: parse the candidate command string and
// dispatch to the room, or treat it as a public chat message.
func (s *Session) parseAndRun(text string) {
	result := command.Parse(text)
	switch result.Status {
	case command.NotRecognizedAsCommand:
		s.Member.MarkSent(time.Now())
		s.Room.SendMessage(message.New(message.Public, s.Member.Snapshot(), text))
	case command.ArgumentExpected:
		s.echoCommand(text)
		s.errorTo(fmt.Sprintf("missing argument: %s", result.Missing))
	case command.UnknownCommand:
		s.echoCommand(text)
		s.errorTo("unknown command")
	case command.Other:
		s.echoCommand(text)
		s.errorTo(result.Message)
	case command.Ok:
		s.echoCommand(text)
		s.Room.Execute(s.Member, result.Command)
	}
}

func (s *Session) echoCommand(text string) {
	body := strings.TrimPrefix(text, "/")
	s.Room.SendMessage(message.New(message.Command, s.Member.Snapshot(), body))
}

func (s *Session) errorTo(body string) {
	s.Room.SendMessage(message.New(message.Error, s.Member.Snapshot(), body))
}

// HandleWindowResize implements the WindowResize transport event.
func (s *Session) HandleWindowResize(width, height int) {
	s.Renderer.Resize(width, height, s.Input)
}
