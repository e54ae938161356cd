// Package command implements the `/cmd args...` grammar from spec.md §4.4:
// parsing top-level input into a typed command, the /whitelist and
// /oplist sub-grammars, the /ban query grammar, and tab-autocomplete.
package command

import (
	"strings"

	shellwords "github.com/kballard/go-shellquote"
)

// Status classifies the outcome of Parse.
type Status int

const (
	// NotRecognizedAsCommand means the input did not start with '/' and
	// should be treated as a chat message.
	NotRecognizedAsCommand Status = iota
	// UnknownCommand means the input named a command not in the table.
	UnknownCommand
	// ArgumentExpected means a required argument was missing.
	ArgumentExpected
	// Other carries a grammar-specific error message (e.g. a malformed
	// /ban query or an unparseable duration).
	Other
	// Ok means the input parsed into a valid Command.
	Ok
)

// Command is a parsed `/name arg...` invocation. Name is lower-cased and
// has its leading slash stripped; Args are the shell-tokenized remainder.
type Command struct {
	Name string
	Args []string
	Raw  string // the original input, for echoing back
}

// ParseResult is the outcome of Parse.
type ParseResult struct {
	Status  Status
	Command Command
	Missing string // set when Status == ArgumentExpected: the name of the missing argument
	Message string // set when Status == Other: a grammar-specific error
}

// spec describes one command's shape for parsing and the help table.
type spec struct {
	name     string
	minArgs  int
	argNames []string // names of required args, for ArgumentExpected.Missing
	opOnly   bool
	hidden   bool
}

// commandTable is the full command list from spec.md §4.4, in visible
// help-table order followed by hidden commands.
var commandTable = []spec{
	{name: "exit"},
	{name: "away", minArgs: 1, argNames: []string{"reason"}},
	{name: "back"},
	{name: "name", minArgs: 1, argNames: []string{"name"}},
	{name: "msg", minArgs: 2, argNames: []string{"user", "message"}},
	{name: "reply", minArgs: 1, argNames: []string{"message"}},
	{name: "ignore"},
	{name: "unignore", minArgs: 1, argNames: []string{"user"}},
	{name: "focus"},
	{name: "users"},
	{name: "whois", minArgs: 1, argNames: []string{"user"}},
	{name: "timestamp", minArgs: 1, argNames: []string{"time|datetime|off"}},
	{name: "theme", minArgs: 1, argNames: []string{"theme"}},
	{name: "themes"},
	{name: "quiet"},

	{name: "mute", minArgs: 1, argNames: []string{"user"}, opOnly: true},
	{name: "kick", minArgs: 1, argNames: []string{"user"}, opOnly: true},
	{name: "ban", minArgs: 1, argNames: []string{"query"}, opOnly: true},
	{name: "banned", opOnly: true},
	{name: "motd", opOnly: true}, // text optional; echo-only path checked by the executor, not the parser
	{name: "whitelist", minArgs: 1, argNames: []string{"subcommand"}, opOnly: true},
	{name: "oplist", minArgs: 1, argNames: []string{"subcommand"}, opOnly: true},

	{name: "me", hidden: true},
	{name: "slap", hidden: true},
	{name: "shrug", hidden: true},
	{name: "help", hidden: true},
	{name: "version", hidden: true},
	{name: "uptime", hidden: true},
}

var byName = func() map[string]spec {
	m := make(map[string]spec, len(commandTable))
	for _, s := range commandTable {
		m[s.name] = s
	}
	return m
}()

// Visible returns the command names a /help listing should show, in
// table order, filtered by op status.
func Visible(isOp bool) []string {
	names := make([]string, 0, len(commandTable))
	for _, s := range commandTable {
		if s.hidden {
			continue
		}
		if s.opOnly && !isOp {
			continue
		}
		names = append(names, s.name)
	}
	return names
}

// IsOpOnly reports whether name is an operator-only command.
func IsOpOnly(name string) bool {
	s, ok := byName[strings.ToLower(name)]
	return ok && s.opOnly
}

// Parse parses a raw line of user input.
func Parse(input string) ParseResult {
	if !strings.HasPrefix(input, "/") {
		return ParseResult{Status: NotRecognizedAsCommand}
	}
	body := input[1:]
	if strings.TrimSpace(body) == "" {
		return ParseResult{Status: UnknownCommand}
	}

	tokens, err := shellwords.Split(body)
	if err != nil || len(tokens) == 0 {
		return ParseResult{Status: Other, Message: "could not parse command: " + errString(err)}
	}

	name := strings.ToLower(tokens[0])
	args := tokens[1:]

	s, ok := byName[name]
	if !ok {
		return ParseResult{Status: UnknownCommand}
	}
	if len(args) < s.minArgs {
		missing := "argument"
		if len(s.argNames) > 0 {
			missing = s.argNames[len(args)]
		}
		return ParseResult{Status: ArgumentExpected, Missing: missing}
	}

	return ParseResult{
		Status: Ok,
		Command: Command{
			Name: name,
			Args: args,
			Raw:  input,
		},
	}
}

func errString(err error) string {
	if err == nil {
		return "unterminated quote"
	}
	return err.Error()
}
