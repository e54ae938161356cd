package command

import "strings"

// SubVerb is one verb of the /whitelist or /oplist sub-grammars.
type SubVerb string

const (
	SubOn       SubVerb = "on"
	SubOff      SubVerb = "off"
	SubAdd      SubVerb = "add"
	SubRemove   SubVerb = "remove"
	SubLoad     SubVerb = "load"
	SubSave     SubVerb = "save"
	SubReverify SubVerb = "reverify"
	SubStatus   SubVerb = "status"
	SubHelp     SubVerb = "help"
	SubUnknown  SubVerb = ""
)

// LoadMode is the argument to the "load" verb.
type LoadMode string

const (
	LoadMerge   LoadMode = "merge"
	LoadReplace LoadMode = "replace"
)

// SubCommand is a parsed /whitelist or /oplist invocation.
type SubCommand struct {
	Verb     SubVerb
	Names    []string // for add/remove: keys or member names
	LoadMode LoadMode // for load
}

// whitelistVerbs and oplistVerbs enumerate the verbs each sub-grammar
// recognizes (spec.md §4.4: /oplist has no on/off/reverify).
var whitelistVerbs = map[string]SubVerb{
	"on": SubOn, "off": SubOff, "add": SubAdd, "remove": SubRemove,
	"load": SubLoad, "save": SubSave, "reverify": SubReverify,
	"status": SubStatus, "help": SubHelp,
}

var oplistVerbs = map[string]SubVerb{
	"add": SubAdd, "remove": SubRemove, "load": SubLoad,
	"save": SubSave, "status": SubStatus, "help": SubHelp,
}

// ParseWhitelistSub parses the arguments following "/whitelist".
func ParseWhitelistSub(args []string) (SubCommand, bool) {
	return parseSub(args, whitelistVerbs)
}

// ParseOplistSub parses the arguments following "/oplist".
func ParseOplistSub(args []string) (SubCommand, bool) {
	return parseSub(args, oplistVerbs)
}

func parseSub(args []string, verbs map[string]SubVerb) (SubCommand, bool) {
	if len(args) == 0 {
		return SubCommand{}, false
	}
	verb, ok := verbs[strings.ToLower(args[0])]
	if !ok {
		return SubCommand{}, false
	}
	rest := args[1:]
	switch verb {
	case SubAdd, SubRemove:
		return SubCommand{Verb: verb, Names: rest}, true
	case SubLoad:
		mode := LoadMerge
		if len(rest) > 0 && strings.EqualFold(rest[0], "replace") {
			mode = LoadReplace
		}
		return SubCommand{Verb: verb, LoadMode: mode}, true
	default:
		return SubCommand{Verb: verb}, true
	}
}
