package command

import (
	"sort"
	"strings"
)

// timestampModes and loadModes are the fixed completion vocabularies for
// /timestamp and /whitelist|/oplist load.
var timestampModes = []string{"time", "datetime", "off"}
var loadModeWords = []string{"merge", "replace"}

// userArgCommands names commands whose first argument is a member name
// (spec.md §4.7.1 step 3, last bullet).
var userArgCommands = map[string]bool{
	"msg": true, "ignore": true, "unignore": true, "whois": true,
	"mute": true, "kick": true, "slap": true,
}

// Completer holds the context autocomplete needs beyond the input text
// itself: caller identity, op status, the room's current command-free
// vocabularies, and a lookup for member-name completion.
type Completer struct {
	IsOp       bool
	CallerName string

	// FindNameByPrefix resolves a member-name completion the way spec.md
	// §4.6 "find_name_by_prefix" does: among members whose username starts
	// with prefix, the most-recently-active wins, skip is excluded. Callers
	// wire this to Room.FindNameByPrefix.
	FindNameByPrefix func(prefix, skip string) (string, bool)

	ThemeNames []string
}

// word is a byte-offset span of non-whitespace input.
type word struct {
	start, end int
	text       string
}

func tokenize(input string) []word {
	var words []word
	i := 0
	n := len(input)
	for i < n {
		for i < n && input[i] == ' ' {
			i++
		}
		start := i
		for i < n && input[i] != ' ' {
			i++
		}
		if i > start {
			words = append(words, word{start: start, end: i, text: input[start:i]})
		}
	}
	return words
}

// Complete implements spec.md §4.7.1. It returns the rewritten input, the
// new cursor byte position, and whether a completion was applied.
func (c Completer) Complete(input string, cursorByte int) (string, int, bool) {
	words := tokenize(input)
	if len(words) == 0 {
		return input, cursorByte, false
	}

	idx := -1
	for i, w := range words {
		if cursorByte >= w.start && cursorByte <= w.end {
			idx = i
			break
		}
	}
	if idx == -1 {
		return input, cursorByte, false
	}
	target := words[idx]

	if idx == 0 && strings.HasPrefix(target.text, "/") {
		candidates := prefixMatch(Visible(c.IsOp), strings.TrimPrefix(target.text, "/"))
		candidates = withSlash(candidates)
		return c.completeShortest(candidates, input, target, cursorByte)
	}

	cmdName := ""
	if strings.HasPrefix(words[0].text, "/") {
		cmdName = strings.ToLower(strings.TrimPrefix(words[0].text, "/"))
	}
	switch cmdName {
	case "whitelist", "oplist":
		verbs := whitelistVerbs
		if cmdName == "oplist" {
			verbs = oplistVerbs
		}
		if idx == 1 {
			names := make([]string, 0, len(verbs))
			for v := range verbs {
				names = append(names, v)
			}
			candidates := prefixMatch(names, target.text)
			return c.completeShortest(candidates, input, target, cursorByte)
		} else if idx >= 2 {
			sub := strings.ToLower(words[1].text)
			switch sub {
			case "add", "remove":
				return c.completeName(target, input, cursorByte)
			case "load":
				candidates := prefixMatch(loadModeWords, target.text)
				return c.completeShortest(candidates, input, target, cursorByte)
			}
		}
	case "theme":
		if idx == 1 {
			candidates := prefixMatch(c.ThemeNames, target.text)
			return c.completeShortest(candidates, input, target, cursorByte)
		}
	case "timestamp":
		if idx == 1 {
			candidates := prefixMatch(timestampModes, target.text)
			return c.completeShortest(candidates, input, target, cursorByte)
		}
	default:
		if idx == 1 && userArgCommands[cmdName] {
			return c.completeName(target, input, cursorByte)
		}
	}

	return input, cursorByte, false
}

// completeShortest picks the shortest matching candidate (spec.md §9
// Design Notes: "Prefix matches sort by ascending command length").
func (c Completer) completeShortest(candidates []string, input string, target word, cursorByte int) (string, int, bool) {
	if len(candidates) == 0 {
		return input, cursorByte, false
	}
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) < len(candidates[j]) })
	return rewrite(input, target, candidates[0])
}

// completeName picks the most-recently-active member whose name starts
// with target.text, excluding the caller's own name (spec.md §9 Design
// Notes: "for names, the most-recently-active member wins").
func (c Completer) completeName(target word, input string, cursorByte int) (string, int, bool) {
	if c.FindNameByPrefix == nil {
		return input, cursorByte, false
	}
	name, ok := c.FindNameByPrefix(target.text, c.CallerName)
	if !ok {
		return input, cursorByte, false
	}
	return rewrite(input, target, name)
}

func rewrite(input string, target word, completion string) (string, int, bool) {
	rewritten := input[:target.start] + completion + " " + input[target.end:]
	newCursor := target.start + len(completion) + 1
	return rewritten, newCursor, true
}

func prefixMatch(options []string, prefix string) []string {
	var out []string
	lower := strings.ToLower(prefix)
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o), lower) {
			out = append(out, o)
		}
	}
	return out
}

func withSlash(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "/" + n
	}
	return out
}
