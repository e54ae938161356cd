package command

import "testing"

func TestCompleteCommandPrefix(t *testing.T) {
	c := Completer{IsOp: true}
	out, cursor, ok := c.Complete("/ba", 3)
	if !ok {
		t.Fatal("expected completion")
	}
	if out != "/ban " {
		t.Errorf("expected '/ban ' (shortest match first), got %q", out)
	}
	if cursor != len("/ban ") {
		t.Errorf("expected cursor at end, got %d", cursor)
	}
}

func TestCompleteCommandPrefixNonOpSkipsOpOnly(t *testing.T) {
	c := Completer{IsOp: false}
	_, _, ok := c.Complete("/ki", 3)
	if ok {
		t.Error("expected no completion for op-only command when caller is not op")
	}
}

// fixedNameLookup builds a FindNameByPrefix stand-in over a static
// prefix->winner table, mirroring how Room.FindNameByPrefix resolves a
// single most-recently-active match.
func fixedNameLookup(winners map[string]string) func(prefix, skip string) (string, bool) {
	return func(prefix, skip string) (string, bool) {
		name, ok := winners[prefix]
		if !ok || name == skip {
			return "", false
		}
		return name, true
	}
}

func TestCompleteUserArgument(t *testing.T) {
	// alicia sent more recently than alice, so find_name_by_prefix must
	// pick alicia deterministically (spec.md §9: "for names, the
	// most-recently-active member wins").
	c := Completer{
		CallerName:       "carol",
		FindNameByPrefix: fixedNameLookup(map[string]string{"ali": "alicia"}),
	}
	out, cursor, ok := c.Complete("/msg ali", 8)
	if !ok {
		t.Fatal("expected completion")
	}
	if out != "/msg alicia " {
		t.Errorf("expected deterministic completion to the most-recently-active match, got %q", out)
	}
	if cursor != len("/msg alicia ") {
		t.Errorf("expected cursor at end, got %d", cursor)
	}
}

func TestCompleteExcludesSelf(t *testing.T) {
	c := Completer{
		CallerName:       "carol",
		FindNameByPrefix: fixedNameLookup(map[string]string{"car": "carol"}),
	}
	_, _, ok := c.Complete("/msg car", 8)
	if ok {
		t.Error("expected no completion when only match is caller's own name")
	}
}

func TestCompleteTimestampMode(t *testing.T) {
	c := Completer{}
	out, _, ok := c.Complete("/timestamp d", 12)
	if !ok || out != "/timestamp datetime " {
		t.Errorf("expected '/timestamp datetime ', got %q ok=%v", out, ok)
	}
}
