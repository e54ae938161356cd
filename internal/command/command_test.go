package command

import "testing"

func TestParseNotRecognizedAsCommand(t *testing.T) {
	r := Parse("hello world")
	if r.Status != NotRecognizedAsCommand {
		t.Errorf("expected NotRecognizedAsCommand, got %v", r.Status)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	r := Parse("/frobnicate")
	if r.Status != UnknownCommand {
		t.Errorf("expected UnknownCommand, got %v", r.Status)
	}
}

func TestParseArgumentExpected(t *testing.T) {
	r := Parse("/msg bob")
	if r.Status != ArgumentExpected {
		t.Fatalf("expected ArgumentExpected, got %v", r.Status)
	}
	if r.Missing != "message" {
		t.Errorf("expected missing arg 'message', got %q", r.Missing)
	}
}

func TestParseOk(t *testing.T) {
	r := Parse("/msg bob hello there")
	if r.Status != Ok {
		t.Fatalf("expected Ok, got %v", r.Status)
	}
	if r.Command.Name != "msg" {
		t.Errorf("expected name 'msg', got %q", r.Command.Name)
	}
	if len(r.Command.Args) != 3 || r.Command.Args[0] != "bob" {
		t.Errorf("unexpected args: %#v", r.Command.Args)
	}
}

func TestParseQuotedArgument(t *testing.T) {
	r := Parse(`/ban "name=alice" 1h`)
	if r.Status != Ok {
		t.Fatalf("expected Ok, got %v", r.Status)
	}
}

func TestIsOpOnly(t *testing.T) {
	if !IsOpOnly("kick") {
		t.Error("expected kick to be op-only")
	}
	if IsOpOnly("users") {
		t.Error("expected users to not be op-only")
	}
}

func TestVisibleExcludesHiddenAndRespectsOp(t *testing.T) {
	names := Visible(false)
	for _, n := range names {
		if n == "me" || n == "help" {
			t.Errorf("hidden command %q should not be in visible list", n)
		}
		if n == "kick" {
			t.Error("op-only command should not be visible to non-op")
		}
	}
	opNames := Visible(true)
	found := false
	for _, n := range opNames {
		if n == "kick" {
			found = true
		}
	}
	if !found {
		t.Error("expected kick to be visible to an operator")
	}
}
