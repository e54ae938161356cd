package command

import "testing"

func TestParseWhitelistSubOnOff(t *testing.T) {
	sc, ok := ParseWhitelistSub([]string{"on"})
	if !ok || sc.Verb != SubOn {
		t.Fatalf("expected SubOn, got %+v ok=%v", sc, ok)
	}
}

func TestParseWhitelistSubAddNames(t *testing.T) {
	sc, ok := ParseWhitelistSub([]string{"add", "alice", "bob"})
	if !ok || sc.Verb != SubAdd {
		t.Fatalf("expected SubAdd, got %+v ok=%v", sc, ok)
	}
	if len(sc.Names) != 2 {
		t.Errorf("expected 2 names, got %d", len(sc.Names))
	}
}

func TestParseWhitelistSubLoadDefaultsToMerge(t *testing.T) {
	sc, ok := ParseWhitelistSub([]string{"load"})
	if !ok || sc.LoadMode != LoadMerge {
		t.Fatalf("expected LoadMerge default, got %+v ok=%v", sc, ok)
	}
}

func TestParseOplistSubRejectsOnOff(t *testing.T) {
	if _, ok := ParseOplistSub([]string{"on"}); ok {
		t.Error("expected oplist to reject the 'on' verb")
	}
}

func TestParseWhitelistAddRecentNotImplemented(t *testing.T) {
	if _, ok := ParseWhitelistSub([]string{"add-recent", "1h"}); ok {
		t.Error("add-recent is explicitly unimplemented (spec.md §9 open question b)")
	}
}
