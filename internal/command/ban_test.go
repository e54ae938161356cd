package command

import (
	"testing"
	"time"
)

func TestParseBanQuerySingle(t *testing.T) {
	q, err := ParseBanQuery([]string{"alice", "1h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Single == nil {
		t.Fatal("expected Single to be set")
	}
	if q.Single.Value != "alice" || q.Single.Duration != time.Hour {
		t.Errorf("unexpected single term: %+v", q.Single)
	}
}

func TestParseBanQueryMultiAttr(t *testing.T) {
	q, err := ParseBanQuery([]string{"name=alice", "1h", "ip=1.2.3.4", "30m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(q.Terms))
	}
	if q.Terms[0].Attr != BanAttrName || q.Terms[0].Value != "alice" {
		t.Errorf("unexpected first term: %+v", q.Terms[0])
	}
	if q.Terms[1].Attr != BanAttrIP || q.Terms[1].Duration != 30*time.Minute {
		t.Errorf("unexpected second term: %+v", q.Terms[1])
	}
}

func TestParseBanQueryRejectsUnknownAttr(t *testing.T) {
	if _, err := ParseBanQuery([]string{"bogus=x", "1h"}); err == nil {
		t.Error("expected error for unknown attribute")
	}
}

func TestParseBanQueryRejectsBadDuration(t *testing.T) {
	if _, err := ParseBanQuery([]string{"alice", "not-a-duration"}); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
