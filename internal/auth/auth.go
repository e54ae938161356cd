// Package auth implements the operator set, trusted-key (whitelist) set,
// and TTL-based username/fingerprint ban lists from spec.md §3 "Auth".
package auth

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// BanEntry is one row of a /banned listing.
type BanEntry struct {
	Kind      string // "username" or "fingerprint"
	Key       string
	Remaining time.Duration
}

// Auth is the shared, mutex-guarded authorization store. Per spec.md §5 it
// sits strictly below Room in lock order: any code holding the room lock
// may acquire Auth's, never the reverse.
type Auth struct {
	mu sync.Mutex

	operators *KeySet
	trusted   *KeySet

	whitelistEnabled bool

	bannedUsernames    *TTLSet
	bannedFingerprints *TTLSet

	sweep *cron.Cron
}

// New constructs an Auth store. oplistPath/whitelistPath may be empty,
// meaning that subsystem is unconfigured (HasOplist/HasWhitelist report
// false and /oplist and /whitelist load/save fail with
// ErrNoOplist/ErrNoWhitelist).
// Whitelist mode starts enabled iff whitelistPath is non-empty.
func New(oplistPath, whitelistPath string) (*Auth, error) {
	a := &Auth{
		operators:          NewKeySet(oplistPath),
		trusted:            NewKeySet(whitelistPath),
		whitelistEnabled:   whitelistPath != "",
		bannedUsernames:    NewTTLSet(),
		bannedFingerprints: NewTTLSet(),
	}
	if oplistPath != "" {
		if err := a.operators.Load(false); err != nil {
			return nil, fmt.Errorf("load oplist: %w", err)
		}
	}
	if whitelistPath != "" {
		if err := a.trusted.Load(false); err != nil {
			return nil, fmt.Errorf("load whitelist: %w", err)
		}
	}
	return a, nil
}

// HasOplist reports whether an operator key file was configured.
func (a *Auth) HasOplist() bool { return a.operators.Path() != "" }

// HasWhitelist reports whether a trusted key file was configured.
func (a *Auth) HasWhitelist() bool { return a.trusted.Path() != "" }

// IsOp reports whether fingerprint fp belongs to the operator set.
func (a *Auth) IsOp(fp string) bool {
	if fp == "" {
		return false
	}
	return a.operators.Contains(fp)
}

// IsTrusted reports whether fingerprint fp belongs to the trusted set.
func (a *Auth) IsTrusted(fp string) bool {
	if fp == "" {
		return false
	}
	return a.trusted.Contains(fp)
}

// WhitelistEnabled reports whether whitelist mode currently gates new
// connections. Existing sessions are unaffected by a later toggle; only
// `/whitelist reverify` retroactively closes untrusted sessions.
func (a *Auth) WhitelistEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.whitelistEnabled
}

// SetWhitelistEnabled flips whitelist mode.
func (a *Auth) SetWhitelistEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.whitelistEnabled = enabled
}

// Operators returns the operator KeySet, for /oplist command handlers.
func (a *Auth) Operators() *KeySet { return a.operators }

// Trusted returns the trusted-key KeySet, for /whitelist command handlers.
func (a *Auth) Trusted() *KeySet { return a.trusted }

// CheckBans reports whether username or fingerprint is currently banned,
// expiring stale entries as a side effect (spec.md: "check_bans may expire
// entries on read").
func (a *Auth) CheckBans(username, fingerprint string) bool {
	if a.bannedUsernames.Check(username) {
		return true
	}
	if fingerprint != "" && a.bannedFingerprints.Check(fingerprint) {
		return true
	}
	return false
}

// BanUsername bans username for ttl.
func (a *Auth) BanUsername(username string, ttl time.Duration) {
	a.bannedUsernames.Add(username, ttl)
}

// BanFingerprint bans fingerprint for ttl.
func (a *Auth) BanFingerprint(fingerprint string, ttl time.Duration) {
	a.bannedFingerprints.Add(fingerprint, ttl)
}

// Banned returns every currently active ban, sorted for stable /banned
// output.
func (a *Auth) Banned() []BanEntry {
	entries := make([]BanEntry, 0)
	for key, remaining := range a.bannedUsernames.Entries() {
		entries = append(entries, BanEntry{Kind: "username", Key: key, Remaining: remaining})
	}
	for key, remaining := range a.bannedFingerprints.Entries() {
		entries = append(entries, BanEntry{Kind: "fingerprint", Key: key, Remaining: remaining})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// StartBanSweep runs a periodic cron job that expires stale username and
// fingerprint bans, supplementing the on-read expiry in CheckBans so
// `/banned` reflects expiries even without recent traffic. Call Stop to
// halt it.
func (a *Auth) StartBanSweep() {
	a.sweep = cron.New()
	_, err := a.sweep.AddFunc("@every 1m", func() {
		a.bannedUsernames.Sweep()
		a.bannedFingerprints.Sweep()
	})
	if err != nil {
		log.Printf("ERROR: failed to schedule ban-expiry sweep: %v", err)
		return
	}
	a.sweep.Start()
}

// Stop halts the ban-expiry sweep, if running.
func (a *Auth) Stop() {
	if a.sweep != nil {
		a.sweep.Stop()
	}
}
