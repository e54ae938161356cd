package auth

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

// entry is one tracked key: its fingerprint (the lookup key), comment
// (usually the owner's name), and marshaled form so Save can round-trip
// an authorized_keys-style file.
type entry struct {
	comment   string
	marshaled string // ssh.MarshalAuthorizedKey output, including its trailing newline
}

// KeySet is an in-memory set of public-key fingerprints, each carrying an
// optional comment (typically the key owner's name). It backs both the
// operator set and the trusted-key (whitelist) set.
type KeySet struct {
	mu      sync.RWMutex
	path    string
	entries map[string]entry // fingerprint -> entry
}

// NewKeySet returns an empty KeySet that Load/Save use path for.
func NewKeySet(path string) *KeySet {
	return &KeySet{path: path, entries: make(map[string]entry)}
}

// Contains reports whether fingerprint fp is a member.
func (k *KeySet) Contains(fp string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.entries[fp]
	return ok
}

// AddKey inserts key under its fingerprint, recording comment and the
// marshaled line for later Save calls.
func (k *KeySet) AddKey(key ssh.PublicKey, comment string) string {
	fp := ssh.FingerprintSHA256(key)
	line := string(ssh.MarshalAuthorizedKey(key))
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[fp] = entry{comment: comment, marshaled: line}
	return fp
}

// AddFingerprint inserts a bare fingerprint with no backing key material
// (used by `/whitelist add` and `/oplist add` for a name that is not a
// connected member). Save skips entries added this way.
func (k *KeySet) AddFingerprint(fp, comment string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[fp] = entry{comment: comment}
}

// Remove deletes fp, reporting whether it was present.
func (k *KeySet) Remove(fp string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.entries[fp]; !ok {
		return false
	}
	delete(k.entries, fp)
	return true
}

// FindByComment returns the fingerprint whose comment matches name
// case-sensitively, and whether one was found. Used to resolve
// `/oplist add <name>` style queries against keys loaded with a comment.
func (k *KeySet) FindByComment(name string) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for fp, e := range k.entries {
		if e.comment == name {
			return fp, true
		}
	}
	return "", false
}

// Len reports the number of entries.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}

// Path returns the backing file path, or "" if this set has none
// (NoOplist/NoWhitelist condition).
func (k *KeySet) Path() string {
	return k.path
}

// Load reads k.path and merges or replaces the current entries.
func (k *KeySet) Load(merge bool) error {
	if k.path == "" {
		return ErrNoKeyFile
	}
	f, err := os.Open(k.path)
	if err != nil {
		return fmt.Errorf("open key file %s: %w", k.path, err)
	}
	defer f.Close()

	loaded := make(map[string]entry)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}
		key, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(trimmed))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", k.path, lineNo, err)
		}
		fp := ssh.FingerprintSHA256(key)
		loaded[fp] = entry{comment: comment, marshaled: string(ssh.MarshalAuthorizedKey(key))}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read key file %s: %w", k.path, err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if !merge {
		k.entries = loaded
		return nil
	}
	for fp, e := range loaded {
		k.entries[fp] = e
	}
	return nil
}

// Save writes all entries that carry marshaled key material back to
// k.path as an authorized_keys file. Entries added via AddFingerprint
// alone (no backing key) are skipped, since there is no key blob to
// write.
func (k *KeySet) Save() error {
	if k.path == "" {
		return ErrNoKeyFile
	}
	k.mu.RLock()
	fps := make([]string, 0, len(k.entries))
	for fp := range k.entries {
		fps = append(fps, fp)
	}
	sort.Strings(fps)
	lines := make([]string, 0, len(fps))
	for _, fp := range fps {
		if e := k.entries[fp]; e.marshaled != "" {
			lines = append(lines, e.marshaled)
		}
	}
	k.mu.RUnlock()

	f, err := os.Create(k.path)
	if err != nil {
		return fmt.Errorf("create key file %s: %w", k.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprint(w, line); err != nil {
			return fmt.Errorf("write key file %s: %w", k.path, err)
		}
	}
	return w.Flush()
}
