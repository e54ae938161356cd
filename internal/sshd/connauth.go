package sshd

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

// connGate rate-limits SSH connection *attempts* per source IP, ahead of
// the auth handshake, grounded on vision3's SSHAuthenticator
// (internal/sshauth) per-IP failed-attempt tracking, generalized from a
// hand-rolled sliding window to a token-bucket via golang.org/x/time/rate
// per SPEC_FULL.md's domain-stack wiring.
type connGate struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// newConnGate returns a gate allowing r connection attempts/second per
// IP, with the given burst.
func newConnGate(r rate.Limit, burst int) *connGate {
	return &connGate{limiters: make(map[string]*rate.Limiter), r: r, burst: burst}
}

// Allow reports whether a new connection attempt from addr should
// proceed to the handshake.
func (g *connGate) Allow(addr net.Addr) bool {
	ip := extractIP(addr.String())
	g.mu.Lock()
	lim, ok := g.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(g.r, g.burst)
		g.limiters[ip] = lim
	}
	g.mu.Unlock()
	return lim.Allow()
}

func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
