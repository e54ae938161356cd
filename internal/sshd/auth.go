package sshd

import (
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/sshchat/chatd/internal/auth"
)

// newServerConfig builds the ssh.ServerConfig implementing spec.md §6's
// wire-protocol rules: publickey and none are the only accepted methods;
// whitelist mode gates both on trust and ban state.
func newServerConfig(a *auth.Auth, hostKey ssh.Signer) *ssh.ServerConfig {
	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			fp := ssh.FingerprintSHA256(key)
			if a.CheckBans(conn.User(), fp) {
				return nil, fmt.Errorf("banned")
			}
			if a.WhitelistEnabled() && !a.IsTrusted(fp) {
				return nil, fmt.Errorf("not in whitelist")
			}
			return &ssh.Permissions{}, nil
		},
		NoClientAuthCallback: func(conn ssh.ConnMetadata) (*ssh.Permissions, error) {
			if a.WhitelistEnabled() {
				return nil, fmt.Errorf("whitelist mode requires a public key")
			}
			if a.CheckBans(conn.User(), "") {
				return nil, fmt.Errorf("banned")
			}
			return &ssh.Permissions{}, nil
		},
	}
	cfg.AddHostKey(hostKey)
	return cfg
}
