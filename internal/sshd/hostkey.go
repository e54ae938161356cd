package sshd

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// LoadOrGenerateHostKey loads an ed25519 private key from path, or
// generates an ephemeral one when path is empty, per spec.md §6 "Server
// host keys are ed25519; generated at startup if no identity file is
// supplied."
func LoadOrGenerateHostKey(path string) (ssh.Signer, error) {
	if path == "" {
		return generateHostKey()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host key %s: %w", path, err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse host key %s: %w", path, err)
	}
	return signer, nil
}

func generateHostKey() (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral host key: %w", err)
	}
	return ssh.NewSignerFromKey(priv)
}
