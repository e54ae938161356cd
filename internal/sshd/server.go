// Package sshd implements the SSH transport from spec.md §4.9 "Server"
// and §6 "Wire protocol": it terminates SSH connections directly against
// golang.org/x/crypto/ssh (rather than wrapping a higher-level framework
// the way vision3's internal/sshserver wraps gliderlabs/ssh), since
// this server's single PTY-channel chat model has none of the BBS
// door-program/legacy-algorithm needs that motivated vision3's
// wrapper. The accept loop, request parsing, and session plumbing are
// grounded on vision3's cmd/vision3/main.go SSH handlers and the
// other_examples ssh-chat reference servers.
package sshd

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
	xrate "golang.org/x/time/rate"

	"github.com/sshchat/chatd/internal/auth"
	"github.com/sshchat/chatd/internal/chatuser"
	"github.com/sshchat/chatd/internal/logging"
	"github.com/sshchat/chatd/internal/render"
	"github.com/sshchat/chatd/internal/room"
	"github.com/sshchat/chatd/internal/workflow"
)

// pubKeyBlobExtension carries the offered public key's wire encoding
// through ssh.Permissions so the channel handler can reconstruct an
// ssh.PublicKey for the joined chatuser.User (golang.org/x/crypto/ssh
// does not otherwise expose the authenticated key past the callback).
const pubKeyBlobExtension = "pubkey-blob"

// Server owns the listener, shared Auth/Room, and host key, and accepts
// SSH connections per spec.md §4.9.
type Server struct {
	room   *room.Room
	auth   *auth.Auth
	log    *logging.Logger
	cfg    *ssh.ServerConfig
	gate   *connGate
	nextID int64
}

// NewServer constructs a Server. hostKey should come from
// LoadOrGenerateHostKey.
func NewServer(r *room.Room, a *auth.Auth, hostKey ssh.Signer, log *logging.Logger) *Server {
	cfg := newServerConfig(a, hostKey)
	cfg.PublicKeyCallback = wrapPublicKeyCallback(cfg.PublicKeyCallback)
	return &Server{
		room: r,
		auth: a,
		log:  log,
		cfg:  cfg,
		gate: newConnGate(xrate.Limit(5), 10),
	}
}

// wrapPublicKeyCallback wraps the auth-decision callback so it also
// stashes the offered key's wire bytes into Permissions.Extensions for
// later reconstruction, without duplicating the ban/whitelist logic in
// auth.go.
func wrapPublicKeyCallback(inner func(ssh.ConnMetadata, ssh.PublicKey) (*ssh.Permissions, error)) func(ssh.ConnMetadata, ssh.PublicKey) (*ssh.Permissions, error) {
	return func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
		perms, err := inner(conn, key)
		if err != nil {
			return nil, err
		}
		if perms.Extensions == nil {
			perms.Extensions = make(map[string]string)
		}
		perms.Extensions[pubKeyBlobExtension] = string(key.Marshal())
		return perms, nil
	}
}

// ListenAndServe binds addr and serves until the listener errors.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections from ln, gating each by per-IP connection
// rate before the handshake per spec.md's connection-attempt limiting.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		if !s.gate.Allow(conn.RemoteAddr()) {
			s.log.Debugf("connection rate limit exceeded for %s", conn.RemoteAddr())
			conn.Close()
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(nConn net.Conn) {
	sconn, chans, reqs, err := ssh.NewServerConn(nConn, s.cfg)
	if err != nil {
		s.log.Debugf("handshake failed from %s: %v", nConn.RemoteAddr(), err)
		nConn.Close()
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, requests, err := newChan.Accept()
		if err != nil {
			s.log.Debugf("could not accept channel: %v", err)
			continue
		}
		go s.handleChannel(sconn, ch, requests)
	}
}

func (s *Server) handleChannel(conn *ssh.ServerConn, ch ssh.Channel, requests <-chan *ssh.Request) {
	defer ch.Close()

	id := atomic.AddInt64(&s.nextID, 1)
	clientID := uuid.New().String()
	key := extractPublicKey(conn)

	rd := render.New(ch, 80, 24, "> ")

	var member *chatuser.Member
	var sess *workflow.Session
	sessReady := make(chan struct{})
	closeWatch := make(chan struct{})

	go s.dataLoop(ch, sessReady, &sess)

	for req := range requests {
		switch req.Type {
		case "pty-req":
			p, ok := parsePtyRequest(req.Payload)
			if ok && member == nil {
				member = s.room.Join(int(id), conn.User(), key, clientID)
				sess = workflow.New(s.room, member, rd)
				rd.Resize(p.Width, p.Height, sess.Input)
				close(sessReady)
				go s.watchClose(member, ch, closeWatch)
				go s.renderLoop(member, rd, sess, closeWatch)
			} else if ok && sess != nil {
				sess.HandleWindowResize(p.Width, p.Height)
			}
			if req.WantReply {
				req.Reply(ok, nil)
			}
		case "shell":
			if req.WantReply {
				req.Reply(true, nil)
			}
		case "window-change":
			w, h, ok := parseWinchRequest(req.Payload)
			if ok && sess != nil {
				sess.HandleWindowResize(w, h)
			}
			if req.WantReply {
				req.Reply(ok, nil)
			}
		case "env":
			k, v, ok := parseEnvRequest(req.Payload)
			if ok && sess != nil {
				sess.HandleEnv(k, v)
			}
			if req.WantReply {
				req.Reply(ok, nil)
			}
		default:
			if req.WantReply {
				req.Reply(false, nil)
			}
		}
	}

	close(closeWatch)
	if member != nil {
		s.room.Leave(member.ID)
	}
}

func extractPublicKey(conn *ssh.ServerConn) ssh.PublicKey {
	if conn.Permissions == nil {
		return nil
	}
	raw, ok := conn.Permissions.Extensions[pubKeyBlobExtension]
	if !ok || raw == "" {
		return nil
	}
	key, err := ssh.ParsePublicKey([]byte(raw))
	if err != nil {
		return nil
	}
	return key
}

// dataLoop reads raw terminal bytes and forwards them to the session's
// workflow chain once the member has joined (pre-join bytes, which can
// only be keystrokes typed before the PTY handshake completes, are
// dropped). It returns on the first read error and closes nothing; the
// requests loop ends on its own when the channel's request stream closes.
func (s *Server) dataLoop(ch ssh.Channel, sessReady <-chan struct{}, sess **workflow.Session) {
	buf := make([]byte, 1024)
	for {
		n, err := ch.Read(buf)
		if err != nil {
			return
		}
		select {
		case <-sessReady:
			(*sess).HandleData(buf[:n])
		default:
		}
	}
}

// watchClose closes the channel when the member's Done signal fires
// (/exit, /kick, /ban), so the Disconnect event propagates per spec.md
// §5 "Cancellation".
func (s *Server) watchClose(m *chatuser.Member, ch ssh.Channel, stop <-chan struct{}) {
	select {
	case <-m.Done:
		ch.Close()
	case <-stop:
	}
}

// renderLoop drains the member's outbound channel into the terminal
// every 10ms per spec.md §4.8/§5.
func (s *Server) renderLoop(m *chatuser.Member, rd *render.Renderer, sess *workflow.Session, stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.drainOutbox(m, rd, sess)
		case <-m.Done:
			return
		case <-stop:
			return
		}
	}
}

func (s *Server) drainOutbox(m *chatuser.Member, rd *render.Renderer, sess *workflow.Session) {
	for {
		select {
		case line := <-m.Outbox:
			rd.PrintMessage(line, sess.Input)
		default:
			return
		}
	}
}
