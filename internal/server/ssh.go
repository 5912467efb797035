package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"CyberHack/internal/game"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

const maxSSHConns = 64

// SSHServer exposes the terminal over ssh. The login name selects the
// profile; passwords are accepted as-is.
type SSHServer struct {
	hub *Hub
	log logrus.FieldLogger
	cfg *ssh.ServerConfig

	mu sync.Mutex
	ln net.Listener
}

// NewSSHServer loads or creates the host key at keyPath.
func NewSSHServer(h *Hub, keyPath string, log logrus.FieldLogger) (*SSHServer, error) {
	signer, err := loadOrGenHostKey(keyPath, log)
	if err != nil {
		return nil, fmt.Errorf("host key: %w", err)
	}
	cfg := &ssh.ServerConfig{
		ServerVersion: "SSH-2.0-CyberHack",
		PasswordCallback: func(conn ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if strings.TrimSpace(conn.User()) == "" {
				return nil, errors.New("empty user")
			}
			return &ssh.Permissions{}, nil
		},
	}
	cfg.AddHostKey(signer)
	return &SSHServer{hub: h, log: log, cfg: cfg}, nil
}

func loadOrGenHostKey(path string, log logrus.FieldLogger) (ssh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		block, _ := pem.Decode(data)
		if block != nil {
			if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
				return ssh.NewSignerFromKey(key)
			}
		}
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	log.WithField("path", path).Info("generated new host key")
	return ssh.NewSignerFromKey(key)
}

// ListenAndServe accepts connections on addr until ctx is done or Close is
// called. Connections over the limit are dropped.
func (s *SSHServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.WithField("addr", addr).Info("starting ssh server")

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	sem := make(chan struct{}, maxSSHConns)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		select {
		case sem <- struct{}{}:
			go func() {
				defer func() { <-sem }()
				s.handleConn(ctx, conn)
			}()
		default:
			s.log.WithField("remote", conn.RemoteAddr().String()).Warn("connection limit reached")
			conn.Close()
		}
	}
}

// Close stops the listener.
func (s *SSHServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		_ = s.ln.Close()
		s.ln = nil
	}
}

func (s *SSHServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, s.cfg)
	if err != nil {
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	entry := s.log.WithFields(logrus.Fields{"remote": sshConn.RemoteAddr().String(), "profile": sshConn.User()})
	entry.Info("ssh connect")
	defer entry.Info("ssh disconnect")

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, chReqs, err := newChan.Accept()
		if err != nil {
			break
		}
		s.handleSession(ctx, ch, chReqs, sshConn.User(), entry)
	}
}

func (s *SSHServer) handleSession(ctx context.Context, ch ssh.Channel, reqs <-chan *ssh.Request, user string, entry logrus.FieldLogger) {
	defer ch.Close()

	for req := range reqs {
		switch req.Type {
		case "pty-req", "env":
			req.Reply(true, nil)
		case "shell":
			req.Reply(true, nil)
			term, err := s.hub.NewTerminal(ctx, user, "")
			if err != nil {
				entry.WithError(err).Error("terminal open failed")
				return
			}
			newShell(ch, term).run(ctx)
			term.Close()
			return
		case "exec":
			var line string
			if len(req.Payload) >= 4 {
				n := binary.BigEndian.Uint32(req.Payload[:4])
				if int(n) <= len(req.Payload)-4 {
					line = string(req.Payload[4 : 4+n])
				}
			}
			req.Reply(true, nil)
			term, err := s.hub.NewTerminal(ctx, user, "")
			if err != nil {
				entry.WithError(err).Error("terminal open failed")
				ch.SendRequest("exit-status", false, []byte{0, 0, 0, 1})
				return
			}
			out := term.Handle(ctx, line)
			term.Close()
			if len(out) > 0 {
				ch.Write([]byte(strings.Join(out, "\r\n") + "\r\n"))
			}
			ch.SendRequest("exit-status", false, []byte{0, 0, 0, 0})
			return
		default:
			if req.WantReply {
				req.Reply(false, nil)
			}
		}
	}
}

// shell is a line-editing loop over an ssh channel.
type shell struct {
	ch   ssh.Channel
	term *Terminal

	mu  sync.Mutex
	buf []byte
}

func newShell(ch ssh.Channel, term *Terminal) *shell {
	return &shell{ch: ch, term: term}
}

func (s *shell) write(data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ch.Write([]byte(data)) //nolint:errcheck
}

func (s *shell) writeLines(lines []string) {
	for _, l := range lines {
		s.write(l + "\r\n")
	}
}

func (s *shell) readRaw() (byte, bool) {
	var b [1]byte
	n, err := s.ch.Read(b[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return b[0], true
}

// events prints asynchronous session output above the current input line.
func (s *shell) events(ctx context.Context, done <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case lines := <-s.term.Events():
			s.mu.Lock()
			var out strings.Builder
			out.WriteString("\r\x1b[K")
			for _, l := range lines {
				out.WriteString(l + "\r\n")
			}
			out.WriteString(s.term.Prompt())
			out.Write(s.buf)
			s.ch.Write([]byte(out.String())) //nolint:errcheck
			s.mu.Unlock()
		}
	}
}

func (s *shell) run(ctx context.Context) {
	s.writeLines(s.term.Welcome())
	s.write(s.term.Prompt())

	done := make(chan struct{})
	defer close(done)
	go s.events(ctx, done)

	esc := 0
	for {
		b, ok := s.readRaw()
		if !ok {
			return
		}
		// skip CSI sequences such as arrow keys
		if esc > 0 {
			esc--
			if esc == 1 && b != '[' {
				esc = 0
			}
			continue
		}
		switch {
		case b == 0x1b:
			esc = 2
		case b == '\r' || b == '\n':
			s.mu.Lock()
			line := string(s.buf)
			s.buf = s.buf[:0]
			s.mu.Unlock()
			s.write("\r\n")
			out := s.term.Handle(ctx, line)
			s.writeLines(out)
			if s.term.Quits(line) {
				return
			}
			s.write(s.term.Prompt())
		case b == 0x7f || b == 0x08:
			s.mu.Lock()
			if len(s.buf) > 0 {
				s.buf = dropLastRune(s.buf)
				s.ch.Write([]byte("\b \b")) //nolint:errcheck
			}
			s.mu.Unlock()
		case b == 0x03:
			s.mu.Lock()
			s.buf = s.buf[:0]
			s.mu.Unlock()
			s.write("^C\r\n" + s.term.Prompt())
		case b == 0x04:
			s.mu.Lock()
			empty := len(s.buf) == 0
			s.mu.Unlock()
			if empty {
				if s.term.InMission() {
					s.writeLines(s.term.Handle(ctx, game.CmdExit.String()))
				}
				s.write("logout\r\n")
				return
			}
		case b >= 0x20:
			s.mu.Lock()
			s.buf = append(s.buf, b)
			s.ch.Write([]byte{b}) //nolint:errcheck
			s.mu.Unlock()
		}
	}
}

// dropLastRune removes the final UTF-8 character of buf.
func dropLastRune(buf []byte) []byte {
	_, size := utf8.DecodeLastRune(buf)
	return buf[:len(buf)-size]
}
