// Package session implements the secure envelope: per-message
// authenticated encryption over a framed byte stream using per-message
// subkeys derived from a session shared secret and a monotonically
// increasing, per-direction IV counter.
//
// Grounded on portal/core/cryptoops/handshaker.go's SecureConnection
// (direction-tagged nonces over a length-prefixed stream) merged with
// relaydns/core/cryptoops/handshaker.go's X25519+HKDF+ChaCha20Poly1305
// subkey derivation.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cryptosuite"
	"github.com/veloagent/agentwire/frame"
)

// messageTypeSealed tags every post-handshake frame. agentwire defines a
// single post-handshake message shape, so this is a constant rather than
// a discriminated union; it is carried on the wire so a future protocol
// revision can add a second type without breaking this one's framing.
const messageTypeSealed byte = 0x01

var (
	// ErrSessionFailed is returned by Send/Recv once a session has
	// transitioned to the failed state (envelope MAC failure, key
	// derivation failure, or a fatal transport error).
	ErrSessionFailed = errors.New("session: session has failed and must not be reused")
	ErrShortMessage  = errors.New("session: message shorter than the type tag")
	ErrIVOverflow    = errors.New("session: IV counter would overflow")
)

// Role identifies which end of the connection a Session speaks for,
// since ClientIV/ServerIV always name the wire's two fixed directions but
// which one a given endpoint sends versus receives on depends on which
// side it is.
type Role bool

const (
	RoleClient Role = false
	RoleServer Role = true
)

// Session holds the shared secret and the two directional IV counters
// produced by a successful handshake, plus the transport they ride on.
// Not safe for concurrent use: both IV counters are session-local mutable
// state and concurrent Send/Recv would desynchronize the AEAD stream.
type Session struct {
	suite        cryptosuite.Suite
	conn         io.ReadWriteCloser
	sharedSecret []byte
	role         Role

	ClientIV uint64
	ServerIV uint64

	failed bool
}

// New wraps conn in a Session using sharedSecret and the IV counters a
// handshake produced. New takes ownership of sharedSecret; callers must
// not retain or reuse the slice. role determines which direction Send
// advances and which direction Recv expects: handshake.Run, the only
// place agentwire itself creates a Session, always passes RoleClient;
// RoleServer exists so test stub agents can speak the same envelope from
// the other side.
func New(suite cryptosuite.Suite, conn io.ReadWriteCloser, sharedSecret []byte, clientIV, serverIV uint64, role Role) *Session {
	return &Session{
		suite:        suite,
		conn:         conn,
		sharedSecret: sharedSecret,
		role:         role,
		ClientIV:     clientIV,
		ServerIV:     serverIV,
	}
}

// Send encrypts payload under a fresh subkey derived from this session's
// outgoing direction and IV, and writes it as a framed message. On
// success, the outgoing IV (ClientIV for RoleClient, ServerIV for
// RoleServer) advances by exactly one. Any failure marks the session
// failed and zeroes the shared secret.
func (s *Session) Send(ctx context.Context, payload []byte) error {
	if s.failed {
		return ErrSessionFailed
	}

	dir := cryptosuite.DirectionClientToServer
	iv := &s.ClientIV
	if s.role == RoleServer {
		dir = cryptosuite.DirectionServerToClient
		iv = &s.ServerIV
	}
	if *iv == ^uint64(0) {
		s.fail()
		return ErrIVOverflow
	}

	defer applyDeadline(ctx, s.conn)()

	key, err := s.suite.DeriveMessageKey(s.sharedSecret, *iv, dir)
	if err != nil {
		s.fail()
		return agentwire.WrapCodedError(agentwire.CodeEnvelopeMACFail, "derive send subkey", err)
	}
	sealed, err := s.suite.Seal(key, payload)
	zero(key)
	if err != nil {
		s.fail()
		return agentwire.WrapCodedError(agentwire.CodeEnvelopeMACFail, "seal message", err)
	}

	body := make([]byte, 0, 1+len(sealed))
	body = append(body, messageTypeSealed)
	body = append(body, sealed...)
	if err := frame.WriteFrame(s.conn, body); err != nil {
		s.fail()
		return err
	}

	*iv++
	return nil
}

// Recv reads one framed message, decrypts it under a fresh subkey derived
// from this session's incoming direction and IV, and returns the
// plaintext. On success, the incoming IV (ServerIV for RoleClient,
// ClientIV for RoleServer) advances by exactly one. A MAC verification
// failure is treated as a potential active attack: it is fatal, marks the
// session failed, and zeroes the shared secret.
func (s *Session) Recv(ctx context.Context) ([]byte, error) {
	if s.failed {
		return nil, ErrSessionFailed
	}

	dir := cryptosuite.DirectionServerToClient
	iv := &s.ServerIV
	if s.role == RoleServer {
		dir = cryptosuite.DirectionClientToServer
		iv = &s.ClientIV
	}
	if *iv == ^uint64(0) {
		s.fail()
		return nil, ErrIVOverflow
	}

	defer applyDeadline(ctx, s.conn)()

	raw, err := frame.ReadFrame(s.conn, frame.DefaultMaxFrameSize)
	if err != nil {
		s.fail()
		return nil, err
	}
	if len(raw) < 1 {
		s.fail()
		return nil, ErrShortMessage
	}
	sealed := raw[1:]

	key, err := s.suite.DeriveMessageKey(s.sharedSecret, *iv, dir)
	if err != nil {
		s.fail()
		return nil, agentwire.WrapCodedError(agentwire.CodeEnvelopeMACFail, "derive recv subkey", err)
	}
	plaintext, err := s.suite.Open(key, sealed)
	zero(key)
	if err != nil {
		s.fail()
		return nil, agentwire.NewCodedError(agentwire.CodeEnvelopeMACFail, "envelope MAC verify failed")
	}

	*iv++
	return plaintext, nil
}

// Failed reports whether the session has transitioned to the failed
// state and must not be reused.
func (s *Session) Failed() bool { return s.failed }

// Close zeroes the shared secret and closes the underlying transport.
func (s *Session) Close() error {
	s.zero()
	return s.conn.Close()
}

func (s *Session) fail() {
	s.failed = true
	s.zero()
}

func (s *Session) zero() {
	for i := range s.sharedSecret {
		s.sharedSecret[i] = 0
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// applyDeadline sets conn's deadline from ctx, if ctx carries one and conn
// supports it, matching portal/core/cryptoops/handshaker.go's
// ClientHandshake pattern. The returned func clears the deadline again.
func applyDeadline(ctx context.Context, conn io.ReadWriteCloser) func() {
	deadline, ok := ctx.Deadline()
	if !ok {
		return func() {}
	}
	dc, ok := conn.(interface{ SetDeadline(time.Time) error })
	if !ok {
		return func() {}
	}
	_ = dc.SetDeadline(deadline)
	return func() { _ = dc.SetDeadline(time.Time{}) }
}
