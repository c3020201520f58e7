// Package handshake implements the four-step mutually-authenticated
// handshake that produces a session shared secret, two directional IV
// counters, and an authenticated server identity.
//
// Grounded on portal/core/cryptoops/handshaker.go's ClientHandshake
// (context-deadline threading, scoped failure) and
// relaydns/core/cryptoops/handshaker.go's X25519-based key agreement
// transcript.
package handshake

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cert"
	"github.com/veloagent/agentwire/cryptosuite"
	"github.com/veloagent/agentwire/frame"
	"github.com/veloagent/agentwire/session"
	"github.com/veloagent/agentwire/wire"
)

// Handshaker runs the client side of the handshake against a single
// connection using a fixed crypto suite.
type Handshaker struct {
	Suite cryptosuite.Suite
}

// New constructs a Handshaker bound to suite.
func New(suite cryptosuite.Suite) *Handshaker {
	return &Handshaker{Suite: suite}
}

// Run drives conn through the four handshake steps and returns an
// established Session. client is this side's private entity; server is
// the pre-loaded, pinned public entity the agent must prove it controls.
// Failure at any step zeroes all retained key material and closes conn;
// callers must not reuse conn after a failed Run.
func (h *Handshaker) Run(ctx context.Context, conn io.ReadWriteCloser, client *cert.PrivateEntity, server *cert.PublicEntity) (*session.Session, error) {
	suite := h.Suite
	state := StateInitial

	fail := func(code int, msg string, err error) (*session.Session, error) {
		msg += " (after " + state.String() + ")"
		state = StateFailed
		conn.Close()
		if err != nil {
			return nil, agentwire.WrapCodedError(code, msg, err)
		}
		return nil, agentwire.NewCodedError(code, msg)
	}

	keyNonce := make([]byte, suite.NonceSize())
	challengeNonce := make([]byte, suite.NonceSize())
	defer func() {
		zero(keyNonce)
		zero(challengeNonce)
	}()
	if err := suite.Fill(keyNonce); err != nil {
		return fail(agentwire.CodeHandshakeSendRequest, "generate key nonce", err)
	}
	if err := suite.Fill(challengeNonce); err != nil {
		return fail(agentwire.CodeHandshakeSendRequest, "generate challenge nonce", err)
	}

	// Step 1 — send handshake request.
	req := wire.HandshakeInitiateRequest{
		ClientID:       client.ArtifactID,
		KeyNonce:       keyNonce,
		ChallengeNonce: challengeNonce,
	}
	reqFrame := wire.EncodeHeader(nil, wire.Header{RequestID: wire.HandshakeInitiate, Offset: 0, Status: wire.StatusOK})
	reqFrame = append(reqFrame, req.Encode()...)
	if err := frame.WriteFrame(conn, reqFrame); err != nil {
		return fail(agentwire.CodeHandshakeSendRequest, "send handshake request", err)
	}
	state = StateSentRequest

	// Step 2 — receive handshake response.
	respFrame, err := frame.ReadFrame(conn, frame.DefaultMaxFrameSize)
	if err != nil {
		return fail(agentwire.CodeHandshakeRecvResponse, "receive handshake response", err)
	}
	hdr, body, err := wire.DecodeHeader(respFrame)
	if err != nil {
		return fail(agentwire.CodeHandshakeRecvResponse, "decode handshake response header", err)
	}
	if hdr.RequestID != wire.HandshakeInitiate || hdr.Offset != 0 {
		return fail(agentwire.CodeHandshakeRecvResponse, "unexpected handshake response header", nil)
	}
	if hdr.Status != wire.StatusOK {
		return fail(agentwire.CodeHandshakeRecvResponse, "agent rejected handshake request", nil)
	}
	var resp wire.HandshakeInitiateResponse
	if err := resp.Decode(body); err != nil {
		return fail(agentwire.CodeHandshakeRecvResponse, "decode handshake response body", err)
	}
	state = StateGotResponse

	sharedSecret, err := suite.KEX(client.EncPrivate, resp.ServerEncPub, keyNonce, resp.ServerKeyNonce)
	if err != nil {
		return fail(agentwire.CodeHandshakeRecvResponse, "derive shared secret", err)
	}

	if !verifyResponseMAC(sharedSecret, resp) {
		zero(sharedSecret)
		return fail(agentwire.CodeHandshakeMACVerify, "handshake response MAC verify failed", nil)
	}

	transcript := signatureTranscript(resp, client.ArtifactID, keyNonce, challengeNonce)
	if !suite.Verify(server.SignPublic, transcript, resp.Signature) {
		zero(sharedSecret)
		return fail(agentwire.CodeHandshakeSigVerify, "handshake response signature verify failed", nil)
	}

	if !bytes.Equal(resp.ServerID[:], server.ArtifactID[:]) {
		zero(sharedSecret)
		return fail(agentwire.CodeServerIDMismatch, "server artifact id does not match pinned identity", nil)
	}
	if !bytes.Equal(resp.ServerEncPub, server.EncPublic) {
		zero(sharedSecret)
		return fail(agentwire.CodeServerKeyMismatch, "server encryption key does not match pinned identity", nil)
	}

	// Step 3 — send handshake acknowledgement. Both IV counters start at
	// 1 immediately after the handshake; the ack consumes client_iv=1 and
	// leaves it at 2, matching what step 4 expects of server_iv.
	sess := session.New(suite, conn, sharedSecret, 1, 1, session.RoleClient)
	if err := sess.Send(ctx, resp.ServerChallengeNonce); err != nil {
		sess.Close()
		state = StateFailed
		return nil, agentwire.WrapCodedError(agentwire.CodeHandshakeSendAck, "send handshake acknowledgement", err)
	}
	state = StateSentAck

	// Step 4 — receive acknowledgement response.
	ackBody, err := sess.Recv(ctx)
	if err != nil {
		sess.Close()
		state = StateFailed
		return nil, agentwire.WrapCodedError(agentwire.CodeHandshakeRecvAck, "receive handshake acknowledgement response", err)
	}
	ackHdr, _, err := wire.DecodeHeader(ackBody)
	if err != nil {
		sess.Close()
		state = StateFailed
		return nil, agentwire.WrapCodedError(agentwire.CodeHandshakeDecodeAck, "decode handshake acknowledgement response", err)
	}
	if ackHdr.RequestID != wire.HandshakeAcknowledge || ackHdr.Offset != 0 {
		sess.Close()
		state = StateFailed
		return nil, agentwire.NewCodedError(agentwire.CodeHandshakeAckRequestID, "unexpected handshake acknowledgement header")
	}
	if ackHdr.Status != wire.StatusOK {
		sess.Close()
		state = StateFailed
		return nil, agentwire.NewCodedError(agentwire.CodeHandshakeAckStatus, "agent rejected handshake acknowledgement")
	}

	state = StateEstablished
	return sess, nil
}

// signatureTranscript reproduces the concatenation the agent signs:
// (server id, client id, server key, server key-nonce, server
// challenge-nonce, client key-nonce, client challenge-nonce).
func signatureTranscript(resp wire.HandshakeInitiateResponse, clientID [16]byte, clientKeyNonce, clientChallengeNonce []byte) []byte {
	var buf []byte
	buf = append(buf, resp.ServerID[:]...)
	buf = append(buf, clientID[:]...)
	buf = append(buf, resp.ServerEncPub...)
	buf = append(buf, resp.ServerKeyNonce...)
	buf = append(buf, resp.ServerChallengeNonce...)
	buf = append(buf, clientKeyNonce...)
	buf = append(buf, clientChallengeNonce...)
	return buf
}

// verifyResponseMAC authenticates the handshake response body fields
// (server id, server key, both server nonces and the signature; not the
// MAC itself or the envelope header) under the freshly derived
// shared secret, binding the response to the key agreement before the
// signature — a slower, asymmetric check — is even attempted.
//
// The crypto suite façade only exposes combined AEAD seal/open and
// signature verify, not a detachable MAC primitive, so this one spot
// uses crypto/hmac directly (SHA-256, matching the suite's HashSize).
func verifyResponseMAC(sharedSecret []byte, resp wire.HandshakeInitiateResponse) bool {
	mac := hmac.New(sha256.New, sharedSecret)
	mac.Write(resp.ServerID[:])
	mac.Write(resp.ServerEncPub)
	mac.Write(resp.ServerKeyNonce)
	mac.Write(resp.ServerChallengeNonce)
	mac.Write(resp.Signature)
	expected := mac.Sum(nil)
	return hmac.Equal(expected, resp.MAC)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
