package client_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire/cert"
	"github.com/veloagent/agentwire/cryptosuite"
	"github.com/veloagent/agentwire/frame"
	"github.com/veloagent/agentwire/session"
	"github.com/veloagent/agentwire/wire"
)

// stubHandshake plays the agent's side of the four-step handshake over
// conn and returns the established, server-role session. Duplicates the
// transcript/MAC construction of handshake.Run's client side rather than
// reaching into that package's unexported helpers: there is no exported
// server-side handshake (implementing a server is out of scope), so
// exercising the client package against a live agent needs its own
// minimal stand-in, same as handshake_test.go's stubAgent.
func stubHandshake(t *testing.T, conn net.Conn, suite cryptosuite.Suite, serverEnt *cert.PrivateEntity, clientPub *cert.PublicEntity) *session.Session {
	t.Helper()

	reqFrame, err := frame.ReadFrame(conn, frame.DefaultMaxFrameSize)
	if err != nil {
		t.Fatalf("stub handshake: read request: %v", err)
	}
	hdr, body, err := wire.DecodeHeader(reqFrame)
	if err != nil || hdr.RequestID != wire.HandshakeInitiate {
		t.Fatalf("stub handshake: bad request header: %v %v", hdr, err)
	}
	var req wire.HandshakeInitiateRequest
	if err := req.Decode(body); err != nil {
		t.Fatalf("stub handshake: decode request: %v", err)
	}

	serverKeyNonce := make([]byte, suite.NonceSize())
	serverChallengeNonce := make([]byte, suite.NonceSize())
	if err := suite.Fill(serverKeyNonce); err != nil {
		t.Fatalf("stub handshake: fill server key nonce: %v", err)
	}
	if err := suite.Fill(serverChallengeNonce); err != nil {
		t.Fatalf("stub handshake: fill server challenge nonce: %v", err)
	}

	sharedSecret, err := suite.KEX(serverEnt.EncPrivate, clientPub.EncPublic, req.KeyNonce, serverKeyNonce)
	if err != nil {
		t.Fatalf("stub handshake: kex: %v", err)
	}

	resp := wire.HandshakeInitiateResponse{
		ServerID:             serverEnt.ArtifactID,
		ServerEncPub:         serverEnt.EncPublic,
		ServerKeyNonce:       serverKeyNonce,
		ServerChallengeNonce: serverChallengeNonce,
	}
	var transcript []byte
	transcript = append(transcript, resp.ServerID[:]...)
	transcript = append(transcript, req.ClientID[:]...)
	transcript = append(transcript, resp.ServerEncPub...)
	transcript = append(transcript, resp.ServerKeyNonce...)
	transcript = append(transcript, resp.ServerChallengeNonce...)
	transcript = append(transcript, req.KeyNonce...)
	transcript = append(transcript, req.ChallengeNonce...)
	resp.Signature = suite.Sign(serverEnt.SignPrivate, transcript)

	mac := hmac.New(sha256.New, sharedSecret)
	mac.Write(resp.ServerID[:])
	mac.Write(resp.ServerEncPub)
	mac.Write(resp.ServerKeyNonce)
	mac.Write(resp.ServerChallengeNonce)
	mac.Write(resp.Signature)
	resp.MAC = mac.Sum(nil)

	respFrame := wire.EncodeHeader(nil, wire.Header{RequestID: wire.HandshakeInitiate, Offset: 0, Status: wire.StatusOK})
	respFrame = append(respFrame, resp.Encode()...)
	if err := frame.WriteFrame(conn, respFrame); err != nil {
		t.Fatalf("stub handshake: write response: %v", err)
	}

	sess := session.New(suite, conn, sharedSecret, 1, 1, session.RoleServer)
	ackPayload, err := sess.Recv(context.Background())
	if err != nil {
		t.Fatalf("stub handshake: recv ack: %v", err)
	}
	if string(ackPayload) != string(serverChallengeNonce) {
		t.Fatalf("stub handshake: ack payload mismatch")
	}

	ackResp := wire.EncodeHeader(nil, wire.Header{RequestID: wire.HandshakeAcknowledge, Offset: 0, Status: wire.StatusOK})
	if err := sess.Send(context.Background(), ackResp); err != nil {
		t.Fatalf("stub handshake: send ack response: %v", err)
	}
	return sess
}

// stubTxn is one ledger entry's full topology, as returned by
// TransactionByIDGet and consulted by the navigation kinds.
type stubTxn struct {
	prev, next, artifact, block uuid.UUID
	cert                        []byte
}

// stubLedger is the in-memory agent state a stub reads requests against.
// Not a faithful agent; just enough state to answer the wire kinds the
// client tests exercise.
type stubLedger struct {
	latestBlockID uuid.UUID
	txns          map[uuid.UUID]stubTxn
	blocks        map[uuid.UUID]wire.BlockByIDResponse
}

func newStubLedger() *stubLedger {
	return &stubLedger{txns: map[uuid.UUID]stubTxn{}, blocks: map[uuid.UUID]wire.BlockByIDResponse{}}
}

// serveLedgerOnce reads one request frame from sess and replies according to
// ledger state. badOffset, when non-zero, is echoed back as the response
// offset instead of the request's own offset, letting a test drive the
// offset-mismatch failure path deterministically.
func serveLedgerOnce(t *testing.T, sess *session.Session, ledger *stubLedger, badOffset uint32) {
	t.Helper()
	raw, err := sess.Recv(context.Background())
	if err != nil {
		t.Fatalf("stub ledger: recv: %v", err)
	}
	hdr, body, err := wire.DecodeHeader(raw)
	if err != nil {
		t.Fatalf("stub ledger: decode header: %v", err)
	}

	respOffset := hdr.Offset
	if badOffset != 0 {
		respOffset = badOffset
	}

	var respBody []byte
	switch hdr.RequestID {
	case wire.LatestBlockIDGet:
		respBody = wire.LatestBlockIDResponse{BlockID: ledger.latestBlockID}.Encode()

	case wire.TransactionSubmit:
		var req wire.TxnSubmitRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode submit: %v", err)
		}
		cur := ledger.txns[req.TxnID]
		cur.artifact = req.ArtifactID
		cur.cert = req.Cert
		ledger.txns[req.TxnID] = cur

	case wire.TransactionByIDGet:
		var req wire.TxnByIDRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode txn get: %v", err)
		}
		txn := ledger.txns[req.TxnID]
		respBody = wire.TxnByIDResponse{
			PrevTxnID: txn.prev, NextTxnID: txn.next,
			ArtifactID: txn.artifact, BlockID: txn.block, TxnCert: txn.cert,
		}.Encode()

	case wire.TransactionIDGetNext:
		var req wire.TxnIDNextRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode txn next: %v", err)
		}
		respBody = wire.TxnIDNextResponse{NextTxnID: ledger.txns[req.TxnID].next}.Encode()

	case wire.TransactionIDGetPrev:
		var req wire.TxnIDPrevRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode txn prev: %v", err)
		}
		respBody = wire.TxnIDPrevResponse{PrevTxnID: ledger.txns[req.TxnID].prev}.Encode()

	case wire.TransactionIDGetBlockID:
		var req wire.TxnBlockIDRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode txn block id: %v", err)
		}
		respBody = wire.TxnBlockIDResponse{BlockID: ledger.txns[req.TxnID].block}.Encode()

	case wire.BlockByIDGet:
		var req wire.BlockByIDRequest
		if err := req.Decode(body); err != nil {
			t.Fatalf("stub ledger: decode block get: %v", err)
		}
		respBody = ledger.blocks[req.BlockID].Encode()

	case wire.ExtendedAPIEnable:
		// no body

	case wire.StatusGet:
		// status lives entirely in the header; leave respOffset/status as is

	default:
		t.Fatalf("stub ledger: unhandled request kind %#x", hdr.RequestID)
	}

	respHdr := wire.EncodeHeader(nil, wire.Header{RequestID: hdr.RequestID, Offset: respOffset, Status: wire.StatusOK})
	if err := sess.Send(context.Background(), append(respHdr, respBody...)); err != nil {
		t.Fatalf("stub ledger: send response: %v", err)
	}
}
