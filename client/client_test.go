package client_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cert"
	"github.com/veloagent/agentwire/client"
	"github.com/veloagent/agentwire/cryptosuite"
	"github.com/veloagent/agentwire/handshake"
	"github.com/veloagent/agentwire/session"
	"github.com/veloagent/agentwire/wire"
)

// establish drives a real client-side handshake against stubHandshake and
// returns a ready Client plus the server-role session and ledger a test
// can drive with serveLedgerOnce.
func establish(t *testing.T) (*client.Client, *stubLedger, *session.Session) {
	t.Helper()
	suite := cryptosuite.NewVeloV1()
	clientEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate client cert: %v", err)
	}
	serverEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate server cert: %v", err)
	}

	clientConn, serverConn := net.Pipe()
	ledger := newStubLedger()

	serverSessCh := make(chan *session.Session, 1)
	go func() {
		serverSessCh <- stubHandshake(t, serverConn, suite, serverEnt, cert.Public(clientEnt))
	}()

	h := handshake.New(suite)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	clientSess, err := h.Run(ctx, clientConn, clientEnt, cert.Public(serverEnt))
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	serverSess := <-serverSessCh

	t.Cleanup(func() { serverConn.Close() })
	return client.New(clientSess), ledger, serverSess
}

func TestLatestBlockIDOnEmptyLedger(t *testing.T) {
	c, ledger, serverSess := establish(t)
	ledger.latestBlockID = uuid.Nil

	go serveLedgerOnce(t, serverSess, ledger, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	id, err := c.LatestBlockID(ctx)
	if err != nil {
		t.Fatalf("LatestBlockID: %v", err)
	}
	if id != uuid.Nil {
		t.Fatalf("expected nil block id on empty ledger, got %v", id)
	}
}

func TestLatestBlockIDOffsetMismatch(t *testing.T) {
	c, ledger, serverSess := establish(t)
	ledger.latestBlockID = uuid.New()

	go serveLedgerOnce(t, serverSess, ledger, 0xBAD0FF5E)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.LatestBlockID(ctx)
	if err == nil {
		t.Fatal("expected offset mismatch error")
	}
	if agentwire.Code(err) != agentwire.CodeLatestBlockIDOffset {
		t.Fatalf("expected CodeLatestBlockIDOffset, got %d (%v)", agentwire.Code(err), err)
	}
}

func TestSubmitAndNavigateThreeTransactionChain(t *testing.T) {
	c, ledger, serverSess := establish(t)

	artifact := uuid.New()
	block := uuid.New()
	txn1, txn2, txn3 := uuid.New(), uuid.New(), uuid.New()
	// The stub's canonization: topology is fixed up front; artifact id and
	// certificate come from each submission.
	ledger.txns[txn1] = stubTxn{prev: uuid.Nil, next: txn2, block: block}
	ledger.txns[txn2] = stubTxn{prev: txn1, next: txn3, block: block}
	ledger.txns[txn3] = stubTxn{prev: txn2, next: uuid.Nil, block: block}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// serve answers one request; waiting on the returned channel before the
	// next call keeps serverSess, which is not safe for concurrent use, on
	// one goroutine at a time.
	serve := func() chan struct{} {
		done := make(chan struct{})
		go func() {
			defer close(done)
			serveLedgerOnce(t, serverSess, ledger, 0)
		}()
		return done
	}

	for i, id := range []uuid.UUID{txn1, txn2, txn3} {
		done := serve()
		if err := c.SubmitTxn(ctx, id, artifact, wire.TxnCert(fmt.Sprintf("cert%d", i+1))); err != nil {
			t.Fatalf("SubmitTxn: %v", err)
		}
		<-done
	}

	done := serve()
	got, err := c.TxnByID(ctx, txn2)
	<-done
	if err != nil {
		t.Fatalf("TxnByID: %v", err)
	}
	if got.PrevTxnID != txn1 || got.NextTxnID != txn3 || got.ArtifactID != artifact || got.BlockID != block {
		t.Fatalf("unexpected txn topology: %+v", got)
	}
	if !bytes.Equal(got.Cert, []byte("cert2")) {
		t.Fatalf("unexpected cert: %q", got.Cert)
	}

	done = serve()
	next, err := c.TxnIDNext(ctx, txn1)
	<-done
	if err != nil || next != txn2 {
		t.Fatalf("TxnIDNext: got %v, err %v", next, err)
	}

	done = serve()
	prev, err := c.TxnIDPrev(ctx, txn3)
	<-done
	if err != nil || prev != txn2 {
		t.Fatalf("TxnIDPrev: got %v, err %v", prev, err)
	}

	done = serve()
	blockID, err := c.TxnBlockID(ctx, txn1)
	<-done
	if err != nil || blockID != block {
		t.Fatalf("TxnBlockID: got %v, err %v", blockID, err)
	}
}

// serveEnable answers one EXTENDED_API_ENABLE request on sess.
func serveEnable(t *testing.T, sess *session.Session) {
	t.Helper()
	raw, err := sess.Recv(context.Background())
	if err != nil {
		t.Fatalf("serveEnable: recv: %v", err)
	}
	hdr, _, err := wire.DecodeHeader(raw)
	if err != nil || hdr.RequestID != wire.ExtendedAPIEnable {
		t.Fatalf("serveEnable: unexpected request: %v %v", hdr, err)
	}
	resp := wire.EncodeHeader(nil, wire.Header{RequestID: wire.ExtendedAPIEnable, Offset: hdr.Offset, Status: wire.StatusOK})
	if err := sess.Send(context.Background(), resp); err != nil {
		t.Fatalf("serveEnable: send: %v", err)
	}
}

// relayPing reads one EXTENDED_API_SENDRECV from callerSess, forwards it
// as an EXTENDED_API_CLIENTREQ to sentinelSess, reads the matching
// EXTENDED_API_SENDRESP back, and answers the caller's SENDRECV with the
// sentinel's reply payload. This is the part of the protocol a real agent
// plays and this client never implements (server implementation is out
// of scope); the test stands in for it only to exercise both client-side
// roles against each other.
func relayPing(t *testing.T, callerSess, sentinelSess *session.Session, recipient, verb uuid.UUID) {
	t.Helper()

	raw, err := callerSess.Recv(context.Background())
	if err != nil {
		t.Fatalf("relayPing: recv sendrecv: %v", err)
	}
	hdr, body, err := wire.DecodeHeader(raw)
	if err != nil || hdr.RequestID != wire.ExtendedAPISendRecv {
		t.Fatalf("relayPing: unexpected sendrecv request: %v %v", hdr, err)
	}
	var sendRecvReq wire.ExtendedAPISendRecvRequest
	if err := sendRecvReq.Decode(body); err != nil {
		t.Fatalf("relayPing: decode sendrecv: %v", err)
	}

	const correlation uint64 = 1
	clientReq := wire.ExtendedAPIClientReq{
		ClientID: recipient, VerbID: verb, Offset: correlation, Payload: sendRecvReq.Payload,
	}
	clientReqFrame := wire.EncodeHeader(nil, wire.Header{RequestID: wire.ExtendedAPIClientReqID, Offset: 0, Status: wire.StatusOK})
	clientReqFrame = append(clientReqFrame, clientReq.Encode()...)
	if err := sentinelSess.Send(context.Background(), clientReqFrame); err != nil {
		t.Fatalf("relayPing: send clientreq: %v", err)
	}

	sendRespRaw, err := sentinelSess.Recv(context.Background())
	if err != nil {
		t.Fatalf("relayPing: recv sendresp: %v", err)
	}
	sendRespHdr, sendRespBody, err := wire.DecodeHeader(sendRespRaw)
	if err != nil || sendRespHdr.RequestID != wire.ExtendedAPISendRespID {
		t.Fatalf("relayPing: unexpected sendresp: %v %v", sendRespHdr, err)
	}
	var sendResp wire.ExtendedAPISendResp
	if err := sendResp.Decode(sendRespBody); err != nil {
		t.Fatalf("relayPing: decode sendresp: %v", err)
	}
	if sendResp.Offset != correlation {
		t.Fatalf("relayPing: correlation mismatch: got %d want %d", sendResp.Offset, correlation)
	}

	sendRecvResp := wire.ExtendedAPISendRecvResponse{Payload: sendResp.Payload}
	respFrame := wire.EncodeHeader(nil, wire.Header{RequestID: wire.ExtendedAPISendRecv, Offset: hdr.Offset, Status: wire.StatusOK})
	respFrame = append(respFrame, sendRecvResp.Encode()...)
	if err := callerSess.Send(context.Background(), respFrame); err != nil {
		t.Fatalf("relayPing: send sendrecv response: %v", err)
	}
}

func TestExtendedAPIPingRoundTrip(t *testing.T) {
	suite := cryptosuite.NewVeloV1()
	serverEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate server cert: %v", err)
	}
	sentinelEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate sentinel cert: %v", err)
	}
	callerEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate caller cert: %v", err)
	}

	sentinelConn, sentinelAgentConn := net.Pipe()
	callerConn, callerAgentConn := net.Pipe()
	defer sentinelConn.Close()
	defer callerConn.Close()

	const pingPayloadSize = 32
	payload := bytes.Repeat([]byte{0x42}, pingPayloadSize)
	recipient := uuid.New()
	verb := uuid.New()

	agentDone := make(chan struct{})
	go func() {
		defer close(agentDone)
		sentinelAgentSess := stubHandshake(t, sentinelAgentConn, suite, serverEnt, cert.Public(sentinelEnt))
		callerAgentSess := stubHandshake(t, callerAgentConn, suite, serverEnt, cert.Public(callerEnt))

		serveEnable(t, sentinelAgentSess)
		serveEnable(t, callerAgentSess)

		relayPing(t, callerAgentSess, sentinelAgentSess, recipient, verb)
	}()

	h := handshake.New(suite)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sentinelSess, err := h.Run(ctx, sentinelConn, sentinelEnt, cert.Public(serverEnt))
	if err != nil {
		t.Fatalf("sentinel handshake: %v", err)
	}
	callerSess, err := h.Run(ctx, callerConn, callerEnt, cert.Public(serverEnt))
	if err != nil {
		t.Fatalf("caller handshake: %v", err)
	}

	sentinelClient := client.New(sentinelSess)
	callerClient := client.New(callerSess)

	if err := sentinelClient.EnableExtendedAPI(ctx); err != nil {
		t.Fatalf("sentinel enable: %v", err)
	}
	if err := callerClient.EnableExtendedAPI(ctx); err != nil {
		t.Fatalf("caller enable: %v", err)
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- sentinelClient.Serve(ctx, func(ctx context.Context, clientID, verbID uuid.UUID, reqPayload []byte) ([]byte, error) {
			if len(reqPayload) != pingPayloadSize {
				t.Errorf("sentinel saw payload size %d, want %d", len(reqPayload), pingPayloadSize)
			}
			return reqPayload, nil
		})
	}()

	reply, err := callerClient.SendRecv(ctx, recipient, verb, payload)
	if err != nil {
		t.Fatalf("SendRecv: %v", err)
	}
	if len(reply) != pingPayloadSize {
		t.Fatalf("reply payload size %d, want %d", len(reply), pingPayloadSize)
	}
	if !bytes.Equal(reply, payload) {
		t.Fatalf("ping reply does not match payload")
	}

	<-agentDone
	// Serve loops until its session errors; closing the connection is how
	// a caller stops a sentinel once it is done handling requests.
	sentinelConn.Close()
	<-serveDone
}

// TestExtendedAPIPingSentinelSizeIndependentOfRequest exercises the case
// spec.md §8 scenario 4 calls out: the sentinel's reply is sized by its
// own configured payload size, not by the caller's request size.
func TestExtendedAPIPingSentinelSizeIndependentOfRequest(t *testing.T) {
	suite := cryptosuite.NewVeloV1()
	serverEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate server cert: %v", err)
	}
	sentinelEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate sentinel cert: %v", err)
	}
	callerEnt, err := cert.GeneratePrivateCert(suite)
	if err != nil {
		t.Fatalf("generate caller cert: %v", err)
	}

	sentinelConn, sentinelAgentConn := net.Pipe()
	callerConn, callerAgentConn := net.Pipe()
	defer sentinelConn.Close()
	defer callerConn.Close()

	const (
		callerPayloadSize = 32
		sentinelReplySize = 1024
	)
	payload := bytes.Repeat([]byte{0x42}, callerPayloadSize)
	recipient := uuid.New()
	verb := uuid.New()

	agentDone := make(chan struct{})
	go func() {
		defer close(agentDone)
		sentinelAgentSess := stubHandshake(t, sentinelAgentConn, suite, serverEnt, cert.Public(sentinelEnt))
		callerAgentSess := stubHandshake(t, callerAgentConn, suite, serverEnt, cert.Public(callerEnt))

		serveEnable(t, sentinelAgentSess)
		serveEnable(t, callerAgentSess)

		relayPing(t, callerAgentSess, sentinelAgentSess, recipient, verb)
	}()

	h := handshake.New(suite)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sentinelSess, err := h.Run(ctx, sentinelConn, sentinelEnt, cert.Public(serverEnt))
	if err != nil {
		t.Fatalf("sentinel handshake: %v", err)
	}
	callerSess, err := h.Run(ctx, callerConn, callerEnt, cert.Public(serverEnt))
	if err != nil {
		t.Fatalf("caller handshake: %v", err)
	}

	sentinelClient := client.New(sentinelSess)
	callerClient := client.New(callerSess)

	if err := sentinelClient.EnableExtendedAPI(ctx); err != nil {
		t.Fatalf("sentinel enable: %v", err)
	}
	if err := callerClient.EnableExtendedAPI(ctx); err != nil {
		t.Fatalf("caller enable: %v", err)
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- sentinelClient.Serve(ctx, func(ctx context.Context, clientID, verbID uuid.UUID, reqPayload []byte) ([]byte, error) {
			if len(reqPayload) != callerPayloadSize {
				t.Errorf("sentinel saw payload size %d, want %d", len(reqPayload), callerPayloadSize)
			}
			// The reply a sentinel sends is sized by its own configured
			// payload size, independent of what the caller sent.
			return make([]byte, sentinelReplySize), nil
		})
	}()

	reply, err := callerClient.SendRecv(ctx, recipient, verb, payload)
	if err != nil {
		t.Fatalf("SendRecv: %v", err)
	}
	if len(reply) != sentinelReplySize {
		t.Fatalf("reply payload size %d, want %d", len(reply), sentinelReplySize)
	}

	<-agentDone
	sentinelConn.Close()
	<-serveDone
}
