package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func mustUUID(t *testing.T, s byte) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	for i := range id {
		id[i] = s
	}
	return id
}

func TestHandshakeInitiateRequestRoundTrip(t *testing.T) {
	want := HandshakeInitiateRequest{
		ClientID:       mustUUID(t, 0x11),
		KeyNonce:       []byte("key-nonce-bytes"),
		ChallengeNonce: []byte("challenge-nonce-bytes"),
	}
	var got HandshakeInitiateRequest
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestHandshakeInitiateResponseRoundTrip(t *testing.T) {
	want := HandshakeInitiateResponse{
		ServerID:             mustUUID(t, 0x22),
		ServerEncPub:         bytes.Repeat([]byte{0xAB}, 32),
		ServerKeyNonce:       []byte("server-key-nonce"),
		ServerChallengeNonce: []byte("server-challenge-nonce"),
		Signature:            bytes.Repeat([]byte{0xCD}, 64),
		MAC:                  bytes.Repeat([]byte{0xEF}, 16),
	}
	var got HandshakeInitiateResponse
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestBlockByIDResponseRoundTrip(t *testing.T) {
	want := BlockByIDResponse{
		PrevBlockID: mustUUID(t, 0x01),
		NextBlockID: mustUUID(t, 0x02),
		BlockCert:   []byte("opaque-block-cert"),
	}
	var got BlockByIDResponse
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestTxnSubmitRequestRoundTrip(t *testing.T) {
	want := TxnSubmitRequest{
		TxnID:      mustUUID(t, 0x33),
		ArtifactID: mustUUID(t, 0x44),
		Cert:       []byte("opaque-txn-cert"),
	}
	var got TxnSubmitRequest
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestTxnByIDResponseRoundTrip(t *testing.T) {
	want := TxnByIDResponse{
		PrevTxnID:  mustUUID(t, 0x01),
		NextTxnID:  mustUUID(t, 0x02),
		ArtifactID: mustUUID(t, 0x03),
		BlockID:    mustUUID(t, 0x04),
		TxnCert:    []byte("opaque-txn-cert"),
	}
	var got TxnByIDResponse
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestExtendedAPISendRecvRequestRoundTrip(t *testing.T) {
	want := ExtendedAPISendRecvRequest{
		RecipientID: mustUUID(t, 0x55),
		VerbID:      mustUUID(t, 0x66),
		Payload:     bytes.Repeat([]byte{0x01}, 1024),
	}
	var got ExtendedAPISendRecvRequest
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestExtendedAPIClientReqRoundTrip(t *testing.T) {
	want := ExtendedAPIClientReq{
		ClientID: mustUUID(t, 0x77),
		VerbID:   mustUUID(t, 0x88),
		Offset:   0x1122334455667788,
		Payload:  []byte("ping"),
	}
	var got ExtendedAPIClientReq
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestExtendedAPISendRespRoundTrip(t *testing.T) {
	want := ExtendedAPISendResp{
		Offset:  5,
		Status:  StatusOK,
		Payload: bytes.Repeat([]byte{0x42}, 1024),
	}
	var got ExtendedAPISendResp
	if err := got.Decode(want.Encode()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	if _, _, err := DecodeHeader([]byte{1, 2, 3}); err != ErrShortHeader {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodeBlockCertTuple(t *testing.T) {
	raw := EncodeBlockCert(BlockCert{TxnCerts: []TxnCert{
		[]byte("first"),
		[]byte("second"),
	}})
	bc, err := DecodeBlockCert(raw)
	if err != nil {
		t.Fatalf("DecodeBlockCert: %v", err)
	}
	if len(bc.TxnCerts) != 2 {
		t.Fatalf("expected 2 txn certs, got %d", len(bc.TxnCerts))
	}
	if !bytes.Equal(bc.TxnCerts[0], []byte("first")) || !bytes.Equal(bc.TxnCerts[1], []byte("second")) {
		t.Fatalf("unexpected txn certs: %+v", bc.TxnCerts)
	}
}
