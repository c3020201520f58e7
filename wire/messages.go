package wire

import "github.com/google/uuid"

// HandshakeInitiateRequest is the plaintext body of the handshake's first
// frame (spec.md §4.4 step 1).
type HandshakeInitiateRequest struct {
	ClientID       uuid.UUID
	KeyNonce       []byte
	ChallengeNonce []byte
}

func (m HandshakeInitiateRequest) Encode() []byte {
	buf := appendUUID(nil, m.ClientID)
	buf = appendVarBytes(buf, m.KeyNonce)
	buf = appendVarBytes(buf, m.ChallengeNonce)
	return buf
}

func (m *HandshakeInitiateRequest) Decode(buf []byte) error {
	id, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	keyNonce, rest, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	challengeNonce, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.ClientID = id
	m.KeyNonce = keyNonce
	m.ChallengeNonce = challengeNonce
	return nil
}

// HandshakeInitiateResponse is the plaintext body of the handshake's
// second frame (spec.md §4.4 step 2). MAC and Signature cover the fields
// described in spec.md; the handshake engine validates them before
// trusting anything else in this struct.
type HandshakeInitiateResponse struct {
	ServerID             uuid.UUID
	ServerEncPub         []byte
	ServerKeyNonce       []byte
	ServerChallengeNonce []byte
	Signature            []byte
	MAC                  []byte
}

func (m HandshakeInitiateResponse) Encode() []byte {
	buf := appendUUID(nil, m.ServerID)
	buf = appendVarBytes(buf, m.ServerEncPub)
	buf = appendVarBytes(buf, m.ServerKeyNonce)
	buf = appendVarBytes(buf, m.ServerChallengeNonce)
	buf = appendVarBytes(buf, m.Signature)
	buf = appendVarBytes(buf, m.MAC)
	return buf
}

func (m *HandshakeInitiateResponse) Decode(buf []byte) error {
	id, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	encPub, rest, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	keyNonce, rest, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	challengeNonce, rest, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	sig, rest, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	mac, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.ServerID = id
	m.ServerEncPub = encPub
	m.ServerKeyNonce = keyNonce
	m.ServerChallengeNonce = challengeNonce
	m.Signature = sig
	m.MAC = mac
	return nil
}

// LatestBlockIDResponse carries the ledger's current block id.
type LatestBlockIDResponse struct {
	BlockID uuid.UUID
}

func (m LatestBlockIDResponse) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *LatestBlockIDResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

// BlockIDByHeightRequest looks a block id up by its height.
type BlockIDByHeightRequest struct {
	Height uint64
}

func (m BlockIDByHeightRequest) Encode() []byte { return appendUint64(nil, m.Height) }

func (m *BlockIDByHeightRequest) Decode(buf []byte) error {
	h, _, err := readUint64(buf)
	if err != nil {
		return err
	}
	m.Height = h
	return nil
}

// BlockIDByHeightResponse is the resolved block id.
type BlockIDByHeightResponse struct {
	BlockID uuid.UUID
}

func (m BlockIDByHeightResponse) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *BlockIDByHeightResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

// BlockByIDRequest asks for a block's neighbors and certificate.
type BlockByIDRequest struct {
	BlockID uuid.UUID
}

func (m BlockByIDRequest) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *BlockByIDRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

// BlockByIDResponse carries a block's topology and opaque certificate.
type BlockByIDResponse struct {
	PrevBlockID uuid.UUID
	NextBlockID uuid.UUID
	BlockCert   []byte
}

func (m BlockByIDResponse) Encode() []byte {
	buf := appendUUID(nil, m.PrevBlockID)
	buf = appendUUID(buf, m.NextBlockID)
	buf = appendVarBytes(buf, m.BlockCert)
	return buf
}

func (m *BlockByIDResponse) Decode(buf []byte) error {
	prev, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	next, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	cert, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.PrevBlockID = prev
	m.NextBlockID = next
	m.BlockCert = cert
	return nil
}

// BlockIDNextRequest/Response navigate forward one block.
type BlockIDNextRequest struct{ BlockID uuid.UUID }

func (m BlockIDNextRequest) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *BlockIDNextRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

type BlockIDNextResponse struct{ NextBlockID uuid.UUID }

func (m BlockIDNextResponse) Encode() []byte { return appendUUID(nil, m.NextBlockID) }

func (m *BlockIDNextResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.NextBlockID = id
	return nil
}

// BlockIDPrevRequest/Response navigate backward one block.
type BlockIDPrevRequest struct{ BlockID uuid.UUID }

func (m BlockIDPrevRequest) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *BlockIDPrevRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

type BlockIDPrevResponse struct{ PrevBlockID uuid.UUID }

func (m BlockIDPrevResponse) Encode() []byte { return appendUUID(nil, m.PrevBlockID) }

func (m *BlockIDPrevResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.PrevBlockID = id
	return nil
}

// TxnSubmitRequest submits a transaction certificate for canonization.
type TxnSubmitRequest struct {
	TxnID      uuid.UUID
	ArtifactID uuid.UUID
	Cert       []byte
}

func (m TxnSubmitRequest) Encode() []byte {
	buf := appendUUID(nil, m.TxnID)
	buf = appendUUID(buf, m.ArtifactID)
	buf = appendVarBytes(buf, m.Cert)
	return buf
}

func (m *TxnSubmitRequest) Decode(buf []byte) error {
	txnID, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	artifactID, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	cert, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.TxnID = txnID
	m.ArtifactID = artifactID
	m.Cert = cert
	return nil
}

// TxnByIDRequest asks for a transaction's full topology and certificate.
type TxnByIDRequest struct{ TxnID uuid.UUID }

func (m TxnByIDRequest) Encode() []byte { return appendUUID(nil, m.TxnID) }

func (m *TxnByIDRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.TxnID = id
	return nil
}

type TxnByIDResponse struct {
	PrevTxnID  uuid.UUID
	NextTxnID  uuid.UUID
	ArtifactID uuid.UUID
	BlockID    uuid.UUID
	TxnCert    []byte
}

func (m TxnByIDResponse) Encode() []byte {
	buf := appendUUID(nil, m.PrevTxnID)
	buf = appendUUID(buf, m.NextTxnID)
	buf = appendUUID(buf, m.ArtifactID)
	buf = appendUUID(buf, m.BlockID)
	buf = appendVarBytes(buf, m.TxnCert)
	return buf
}

func (m *TxnByIDResponse) Decode(buf []byte) error {
	prev, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	next, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	artifact, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	block, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	cert, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.PrevTxnID = prev
	m.NextTxnID = next
	m.ArtifactID = artifact
	m.BlockID = block
	m.TxnCert = cert
	return nil
}

// TxnIDNextRequest/Response navigate forward one transaction.
type TxnIDNextRequest struct{ TxnID uuid.UUID }

func (m TxnIDNextRequest) Encode() []byte { return appendUUID(nil, m.TxnID) }

func (m *TxnIDNextRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.TxnID = id
	return nil
}

type TxnIDNextResponse struct{ NextTxnID uuid.UUID }

func (m TxnIDNextResponse) Encode() []byte { return appendUUID(nil, m.NextTxnID) }

func (m *TxnIDNextResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.NextTxnID = id
	return nil
}

// TxnIDPrevRequest/Response navigate backward one transaction.
type TxnIDPrevRequest struct{ TxnID uuid.UUID }

func (m TxnIDPrevRequest) Encode() []byte { return appendUUID(nil, m.TxnID) }

func (m *TxnIDPrevRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.TxnID = id
	return nil
}

type TxnIDPrevResponse struct{ PrevTxnID uuid.UUID }

func (m TxnIDPrevResponse) Encode() []byte { return appendUUID(nil, m.PrevTxnID) }

func (m *TxnIDPrevResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.PrevTxnID = id
	return nil
}

// TxnBlockIDRequest/Response resolve the block a transaction was
// canonized into.
type TxnBlockIDRequest struct{ TxnID uuid.UUID }

func (m TxnBlockIDRequest) Encode() []byte { return appendUUID(nil, m.TxnID) }

func (m *TxnBlockIDRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.TxnID = id
	return nil
}

type TxnBlockIDResponse struct{ BlockID uuid.UUID }

func (m TxnBlockIDResponse) Encode() []byte { return appendUUID(nil, m.BlockID) }

func (m *TxnBlockIDResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.BlockID = id
	return nil
}

// ArtifactFirstTxnIDRequest/Response resolve an artifact's earliest txn.
type ArtifactFirstTxnIDRequest struct{ ArtifactID uuid.UUID }

func (m ArtifactFirstTxnIDRequest) Encode() []byte { return appendUUID(nil, m.ArtifactID) }

func (m *ArtifactFirstTxnIDRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.ArtifactID = id
	return nil
}

type ArtifactFirstTxnIDResponse struct{ FirstTxnID uuid.UUID }

func (m ArtifactFirstTxnIDResponse) Encode() []byte { return appendUUID(nil, m.FirstTxnID) }

func (m *ArtifactFirstTxnIDResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.FirstTxnID = id
	return nil
}

// ArtifactLastTxnIDRequest/Response resolve an artifact's latest txn.
type ArtifactLastTxnIDRequest struct{ ArtifactID uuid.UUID }

func (m ArtifactLastTxnIDRequest) Encode() []byte { return appendUUID(nil, m.ArtifactID) }

func (m *ArtifactLastTxnIDRequest) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.ArtifactID = id
	return nil
}

type ArtifactLastTxnIDResponse struct{ LastTxnID uuid.UUID }

func (m ArtifactLastTxnIDResponse) Encode() []byte { return appendUUID(nil, m.LastTxnID) }

func (m *ArtifactLastTxnIDResponse) Decode(buf []byte) error {
	id, _, err := readUUID(buf)
	if err != nil {
		return err
	}
	m.LastTxnID = id
	return nil
}

// ExtendedAPISendRecvRequest routes a payload to a sentinel-registered
// verb through the agent.
type ExtendedAPISendRecvRequest struct {
	RecipientID uuid.UUID
	VerbID      uuid.UUID
	Payload     []byte
}

func (m ExtendedAPISendRecvRequest) Encode() []byte {
	buf := appendUUID(nil, m.RecipientID)
	buf = appendUUID(buf, m.VerbID)
	buf = appendVarBytes(buf, m.Payload)
	return buf
}

func (m *ExtendedAPISendRecvRequest) Decode(buf []byte) error {
	recipient, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	verb, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	payload, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.RecipientID = recipient
	m.VerbID = verb
	m.Payload = payload
	return nil
}

// ExtendedAPISendRecvResponse carries the sentinel's reply payload.
type ExtendedAPISendRecvResponse struct{ Payload []byte }

func (m ExtendedAPISendRecvResponse) Encode() []byte { return appendVarBytes(nil, m.Payload) }

func (m *ExtendedAPISendRecvResponse) Decode(buf []byte) error {
	payload, _, err := readVarBytes(buf)
	if err != nil {
		return err
	}
	m.Payload = payload
	return nil
}

// ExtendedAPIClientReq is the server-initiated message a sentinel
// receives once EXTENDED_API_ENABLE has been issued (spec.md §4.8). The
// offset is widened to 64 bits on this path to serve as the correlation
// token the sentinel must echo back in ExtendedAPISendResp.
type ExtendedAPIClientReq struct {
	ClientID uuid.UUID
	VerbID   uuid.UUID
	Offset   uint64
	Payload  []byte
}

func (m ExtendedAPIClientReq) Encode() []byte {
	buf := appendUUID(nil, m.ClientID)
	buf = appendUUID(buf, m.VerbID)
	buf = appendUint64(buf, m.Offset)
	buf = appendVarBytes(buf, m.Payload)
	return buf
}

func (m *ExtendedAPIClientReq) Decode(buf []byte) error {
	client, rest, err := readUUID(buf)
	if err != nil {
		return err
	}
	verb, rest, err := readUUID(rest)
	if err != nil {
		return err
	}
	offset, rest, err := readUint64(rest)
	if err != nil {
		return err
	}
	payload, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.ClientID = client
	m.VerbID = verb
	m.Offset = offset
	m.Payload = payload
	return nil
}

// ExtendedAPISendResp is the sentinel's reply to a ExtendedAPIClientReq,
// correlated by Offset.
type ExtendedAPISendResp struct {
	Offset  uint64
	Status  uint32
	Payload []byte
}

func (m ExtendedAPISendResp) Encode() []byte {
	buf := appendUint64(nil, m.Offset)
	buf = appendUint32(buf, m.Status)
	buf = appendVarBytes(buf, m.Payload)
	return buf
}

func (m *ExtendedAPISendResp) Decode(buf []byte) error {
	offset, rest, err := readUint64(buf)
	if err != nil {
		return err
	}
	status, rest, err := readUint32(rest)
	if err != nil {
		return err
	}
	payload, _, err := readVarBytes(rest)
	if err != nil {
		return err
	}
	m.Offset = offset
	m.Status = status
	m.Payload = payload
	return nil
}
