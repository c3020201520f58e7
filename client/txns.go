package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/wire"
)

const offsetTxnSubmit uint32 = 0x688C

// SubmitTxn submits a transaction certificate for canonization. Grounded
// on submit_and_verify_txn.c. The agent does not return a body on
// success, so only the header is validated.
func (c *Client) SubmitTxn(ctx context.Context, txnID, artifactID uuid.UUID, cert wire.TxnCert) error {
	req := wire.TxnSubmitRequest{TxnID: txnID, ArtifactID: artifactID, Cert: cert}
	hdr, _, err := c.roundTrip(ctx, wire.TransactionSubmit, offsetTxnSubmit, req.Encode(),
		agentwire.CodeSendTxnReq, agentwire.CodeRecvTxnResp, agentwire.CodeDecodeTxnResp)
	if err != nil {
		return err
	}
	if hdr.RequestID != wire.TransactionSubmit {
		return agentwire.NewCodedError(agentwire.CodeTxnSubmitRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return agentwire.NewCodedError(agentwire.CodeTxnSubmitStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetTxnSubmit {
		return agentwire.NewCodedError(agentwire.CodeTxnSubmitOffset, "response offset does not match request")
	}
	return nil
}

// Transaction is the decoded result of TxnByID.
type Transaction struct {
	PrevTxnID  uuid.UUID
	NextTxnID  uuid.UUID
	ArtifactID uuid.UUID
	BlockID    uuid.UUID
	Cert       wire.TxnCert
}

const offsetTxnByID uint32 = 0x799D

// TxnByID requests a transaction's full topology and certificate.
// Grounded on get_and_verify_txn.c.
func (c *Client) TxnByID(ctx context.Context, txnID uuid.UUID) (Transaction, error) {
	req := wire.TxnByIDRequest{TxnID: txnID}
	hdr, body, err := c.roundTrip(ctx, wire.TransactionByIDGet, offsetTxnByID, req.Encode(),
		agentwire.CodeSendTxnReq, agentwire.CodeRecvTxnResp, agentwire.CodeDecodeTxnResp)
	if err != nil {
		return Transaction{}, err
	}
	if hdr.RequestID != wire.TransactionByIDGet {
		return Transaction{}, agentwire.NewCodedError(agentwire.CodeGetTxnRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return Transaction{}, agentwire.NewCodedError(agentwire.CodeGetTxnStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetTxnByID {
		return Transaction{}, agentwire.NewCodedError(agentwire.CodeGetTxnOffset, "response offset does not match request")
	}
	var resp wire.TxnByIDResponse
	if err := resp.Decode(body); err != nil {
		return Transaction{}, agentwire.WrapCodedError(agentwire.CodeDecodeTxnRespData, "decode response body", err)
	}
	return Transaction{
		PrevTxnID:  resp.PrevTxnID,
		NextTxnID:  resp.NextTxnID,
		ArtifactID: resp.ArtifactID,
		BlockID:    resp.BlockID,
		Cert:       wire.TxnCert(resp.TxnCert),
	}, nil
}

const offsetTxnIDNext uint32 = 0x8AAE

// TxnIDNext navigates forward one transaction. Grounded on an
// unreleased get_and_verify_next_txn_id.c counterpart to
// get_and_verify_next_block_id.c.
func (c *Client) TxnIDNext(ctx context.Context, txnID uuid.UUID) (uuid.UUID, error) {
	req := wire.TxnIDNextRequest{TxnID: txnID}
	hdr, body, err := c.roundTrip(ctx, wire.TransactionIDGetNext, offsetTxnIDNext, req.Encode(),
		agentwire.CodeSendNextTxnIDReq, agentwire.CodeRecvNextTxnIDResp, agentwire.CodeDecodeNextTxnID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.TransactionIDGetNext {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextTxnIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextTxnIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetTxnIDNext {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextTxnIDOffset, "response offset does not match request")
	}
	var resp wire.TxnIDNextResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeNextTxnIDData, "decode response body", err)
	}
	return resp.NextTxnID, nil
}

const offsetTxnIDPrev uint32 = 0x9BBF

// TxnIDPrev navigates backward one transaction. Grounded on
// get_and_verify_prev_txn.c.
func (c *Client) TxnIDPrev(ctx context.Context, txnID uuid.UUID) (uuid.UUID, error) {
	req := wire.TxnIDPrevRequest{TxnID: txnID}
	hdr, body, err := c.roundTrip(ctx, wire.TransactionIDGetPrev, offsetTxnIDPrev, req.Encode(),
		agentwire.CodeSendPrevTxnIDReq, agentwire.CodeRecvPrevTxnIDResp, agentwire.CodeDecodePrevTxnID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.TransactionIDGetPrev {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevTxnIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevTxnIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetTxnIDPrev {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevTxnIDOffset, "response offset does not match request")
	}
	var resp wire.TxnIDPrevResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodePrevTxnIDData, "decode response body", err)
	}
	return resp.PrevTxnID, nil
}

const offsetTxnBlockID uint32 = 0xACC0

// TxnBlockID resolves the block a transaction was canonized into.
// Grounded on an unreleased get_and_verify_txn_block_id.c.
func (c *Client) TxnBlockID(ctx context.Context, txnID uuid.UUID) (uuid.UUID, error) {
	req := wire.TxnBlockIDRequest{TxnID: txnID}
	hdr, body, err := c.roundTrip(ctx, wire.TransactionIDGetBlockID, offsetTxnBlockID, req.Encode(),
		agentwire.CodeSendTxnBlockIDReq, agentwire.CodeRecvTxnBlockIDResp, agentwire.CodeDecodeTxnBlockID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.TransactionIDGetBlockID {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeTxnBlockIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeTxnBlockIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetTxnBlockID {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeTxnBlockIDOffset, "response offset does not match request")
	}
	var resp wire.TxnBlockIDResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeTxnBlockIDData, "decode response body", err)
	}
	return resp.BlockID, nil
}

const offsetArtifactFirstTxnID uint32 = 0xBDD1

// ArtifactFirstTxnID resolves an artifact's earliest transaction.
// Grounded on get_and_verify_artifact_first_txn_id.c.
func (c *Client) ArtifactFirstTxnID(ctx context.Context, artifactID uuid.UUID) (uuid.UUID, error) {
	req := wire.ArtifactFirstTxnIDRequest{ArtifactID: artifactID}
	hdr, body, err := c.roundTrip(ctx, wire.ArtifactFirstTxnByIDGet, offsetArtifactFirstTxnID, req.Encode(),
		agentwire.CodeSendFirstTxnIDReq, agentwire.CodeRecvFirstTxnIDResp, agentwire.CodeDecodeFirstTxnID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.ArtifactFirstTxnByIDGet {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeFirstTxnIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeFirstTxnIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetArtifactFirstTxnID {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeFirstTxnIDOffset, "response offset does not match request")
	}
	var resp wire.ArtifactFirstTxnIDResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeFirstTxnIDData, "decode response body", err)
	}
	return resp.FirstTxnID, nil
}

const offsetArtifactLastTxnID uint32 = 0xCEE2

// ArtifactLastTxnID resolves an artifact's latest transaction. Grounded
// on get_and_verify_artifact_last_txn_id.c.
func (c *Client) ArtifactLastTxnID(ctx context.Context, artifactID uuid.UUID) (uuid.UUID, error) {
	req := wire.ArtifactLastTxnIDRequest{ArtifactID: artifactID}
	hdr, body, err := c.roundTrip(ctx, wire.ArtifactLastTxnByIDGet, offsetArtifactLastTxnID, req.Encode(),
		agentwire.CodeSendLastTxnIDReq, agentwire.CodeRecvLastTxnIDResp, agentwire.CodeDecodeLastTxnID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.ArtifactLastTxnByIDGet {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLastTxnIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLastTxnIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetArtifactLastTxnID {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLastTxnIDOffset, "response offset does not match request")
	}
	var resp wire.ArtifactLastTxnIDResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeLastTxnIDData, "decode response body", err)
	}
	return resp.LastTxnID, nil
}

// SubmitAndVerifyTxn submits txnID/artifactID/cert and treats any
// successful, zero-status response as verified: per spec, the agent does
// not return a body on success, so this helper does not inspect the
// response beyond the header (SubmitTxn already does exactly that).
func (c *Client) SubmitAndVerifyTxn(ctx context.Context, txnID, artifactID uuid.UUID, cert wire.TxnCert) error {
	return c.SubmitTxn(ctx, txnID, artifactID, cert)
}
