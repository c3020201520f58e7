package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/wire"
)

const offsetLatestBlockID uint32 = 0x1337

// LatestBlockID requests the ledger's current block id. Grounded on
// get_and_verify_last_block_id.c.
func (c *Client) LatestBlockID(ctx context.Context) (uuid.UUID, error) {
	hdr, body, err := c.roundTrip(ctx, wire.LatestBlockIDGet, offsetLatestBlockID, nil,
		agentwire.CodeSendLatestBlockIDReq, agentwire.CodeRecvLatestBlockIDResp, agentwire.CodeDecodeLatestBlockID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.LatestBlockIDGet {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLatestBlockIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLatestBlockIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetLatestBlockID {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeLatestBlockIDOffset, "response offset does not match request")
	}
	var resp wire.LatestBlockIDResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeLatestBlockIDData, "decode response body", err)
	}
	return resp.BlockID, nil
}

const offsetBlockIDByHeight uint32 = 0x2448

// BlockIDByHeight resolves a block id by its height. Grounded on
// get_and_verify_block_id_by_height.c.
func (c *Client) BlockIDByHeight(ctx context.Context, height uint64) (uuid.UUID, error) {
	req := wire.BlockIDByHeightRequest{Height: height}
	hdr, body, err := c.roundTrip(ctx, wire.BlockIDByHeightGet, offsetBlockIDByHeight, req.Encode(),
		agentwire.CodeSendBlockIDByHeightReq, agentwire.CodeRecvBlockIDByHeightResp, agentwire.CodeDecodeBlockIDByHeight)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.BlockIDByHeightGet {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeBlockIDByHeightRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeBlockIDByHeightStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetBlockIDByHeight {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeBlockIDByHeightOffset, "response offset does not match request")
	}
	var resp wire.BlockIDByHeightResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeBlockIDByHeightData, "decode response body", err)
	}
	return resp.BlockID, nil
}

// Block is the decoded result of BlockByID: a block's neighbors plus its
// opaque, parsed certificate.
type Block struct {
	PrevBlockID uuid.UUID
	NextBlockID uuid.UUID
	Cert        wire.BlockCert
}

const offsetBlockByID uint32 = 0x3559

// BlockByID requests a block's topology and certificate. Grounded on
// get_and_verify_block.c.
func (c *Client) BlockByID(ctx context.Context, blockID uuid.UUID) (Block, error) {
	req := wire.BlockByIDRequest{BlockID: blockID}
	hdr, body, err := c.roundTrip(ctx, wire.BlockByIDGet, offsetBlockByID, req.Encode(),
		agentwire.CodeSendBlockReq, agentwire.CodeRecvBlockResp, agentwire.CodeDecodeBlockResp)
	if err != nil {
		return Block{}, err
	}
	if hdr.RequestID != wire.BlockByIDGet {
		return Block{}, agentwire.NewCodedError(agentwire.CodeGetBlockRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return Block{}, agentwire.NewCodedError(agentwire.CodeGetBlockStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetBlockByID {
		return Block{}, agentwire.NewCodedError(agentwire.CodeGetBlockOffset, "response offset does not match request")
	}
	var resp wire.BlockByIDResponse
	if err := resp.Decode(body); err != nil {
		return Block{}, agentwire.WrapCodedError(agentwire.CodeDecodeBlockRespData, "decode response body", err)
	}
	cert, err := wire.DecodeBlockCert(resp.BlockCert)
	if err != nil {
		return Block{}, agentwire.WrapCodedError(agentwire.CodeDecodeBlockRespData, "decode block certificate", err)
	}
	return Block{PrevBlockID: resp.PrevBlockID, NextBlockID: resp.NextBlockID, Cert: cert}, nil
}

const offsetBlockIDNext uint32 = 0x466A

// BlockIDNext navigates forward one block. Grounded on
// get_and_verify_next_block_id.c.
func (c *Client) BlockIDNext(ctx context.Context, blockID uuid.UUID) (uuid.UUID, error) {
	req := wire.BlockIDNextRequest{BlockID: blockID}
	hdr, body, err := c.roundTrip(ctx, wire.BlockIDGetNext, offsetBlockIDNext, req.Encode(),
		agentwire.CodeSendNextBlockIDReq, agentwire.CodeRecvNextBlockIDResp, agentwire.CodeDecodeNextBlockID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.BlockIDGetNext {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextBlockIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextBlockIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetBlockIDNext {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodeNextBlockIDOffset, "response offset does not match request")
	}
	var resp wire.BlockIDNextResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodeNextBlockIDData, "decode response body", err)
	}
	return resp.NextBlockID, nil
}

const offsetBlockIDPrev uint32 = 0x577B

// BlockIDPrev navigates backward one block. Grounded on
// get_and_verify_prev_block_id.c.
func (c *Client) BlockIDPrev(ctx context.Context, blockID uuid.UUID) (uuid.UUID, error) {
	req := wire.BlockIDPrevRequest{BlockID: blockID}
	hdr, body, err := c.roundTrip(ctx, wire.BlockIDGetPrev, offsetBlockIDPrev, req.Encode(),
		agentwire.CodeSendPrevBlockIDReq, agentwire.CodeRecvPrevBlockIDResp, agentwire.CodeDecodePrevBlockID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if hdr.RequestID != wire.BlockIDGetPrev {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevBlockIDRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevBlockIDStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetBlockIDPrev {
		return uuid.UUID{}, agentwire.NewCodedError(agentwire.CodePrevBlockIDOffset, "response offset does not match request")
	}
	var resp wire.BlockIDPrevResponse
	if err := resp.Decode(body); err != nil {
		return uuid.UUID{}, agentwire.WrapCodedError(agentwire.CodeDecodePrevBlockIDData, "decode response body", err)
	}
	return resp.PrevBlockID, nil
}
