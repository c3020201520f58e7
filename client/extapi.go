package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/wire"
)

const offsetExtendedAPIEnable uint32 = 0xF115

// EnableExtendedAPI issues EXTENDED_API_ENABLE. Once the agent
// acknowledges, the session's receive path stops being a single
// correlated request/response and becomes a router keyed on request_id:
// Serve and SendRecv below are the only calls that may read from the
// session afterward.
func (c *Client) EnableExtendedAPI(ctx context.Context) error {
	hdr, _, err := c.roundTrip(ctx, wire.ExtendedAPIEnable, offsetExtendedAPIEnable, nil,
		agentwire.CodeExtendedAPIEnableReq, agentwire.CodeRecvExtendedAPIEnableResp, agentwire.CodeDecodeExtendedAPIEnableHeader)
	if err != nil {
		return err
	}
	if hdr.RequestID != wire.ExtendedAPIEnable {
		return agentwire.NewCodedError(agentwire.CodeExtendedAPIEnableRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return agentwire.NewCodedError(agentwire.CodeExtendedAPIEnableStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetExtendedAPIEnable {
		return agentwire.NewCodedError(agentwire.CodeExtendedAPIEnableOffset, "response offset does not match request")
	}
	return nil
}

const offsetExtendedAPISendRecv uint32 = 0x1226

// SendRecv routes payload to verb on recipient through the agent and
// blocks for the sentinel's reply. The caller side of the extended-API
// pattern; EXTENDED_API_ENABLE must already have been issued.
func (c *Client) SendRecv(ctx context.Context, recipient, verb uuid.UUID, payload []byte) ([]byte, error) {
	req := wire.ExtendedAPISendRecvRequest{RecipientID: recipient, VerbID: verb, Payload: payload}
	hdr, body, err := c.roundTrip(ctx, wire.ExtendedAPISendRecv, offsetExtendedAPISendRecv, req.Encode(),
		agentwire.CodeSendRecvReq, agentwire.CodeRecvSendRecvResp, agentwire.CodeDecodeSendRecvResp)
	if err != nil {
		return nil, err
	}
	if hdr.RequestID != wire.ExtendedAPISendRecv {
		return nil, agentwire.NewCodedError(agentwire.CodeSendRecvRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return nil, agentwire.NewCodedError(agentwire.CodeSendRecvStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetExtendedAPISendRecv {
		return nil, agentwire.NewCodedError(agentwire.CodeSendRecvOffset, "response offset does not match request")
	}
	var resp wire.ExtendedAPISendRecvResponse
	if err := resp.Decode(body); err != nil {
		return nil, agentwire.WrapCodedError(agentwire.CodeDecodeSendRecvData, "decode response body", err)
	}
	return resp.Payload, nil
}

// VerbHandler answers one EXTENDED_API_CLIENTREQ delivered to a
// sentinel, returning the payload to carry back in the matching
// EXTENDED_API_SENDRESP.
type VerbHandler func(ctx context.Context, clientID, verbID uuid.UUID, payload []byte) ([]byte, error)

// Serve loops receiving EXTENDED_API_CLIENTREQ messages and answers each
// with handler's result, correlated by the widened 64-bit offset the
// agent attaches to every CLIENTREQ. Serve returns when a receive fails
// (the transport is closed, ctx's deadline passes, or the session fails),
// or when a CLIENTREQ cannot be decoded or its reply cannot be sent.
// Canceling a ctx that has no deadline does not interrupt a blocked
// receive. The sentinel side of the extended-API pattern;
// EXTENDED_API_ENABLE must already have been issued.
func (c *Client) Serve(ctx context.Context, handler VerbHandler) error {
	for {
		body, err := c.sess.Recv(ctx)
		if err != nil {
			return err
		}
		hdr, body, err := wire.DecodeHeader(body)
		if err != nil {
			return agentwire.WrapCodedError(agentwire.CodeDecodeClientReq, "decode clientreq header", err)
		}
		if hdr.RequestID != wire.ExtendedAPIClientReqID {
			continue
		}
		var req wire.ExtendedAPIClientReq
		if err := req.Decode(body); err != nil {
			return agentwire.WrapCodedError(agentwire.CodeDecodeClientReq, "decode clientreq body", err)
		}

		reply, handlerErr := handler(ctx, req.ClientID, req.VerbID, req.Payload)
		status := wire.StatusOK
		if handlerErr != nil {
			status = uint32(agentwire.Code(handlerErr))
			if status == wire.StatusOK {
				status = 1
			}
		}
		resp := wire.ExtendedAPISendResp{Offset: req.Offset, Status: status, Payload: reply}
		frame := wire.EncodeHeader(nil, wire.Header{RequestID: wire.ExtendedAPISendRespID, Offset: 0, Status: wire.StatusOK})
		frame = append(frame, resp.Encode()...)
		if err := c.sess.Send(ctx, frame); err != nil {
			return agentwire.WrapCodedError(agentwire.CodeSendSendResp, "send sendresp", err)
		}
	}
}
