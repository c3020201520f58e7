package client

import (
	"context"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/wire"
)

const offsetStatus uint32 = 0xDFF3

// Status issues STATUS_GET and returns the agent's reported status code
// from the response header. An empty request and response body; the
// status lives entirely in the header, per spec.
func (c *Client) Status(ctx context.Context) (uint32, error) {
	hdr, _, err := c.roundTrip(ctx, wire.StatusGet, offsetStatus, nil,
		agentwire.CodeSendStatusReq, agentwire.CodeRecvStatusResp, agentwire.CodeDecodeStatus)
	if err != nil {
		return 0, err
	}
	if hdr.RequestID != wire.StatusGet {
		return 0, agentwire.NewCodedError(agentwire.CodeStatusRequestID, "unexpected response request id")
	}
	if hdr.Offset != offsetStatus {
		return 0, agentwire.NewCodedError(agentwire.CodeStatusOffset, "response offset does not match request")
	}
	return hdr.Status, nil
}

const offsetClose uint32 = 0xE004

// Close issues CLOSE so the agent can release its side of the session
// cleanly, then closes the underlying transport. Grounded on the
// original's status_close example: CLOSE is the only verb that is
// expected to end the connection rather than keep it open for further
// calls.
func (c *Client) Close(ctx context.Context) error {
	hdr, _, err := c.roundTrip(ctx, wire.Close, offsetClose, nil,
		agentwire.CodeSendCloseReq, agentwire.CodeRecvCloseResp, agentwire.CodeDecodeClose)
	if err != nil {
		_ = c.sess.Close()
		return err
	}
	closeErr := c.sess.Close()
	if hdr.RequestID != wire.Close {
		return agentwire.NewCodedError(agentwire.CodeCloseRequestID, "unexpected response request id")
	}
	if hdr.Status != wire.StatusOK {
		return agentwire.NewCodedError(agentwire.CodeCloseStatus, "agent returned non-zero status")
	}
	if hdr.Offset != offsetClose {
		return agentwire.NewCodedError(agentwire.CodeCloseOffset, "response offset does not match request")
	}
	return closeErr
}
