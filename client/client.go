// Package client implements the higher-level call helpers that encode a
// request body, issue one encrypted send, await one encrypted response,
// and decode it — the single recipe every helper follows, per the
// original's get_and_verify_*/send_and_verify_* family of helpers.
package client

import (
	"context"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/session"
	"github.com/veloagent/agentwire/wire"
)

// Client is a thin wrapper around an established Session exposing one
// method per agent verb. Not safe for concurrent use — see Session.
type Client struct {
	sess *session.Session
}

// New wraps an established session. The caller retains ownership of sess
// and must Close it when done.
func New(sess *session.Session) *Client {
	return &Client{sess: sess}
}

// Session returns the underlying session, e.g. to Close it.
func (c *Client) Session() *session.Session { return c.sess }

// roundTrip performs the part of the recipe common to every helper: send
// a request with the given kind/offset/body, receive the response, and
// decode its header. Per-helper request-id/offset/status validation and
// body decoding is left to the caller so each helper can report a
// distinct error code, per the original's per-helper error taxonomy.
func (c *Client) roundTrip(ctx context.Context, requestID, offset uint32, body []byte, sendErrCode, recvErrCode, decodeHdrErrCode int) (wire.Header, []byte, error) {
	req := wire.EncodeHeader(nil, wire.Header{RequestID: requestID, Offset: offset, Status: wire.StatusOK})
	req = append(req, body...)

	if err := c.sess.Send(ctx, req); err != nil {
		return wire.Header{}, nil, agentwire.WrapCodedError(sendErrCode, "send request", err)
	}

	respBody, err := c.sess.Recv(ctx)
	if err != nil {
		return wire.Header{}, nil, agentwire.WrapCodedError(recvErrCode, "receive response", err)
	}

	hdr, respBody, err := wire.DecodeHeader(respBody)
	if err != nil {
		return wire.Header{}, nil, agentwire.WrapCodedError(decodeHdrErrCode, "decode response header", err)
	}
	return hdr, respBody, nil
}
