// Package agentwire implements the client side of a binary,
// authenticated-encrypted request/response protocol used to converse with a
// blockchain agent service.
//
// The core is the wire protocol engine: a three-stage handshake that
// establishes a mutually-authenticated shared secret and two directional IV
// counters, and a framed send/receive path that encrypts every request and
// decrypts every response using per-message keys derived from the shared
// secret and a monotonically increasing IV. Higher-level request/response
// helpers live in the client subpackage.
package agentwire
