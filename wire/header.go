// Package wire implements the serialization contracts for the agentwire
// request/response envelope and the ~20 message kinds that travel inside
// it, grounded on portal/corev2/serdes/packet.go's hand-rolled
// pos-cursor binary.BigEndian Serialize/Deserialize style.
package wire

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the fixed size of the request/response envelope header
// that begins every decrypted post-handshake message.
const HeaderSize = 12

// ErrShortHeader is returned by DecodeHeader when fewer than HeaderSize
// bytes are available (spec.md §8's boundary case).
var ErrShortHeader = errors.New("wire: response shorter than header")

// Header is the canonical (request_id, offset, status) triad prepended to
// every decrypted response body (spec.md §4.6).
type Header struct {
	RequestID uint32
	Offset    uint32
	Status    uint32
}

// EncodeHeader appends h's wire encoding to dst and returns the result.
func EncodeHeader(dst []byte, h Header) []byte {
	var buf [HeaderSize]byte
	binary.BigEndian.PutUint32(buf[0:4], h.RequestID)
	binary.BigEndian.PutUint32(buf[4:8], h.Offset)
	binary.BigEndian.PutUint32(buf[8:12], h.Status)
	return append(dst, buf[:]...)
}

// DecodeHeader reads a Header from the front of buf and returns the header
// plus the remaining body bytes.
func DecodeHeader(buf []byte) (Header, []byte, error) {
	if len(buf) < HeaderSize {
		return Header{}, nil, ErrShortHeader
	}
	h := Header{
		RequestID: binary.BigEndian.Uint32(buf[0:4]),
		Offset:    binary.BigEndian.Uint32(buf[4:8]),
		Status:    binary.BigEndian.Uint32(buf[8:12]),
	}
	return h, buf[HeaderSize:], nil
}
