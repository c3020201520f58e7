// Package frame reads and writes length-prefixed byte segments on a
// reliable ordered byte stream. It is oblivious to the contents of the
// segment — encryption, if any, is applied by the caller before WriteFrame
// and after ReadFrame.
//
// Grounded on portal/core/cryptoops/handshaker.go's
// writeLengthPrefixed/readLengthPrefixed and its maxRawPacketSize bound,
// generalized to cover both the handshake's plaintext frames and the
// post-handshake ciphertext frames.
package frame

import (
	"encoding/binary"
	"errors"
	"io"
)

// DefaultMaxFrameSize bounds the length prefix read accepts, rejecting a
// hostile or corrupt peer before an attacker-controlled length causes an
// unbounded allocation.
const DefaultMaxFrameSize = 1 << 24

var (
	ErrFrameTooLarge = errors.New("frame: length exceeds configured maximum")
	ErrShortWrite    = errors.New("frame: short write")
)

// WriteFrame writes a 4-byte big-endian length prefix followed by b.
// Partial writes are retried internally; a write that fails returns the
// writer's error unchanged, and a write that makes no progress without an
// error returns ErrShortWrite.
func WriteFrame(w io.Writer, b []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))

	if err := writeFull(w, lenBuf[:]); err != nil {
		return err
	}
	return writeFull(w, b)
}

// ReadFrame reads a 4-byte big-endian length prefix n, then exactly n
// bytes. maxLen rejects a hostile or corrupt peer's oversized length
// claim; pass DefaultMaxFrameSize unless the caller has a narrower bound.
func ReadFrame(r io.Reader, maxLen uint32) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxLen {
		return nil, ErrFrameTooLarge
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFull(w io.Writer, b []byte) error {
	total := 0
	for total < len(b) {
		n, err := w.Write(b[total:])
		total += n
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrShortWrite
		}
	}
	return nil
}
