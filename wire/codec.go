package wire

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
)

var ErrTruncated = errors.New("wire: truncated message")

func appendUUID(dst []byte, id uuid.UUID) []byte {
	return append(dst, id[:]...)
}

func readUUID(buf []byte) (uuid.UUID, []byte, error) {
	if len(buf) < 16 {
		return uuid.UUID{}, nil, ErrTruncated
	}
	var id uuid.UUID
	copy(id[:], buf[:16])
	return id, buf[16:], nil
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func readUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, ErrTruncated
	}
	return binary.BigEndian.Uint32(buf[:4]), buf[4:], nil
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func readUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, ErrTruncated
	}
	return binary.BigEndian.Uint64(buf[:8]), buf[8:], nil
}

// appendVarBytes appends a 4-byte big-endian length prefix followed by b.
func appendVarBytes(dst []byte, b []byte) []byte {
	dst = appendUint32(dst, uint32(len(b)))
	return append(dst, b...)
}

func readVarBytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := readUint32(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < n {
		return nil, nil, ErrTruncated
	}
	return rest[:n], rest[n:], nil
}
