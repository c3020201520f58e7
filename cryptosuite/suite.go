// Package cryptosuite is the crypto suite façade: it exposes key/nonce
// sizes, key-agreement, authenticated encryption and signature verification
// as a single opaque Suite, the way the rest of agentwire expects without
// naming a concrete algorithm. The concrete algorithms live in velo_v1.go.
package cryptosuite

import "errors"

var (
	ErrKeyDerivationFailed = errors.New("cryptosuite: key derivation failed")
	ErrSealFailed          = errors.New("cryptosuite: seal failed")
	ErrOpenFailed          = errors.New("cryptosuite: open failed (MAC verify failed)")
	ErrInvalidKeySize      = errors.New("cryptosuite: invalid key size")
)

// Direction tags a message with who sent it, mixed into per-message subkey
// derivation so the two directions never share a keystream.
type Direction byte

const (
	DirectionClientToServer Direction = 0x01
	DirectionServerToClient Direction = 0x02
)

// Suite is the opaque crypto suite façade described by spec.md §4.2. This
// spec does not fix the concrete algorithms, only their contracts; VeloV1
// is the one implementation this client ships.
type Suite interface {
	// Sizes, in bytes.
	NonceSize() int
	KeySize() int
	MACSize() int
	SigKeySize() int
	EncKeySize() int
	HashSize() int

	// Fill writes cryptographically strong random bytes into buf.
	Fill(buf []byte) error

	// KEX performs authenticated key agreement, mixing in both nonces, and
	// returns a shared secret of KeySize() bytes. Both sides pass the
	// nonces in the same order, the client's key nonce first.
	KEX(localPriv, remotePub, clientNonce, serverNonce []byte) ([]byte, error)

	// DeriveMessageKey derives the per-message subkey used to seal/open a
	// single framed message, from the session shared secret, the IV for
	// that message, and the direction the message travels.
	DeriveMessageKey(sharedSecret []byte, iv uint64, dir Direction) ([]byte, error)

	// Seal authenticated-encrypts plaintext under key, returning
	// ciphertext||mac.
	Seal(key, plaintext []byte) ([]byte, error)

	// Open authenticated-decrypts sealed (ciphertext||mac) under key.
	// Returns ErrOpenFailed if the MAC does not verify.
	Open(key, sealed []byte) ([]byte, error)

	// Sign produces a signature over msg under the given private signing key.
	Sign(priv, msg []byte) []byte

	// Verify reports whether sig is a valid signature over msg under pub.
	Verify(pub, msg, sig []byte) bool
}

var defaultSuite Suite

// RegisterVeloV1 installs the VeloV1 suite as the package-level default.
// This is the one piece of process-wide state spec.md §5 allows; every
// other piece of state in this module is session-scoped.
func RegisterVeloV1() {
	defaultSuite = NewVeloV1()
}

// Default returns the suite installed by RegisterVeloV1. Callers that want
// an explicit suite reference (recommended for testing) should construct
// one directly with NewVeloV1 instead of relying on the registry.
func Default() Suite {
	return defaultSuite
}
