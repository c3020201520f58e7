package cryptosuite

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

const (
	veloNonceSize = 32 // X25519 key-agreement nonce
	veloKeySize   = 32 // shared secret / subkey size
	veloMACSize   = chacha20poly1305.Overhead

	// veloKEXInfo is mixed into the HKDF expand step of the key-agreement,
	// binding the derived shared secret to this suite.
	veloKEXInfo = "agentwire/velo-v1/kex"

	// veloMsgKeyInfoPrefix is the HKDF info prefix for per-message subkeys,
	// grounded on portal/corev2/kcpwrapper/session.go's DeriveKeys, which
	// derives directional keys from a label+context byte string via HKDF.
	veloMsgKeyInfoPrefix = "agentwire/velo-v1/msg"
)

// veloV1 is the concrete crypto suite: X25519 key agreement, HKDF-SHA256 key
// derivation, ChaCha20-Poly1305 AEAD, Ed25519 signatures. Grounded on
// relaydns/core/cryptoops/handshaker.go (X25519 + HKDF + ChaCha20Poly1305)
// and portal/corev2/kcpwrapper/session.go (HKDF label+context derivation).
type veloV1 struct{}

// NewVeloV1 constructs the VeloV1 suite directly, without touching the
// package-level registry. Prefer this in tests; use RegisterVeloV1 +
// Default() for the one process-wide suite instance a real program uses.
func NewVeloV1() Suite {
	return veloV1{}
}

func (veloV1) NonceSize() int  { return veloNonceSize }
func (veloV1) KeySize() int    { return veloKeySize }
func (veloV1) MACSize() int    { return veloMACSize }
func (veloV1) SigKeySize() int { return ed25519.PublicKeySize }
func (veloV1) EncKeySize() int { return curve25519.PointSize }
func (veloV1) HashSize() int   { return sha256.Size }

func (veloV1) Fill(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

// KEX computes shared = X25519(localPriv, remotePub), then runs it through
// HKDF-SHA256 with both nonces as salt (order: clientNonce||serverNonce).
// The salt follows the handshake's fixed wire order rather than
// "local/remote", so both sides pass the client's key nonce first and the
// server's second and derive the same secret, matching
// relaydns/core/cryptoops/handshaker.go's salt construction.
func (v veloV1) KEX(localPriv, remotePub, clientNonce, serverNonce []byte) ([]byte, error) {
	if len(localPriv) != curve25519.ScalarSize {
		return nil, ErrInvalidKeySize
	}
	raw, err := curve25519.X25519(localPriv, remotePub)
	if err != nil {
		return nil, ErrKeyDerivationFailed
	}

	salt := make([]byte, 0, len(clientNonce)+len(serverNonce))
	salt = append(salt, clientNonce...)
	salt = append(salt, serverNonce...)

	r := hkdf.New(sha256.New, raw, salt, []byte(veloKEXInfo))
	shared := make([]byte, v.KeySize())
	if _, err := io.ReadFull(r, shared); err != nil {
		return nil, ErrKeyDerivationFailed
	}
	return shared, nil
}

func (v veloV1) DeriveMessageKey(sharedSecret []byte, iv uint64, dir Direction) ([]byte, error) {
	if len(sharedSecret) != v.KeySize() {
		return nil, ErrInvalidKeySize
	}
	info := make([]byte, 0, len(veloMsgKeyInfoPrefix)+9)
	info = append(info, []byte(veloMsgKeyInfoPrefix)...)
	info = append(info, byte(dir))
	info = appendUint64BE(info, iv)

	r := hkdf.New(sha256.New, sharedSecret, nil, info)
	key := make([]byte, v.KeySize())
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, ErrKeyDerivationFailed
	}
	return key, nil
}

// Seal uses a zero nonce because the key is unique per message (derived
// from the shared secret and the monotonic IV) — there is never a second
// message sealed under the same key, so a fixed nonce is safe here.
func (veloV1) Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrSealFailed
	}
	nonce := make([]byte, aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

func (veloV1) Open(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrOpenFailed
	}
	nonce := make([]byte, aead.NonceSize())
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func (veloV1) Sign(priv, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv), msg)
}

func (veloV1) Verify(pub, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// GenerateX25519Keypair generates a fresh X25519 keypair, used by
// cert.GeneratePrivateCert for an entity's encryption keys.
func GenerateX25519Keypair() (priv, pub []byte, err error) {
	priv = make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(priv); err != nil {
		return nil, nil, err
	}
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func appendUint64BE(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
