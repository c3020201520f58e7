package cert

import (
	"errors"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire/cryptosuite"
)

// Certificate wire format, a self-signed TLV grounded on the hand-rolled
// pos-cursor binary.BigEndian style of portal/corev2/serdes/packet.go:
//
//	magic       [4]byte  "VCRT"
//	version     byte     1
//	kind        byte     0x01 = private, 0x02 = public
//	artifact_id [16]byte
//	sign_pub    [32]byte
//	enc_pub     [32]byte
//	sign_priv   [64]byte (private only)
//	enc_priv    [32]byte (private only)
//	signature   [64]byte (Ed25519 self-signature over everything above)
var (
	certMagic        = [4]byte{'V', 'C', 'R', 'T'}
	certVersion byte  = 1
	kindPrivate byte  = 1
	kindPublic  byte  = 2

	ErrBadMagic       = errors.New("cert: bad magic")
	ErrBadVersion     = errors.New("cert: unsupported version")
	ErrBadKind        = errors.New("cert: unexpected certificate kind")
	ErrShortCert      = errors.New("cert: truncated certificate")
	ErrBadSignature   = errors.New("cert: self-signature verification failed")
)

const (
	signPubSize  = 32
	encPubSize   = 32
	signPrivSize = 64
	encPrivSize  = 32
	sigSize      = 64

	publicCertSize  = 4 + 1 + 1 + 16 + signPubSize + encPubSize + sigSize
	privateCertSize = 4 + 1 + 1 + 16 + signPubSize + encPubSize + signPrivSize + encPrivSize + sigSize
)

func decodePublicCert(buf []byte, suite cryptosuite.Suite) (*PublicEntity, error) {
	if len(buf) != publicCertSize {
		return nil, ErrShortCert
	}
	if err := checkHeader(buf, kindPublic); err != nil {
		return nil, err
	}

	pos := 6
	id, _ := uuid.FromBytes(buf[pos : pos+16])
	pos += 16
	signPub := clone(buf[pos : pos+signPubSize])
	pos += signPubSize
	encPub := clone(buf[pos : pos+encPubSize])
	pos += encPubSize

	signed := buf[:pos]
	sig := buf[pos : pos+sigSize]
	if !suite.Verify(signPub, signed, sig) {
		return nil, ErrBadSignature
	}

	return &PublicEntity{ArtifactID: id, SignPublic: signPub, EncPublic: encPub}, nil
}

func decodePrivateCert(buf []byte, suite cryptosuite.Suite) (*PrivateEntity, error) {
	if len(buf) != privateCertSize {
		return nil, ErrShortCert
	}
	if err := checkHeader(buf, kindPrivate); err != nil {
		return nil, err
	}

	pos := 6
	id, _ := uuid.FromBytes(buf[pos : pos+16])
	pos += 16
	signPub := clone(buf[pos : pos+signPubSize])
	pos += signPubSize
	encPub := clone(buf[pos : pos+encPubSize])
	pos += encPubSize
	signPriv := clone(buf[pos : pos+signPrivSize])
	pos += signPrivSize
	encPriv := clone(buf[pos : pos+encPrivSize])
	pos += encPrivSize

	signed := buf[:pos]
	sig := buf[pos : pos+sigSize]
	if !suite.Verify(signPub, signed, sig) {
		return nil, ErrBadSignature
	}

	return &PrivateEntity{
		PublicEntity: PublicEntity{ArtifactID: id, SignPublic: signPub, EncPublic: encPub},
		SignPrivate:  signPriv,
		EncPrivate:   encPriv,
	}, nil
}

func checkHeader(buf []byte, wantKind byte) error {
	if len(buf) < 6 {
		return ErrShortCert
	}
	if [4]byte(buf[0:4]) != certMagic {
		return ErrBadMagic
	}
	if buf[4] != certVersion {
		return ErrBadVersion
	}
	if buf[5] != wantKind {
		return ErrBadKind
	}
	return nil
}

func encodePublic(id uuid.UUID, signPub, encPub []byte, suite cryptosuite.Suite, signPriv []byte) []byte {
	buf := make([]byte, 0, publicCertSize)
	buf = appendHeader(buf, kindPublic)
	buf = append(buf, id[:]...)
	buf = append(buf, signPub...)
	buf = append(buf, encPub...)
	sig := suite.Sign(signPriv, buf)
	buf = append(buf, sig...)
	return buf
}

func encodePrivate(id uuid.UUID, signPub, encPub, signPriv, encPriv []byte, suite cryptosuite.Suite) []byte {
	buf := make([]byte, 0, privateCertSize)
	buf = appendHeader(buf, kindPrivate)
	buf = append(buf, id[:]...)
	buf = append(buf, signPub...)
	buf = append(buf, encPub...)
	buf = append(buf, signPriv...)
	buf = append(buf, encPriv...)
	sig := suite.Sign(signPriv, buf)
	buf = append(buf, sig...)
	return buf
}

func appendHeader(buf []byte, kind byte) []byte {
	buf = append(buf, certMagic[:]...)
	buf = append(buf, certVersion, kind)
	return buf
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
