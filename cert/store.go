// Package cert loads signing/encryption key material for agentwire
// entities from files. Every entity (client, agent/server, sentinel) is
// identified by a 128-bit artifact id plus an Ed25519 signing keypair and
// an X25519 encryption keypair; a private entity also holds its private
// halves.
//
// Grounded on the stat/open/read/decode error taxonomy of
// original_source/include/helpers/cert_helpers.h and status_codes.h's
// ERROR_PRIVATE_CERT_*/ERROR_PUBLIC_CERT_* families, and on
// relaydns/core/cryptoops/sig.go's ed25519-keypair-plus-derived-id
// Credential shape.
package cert

import (
	"os"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cryptosuite"
)

// PublicEntity is the public half of an agentwire identity: an artifact id
// plus public signing and encryption keys.
type PublicEntity struct {
	ArtifactID  uuid.UUID
	SignPublic  []byte
	EncPublic   []byte
}

// PrivateEntity is a PublicEntity plus the matching private halves.
type PrivateEntity struct {
	PublicEntity
	SignPrivate []byte
	EncPrivate  []byte
}

// Zero overwrites every private key byte with zero. Callers must call Zero
// on every PrivateEntity they loaded once it is no longer needed, per
// spec.md §3's ownership rule that key material is zeroed on release.
func (p *PrivateEntity) Zero() {
	if p == nil {
		return
	}
	for i := range p.SignPrivate {
		p.SignPrivate[i] = 0
	}
	for i := range p.EncPrivate {
		p.EncPrivate[i] = 0
	}
}

// LoadPrivateCert stats, reads and decodes a private entity certificate
// file. Errors distinguish stat/open/read/parse; a failed buffer
// allocation is not reported as a separate error. The file buffer is
// zeroed before returning, on every path.
func LoadPrivateCert(path string, suite cryptosuite.Suite) (*PrivateEntity, error) {
	buf, err := statReadFile(path,
		agentwire.CodePrivateCertStat,
		agentwire.CodePrivateCertFileOpen,
		agentwire.CodePrivateCertFileRead)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range buf {
			buf[i] = 0
		}
	}()

	ent, err := decodePrivateCert(buf, suite)
	if err != nil {
		return nil, agentwire.WrapCodedError(agentwire.CodePrivateCertFileParse, "parse private cert", err)
	}
	return ent, nil
}

// LoadPublicCert stats, reads and decodes a public entity certificate file.
func LoadPublicCert(path string, suite cryptosuite.Suite) (*PublicEntity, error) {
	buf, err := statReadFile(path,
		agentwire.CodePublicCertStat,
		agentwire.CodePublicCertFileOpen,
		agentwire.CodePublicCertFileRead)
	if err != nil {
		return nil, err
	}

	ent, err := decodePublicCert(buf, suite)
	if err != nil {
		return nil, agentwire.WrapCodedError(agentwire.CodePublicCertFileParse, "parse public cert", err)
	}
	return ent, nil
}

// statReadFile stats path (to distinguish a missing/unreadable file from a
// parse failure), then reads it whole. Every intermediate handle is closed
// on every exit path.
func statReadFile(path string, statCode, openCode, readCode int) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, agentwire.WrapCodedError(statCode, "stat cert file", err)
	}
	if info.IsDir() {
		return nil, agentwire.NewCodedError(statCode, "cert path is a directory: "+path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, agentwire.WrapCodedError(openCode, "open cert file", err)
	}
	defer f.Close()

	buf := make([]byte, info.Size())
	if _, err := readFull(f, buf); err != nil {
		return nil, agentwire.WrapCodedError(readCode, "read cert file", err)
	}
	return buf, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
