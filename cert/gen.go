package cert

import (
	"crypto/ed25519"

	"github.com/google/uuid"

	"github.com/veloagent/agentwire/cryptosuite"
)

// GeneratePrivateCert creates a fresh self-signed private entity, suitable
// for test fixtures and the example programs' first-run bootstrap. This is
// a capability the original C tooling left to an offline certificate
// authority, out of scope for this spec, but that any client SDK in this
// corpus's style ships so its examples and tests can run standalone.
func GeneratePrivateCert(suite cryptosuite.Suite) (*PrivateEntity, error) {
	signPub, signPriv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	encPriv, encPub, err := cryptosuite.GenerateX25519Keypair()
	if err != nil {
		return nil, err
	}

	return &PrivateEntity{
		PublicEntity: PublicEntity{
			ArtifactID: uuid.New(),
			SignPublic: signPub,
			EncPublic:  encPub,
		},
		SignPrivate: signPriv,
		EncPrivate:  encPriv,
	}, nil
}

// Public returns the public half of ent, suitable for WritePublicCert.
func Public(ent *PrivateEntity) *PublicEntity {
	return &ent.PublicEntity
}

// WritePrivateCert encodes ent as a private certificate, self-signed with
// its own signing key.
func WritePrivateCert(ent *PrivateEntity, suite cryptosuite.Suite) []byte {
	return encodePrivate(ent.ArtifactID, ent.SignPublic, ent.EncPublic, ent.SignPrivate, ent.EncPrivate, suite)
}

// WritePublicCert encodes ent as a public certificate. The signature is
// produced with signPriv (the originating private entity's signing key) —
// a public certificate is not self-signed by a key it doesn't hold.
func WritePublicCert(ent *PublicEntity, signPriv []byte, suite cryptosuite.Suite) []byte {
	return encodePublic(ent.ArtifactID, ent.SignPublic, ent.EncPublic, suite, signPriv)
}
