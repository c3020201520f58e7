package wire

// TxnCert is an opaque, signed transaction certificate blob. Its internal
// field structure is produced and verified by a supplied certificate
// parser (spec.md §4.2's "certificate parser" collaborator); agentwire
// only ever moves it as an uninterpreted byte string, except when
// comparing two of them for equality.
type TxnCert []byte

// BlockCert is an opaque, signed block certificate blob that additionally
// carries a wrapped tuple of the transaction certificates canonized into
// that block. Supplemented from original_source's
// create_transaction_cert.c/create_next_transaction_cert.c, which build
// the certificate's "wrapped transaction tuple" field, and
// find_transaction_in_block.c, which walks that tuple doing byte-exact
// comparisons against a target transaction certificate.
//
// DecodeBlockCert treats the whole block certificate as the tuple of
// embedded transaction certificates, each stored with its own 4-byte
// big-endian length prefix exactly like every other variable field on
// this wire. Raw keeps the complete undecoded buffer, used for
// re-transmission and future parsing.
type BlockCert struct {
	Raw      []byte
	TxnCerts []TxnCert
}

// DecodeBlockCert parses buf's wrapped transaction tuple. It does not
// validate any signature; that is the certificate parser's job and is
// out of scope here (spec.md §4.2).
func DecodeBlockCert(buf []byte) (BlockCert, error) {
	bc := BlockCert{Raw: buf}
	rest := buf
	for len(rest) > 0 {
		blob, next, err := readVarBytes(rest)
		if err != nil {
			return BlockCert{}, err
		}
		bc.TxnCerts = append(bc.TxnCerts, TxnCert(blob))
		rest = next
	}
	return bc, nil
}

// EncodeBlockCert serializes bc's transaction tuple in the wrapped format
// DecodeBlockCert expects, ignoring bc.Raw.
func EncodeBlockCert(bc BlockCert) []byte {
	var buf []byte
	for _, tc := range bc.TxnCerts {
		buf = appendVarBytes(buf, tc)
	}
	return buf
}
