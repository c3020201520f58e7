package client

import (
	"crypto/subtle"

	"github.com/veloagent/agentwire/wire"
)

// FindTransactionInBlock reports whether target appears in block's
// wrapped transaction tuple. Local-only: no wire traffic. Grounded on
// find_transaction_in_block.c, including its use of a constant-time
// comparison (there, crypto_memcmp; here, crypto/subtle.ConstantTimeCompare)
// since a transaction certificate is caller-supplied and potentially
// attacker-influenced.
func FindTransactionInBlock(block wire.BlockCert, target wire.TxnCert) bool {
	for _, tc := range block.TxnCerts {
		if len(tc) == len(target) && subtle.ConstantTimeCompare(tc, target) == 1 {
			return true
		}
	}
	return false
}
