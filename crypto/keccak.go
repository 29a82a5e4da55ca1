// Package crypto provides the hash primitive the EVM core needs: Keccak-256,
// used for KECCAK256, jumpdest-independent code hashing, and CREATE/CREATE2
// address derivation.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/evmts/xvi-sub001/core/types"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash returns the Keccak-256 digest of the concatenation of data
// as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
