package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

// Host abstracts the persistent account/storage backing the core does not
// own. The core never persists state itself; every balance, nonce, code and
// storage slot read or write is routed through Host so the caller can back
// it with a trie, an in-memory map, or anything else.
type Host interface {
	GetBalance(addr types.Address) *uint256.Int
	GetNonce(addr types.Address) uint64
	GetCode(addr types.Address) []byte
	GetCodeHash(addr types.Address) types.Hash
	GetCodeSize(addr types.Address) int

	StorageGet(addr types.Address, key types.Hash) types.Hash
	StorageSet(addr types.Address, key, value types.Hash)
	// GetCommittedStorage returns the slot's value as of the start of the
	// current transaction, the "original" value EIP-2200 net metering
	// compares against.
	GetCommittedStorage(addr types.Address, key types.Hash) types.Hash

	SetBalance(addr types.Address, amount *uint256.Int)
	SetNonce(addr types.Address, nonce uint64)
	SetCode(addr types.Address, code []byte)

	AccountExists(addr types.Address) bool
	Empty(addr types.Address) bool // EIP-161: nonce==0, balance==0, code empty

	GetBlockHash(number uint64) types.Hash

	// Snapshot/RevertToSnapshot bracket the account-state side effects of a
	// sub-call so the Evm can undo them on failure/REVERT while access-list
	// warmness, created-account tracking, refunds, and logs are unwound by
	// the Evm itself via its own journals.
	Snapshot() int
	RevertToSnapshot(id int)

	IsPrecompile(addr types.Address) bool
	RunPrecompile(addr types.Address, input []byte, gas uint64) (ret []byte, remainingGas uint64, err error)
}

// BlockContext carries the block-scoped parameters opcodes like NUMBER,
// TIMESTAMP, COINBASE, BASEFEE, and BLOCKHASH read.
type BlockContext struct {
	Coinbase    types.Address
	GasLimit    uint64
	BlockNumber uint64
	Time        uint64
	Difficulty  *uint256.Int // pre-Merge PoW difficulty
	Random      *uint256.Int // post-Merge PREVRANDAO (mix_hash reinterpreted)
	BaseFee     *uint256.Int // London+
	BlobBaseFee *uint256.Int // Cancun+

	// GetHash returns the hash of the ancestor block at number, or the zero
	// hash if number is outside the 256-block BLOCKHASH window.
	GetHash func(number uint64) types.Hash
}

// TxContext carries the transaction-scoped parameters ORIGIN, GASPRICE, and
// BLOBHASH read.
type TxContext struct {
	Origin     types.Address
	GasPrice   *uint256.Int
	BlobHashes []types.Hash
}
