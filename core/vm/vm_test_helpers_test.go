package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

// testAccount holds one address's state for testHost.
type testAccount struct {
	balance   *uint256.Int
	nonce     uint64
	code      []byte
	storage   map[types.Hash]types.Hash
	committed map[types.Hash]types.Hash
}

// testHost is a minimal in-memory Host for exercising the interpreter and
// Evm sub-machine in isolation, the same role the teacher's test suite fills
// with a mock StateDB.
type testHost struct {
	accounts map[types.Address]*testAccount
	journal  []func(*testHost)
}

func newTestHost() *testHost {
	return &testHost{accounts: make(map[types.Address]*testAccount)}
}

func (h *testHost) acct(addr types.Address) *testAccount {
	a, ok := h.accounts[addr]
	if !ok {
		a = &testAccount{
			balance:   new(uint256.Int),
			storage:   make(map[types.Hash]types.Hash),
			committed: make(map[types.Hash]types.Hash),
		}
		h.accounts[addr] = a
	}
	return a
}

func (h *testHost) GetBalance(addr types.Address) *uint256.Int {
	return new(uint256.Int).Set(h.acct(addr).balance)
}
func (h *testHost) GetNonce(addr types.Address) uint64 { return h.acct(addr).nonce }
func (h *testHost) GetCode(addr types.Address) []byte  { return h.acct(addr).code }
func (h *testHost) GetCodeSize(addr types.Address) int { return len(h.acct(addr).code) }
func (h *testHost) GetCodeHash(addr types.Address) types.Hash {
	if len(h.acct(addr).code) == 0 {
		return types.Hash{}
	}
	return types.BytesToHash([]byte{1})
}

func (h *testHost) StorageGet(addr types.Address, key types.Hash) types.Hash {
	return h.acct(addr).storage[key]
}

func (h *testHost) StorageSet(addr types.Address, key, value types.Hash) {
	a := h.acct(addr)
	prev := a.storage[key]
	h.journal = append(h.journal, func(hh *testHost) { hh.acct(addr).storage[key] = prev })
	a.storage[key] = value
}

func (h *testHost) GetCommittedStorage(addr types.Address, key types.Hash) types.Hash {
	return h.acct(addr).committed[key]
}

func (h *testHost) SetBalance(addr types.Address, amount *uint256.Int) {
	a := h.acct(addr)
	prev := new(uint256.Int).Set(a.balance)
	h.journal = append(h.journal, func(hh *testHost) { hh.acct(addr).balance = prev })
	a.balance = new(uint256.Int).Set(amount)
}

func (h *testHost) SetNonce(addr types.Address, nonce uint64) {
	a := h.acct(addr)
	prev := a.nonce
	h.journal = append(h.journal, func(hh *testHost) { hh.acct(addr).nonce = prev })
	a.nonce = nonce
}

func (h *testHost) SetCode(addr types.Address, code []byte) {
	a := h.acct(addr)
	prev := a.code
	h.journal = append(h.journal, func(hh *testHost) { hh.acct(addr).code = prev })
	a.code = code
}

func (h *testHost) AccountExists(addr types.Address) bool {
	a, ok := h.accounts[addr]
	return ok && (a.nonce != 0 || len(a.code) != 0 || !a.balance.IsZero())
}

func (h *testHost) Empty(addr types.Address) bool {
	a, ok := h.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

func (h *testHost) GetBlockHash(number uint64) types.Hash { return types.Hash{} }

func (h *testHost) Snapshot() int { return len(h.journal) }

func (h *testHost) RevertToSnapshot(id int) {
	for i := len(h.journal) - 1; i >= id; i-- {
		h.journal[i](h)
	}
	h.journal = h.journal[:id]
}

func (h *testHost) IsPrecompile(addr types.Address) bool { return false }

func (h *testHost) RunPrecompile(addr types.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	return nil, 0, ErrInvalidOpcode
}

// newTestEvm builds an Evm at the given fork over a fresh testHost, with no
// pre-populated access list beyond what NewEvm itself does.
func newTestEvm(fork Fork) (*Evm, *testHost) {
	host := newTestHost()
	blockCtx := BlockContext{
		Difficulty:  new(uint256.Int),
		Random:      new(uint256.Int),
		BaseFee:     new(uint256.Int),
		BlobBaseFee: new(uint256.Int),
		GetHash:     func(uint64) types.Hash { return types.Hash{} },
	}
	txCtx := TxContext{GasPrice: new(uint256.Int)}
	evm := NewEvm(host, blockCtx, txCtx, fork, 1, nil, nil, nil)
	return evm, host
}
